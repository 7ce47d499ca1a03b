package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/config"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/handlers"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/metrics"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/mw"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/sessions"
	"github.com/info324/mspc-voice-ai-brain/pkg/llm"
	"github.com/info324/mspc-voice-ai-brain/pkg/notify"
)

// RelayPath is where Twilio ConversationRelay connects.
const RelayPath = "/ai-voice"

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	metrics  *metrics.Metrics
	calls    *sessions.Tracker
	model    llm.Completer
	notifier notify.Notifier
	draining atomic.Bool
}

// Option overrides a dependency, mostly for tests.
type Option func(*Server)

func WithModel(model llm.Completer) Option {
	return func(s *Server) { s.model = model }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

func New(cfg config.Config, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		metrics: metrics.New(""),
		calls:   sessions.NewTracker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.model == nil {
		s.model = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.Temperature)
	}
	if s.notifier == nil {
		s.notifier = notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.NotifyTimeout)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/", &handlers.RootHandler{})
	s.mux.Handle("/health", &handlers.HealthHandler{})
	s.mux.Handle("/metrics", s.metrics.Handler())
	s.mux.Handle(RelayPath, handlers.RelayHandler{
		Config:   s.cfg,
		Logger:   s.logger,
		Metrics:  s.metrics,
		Model:    s.model,
		Notifier: s.notifier,
		Sessions: s.calls,
		Draining: s.draining.Load,
	})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, RelayPath, h)
	h = mw.RequestID(h)
	return h
}

// SetDraining makes the relay endpoint refuse new calls. Existing calls
// continue until they end or CancelCalls fires.
func (s *Server) SetDraining(v bool) {
	s.draining.Store(v)
}

// WaitCalls blocks until every live call has ended or ctx expires; it
// reports whether the server fully drained.
func (s *Server) WaitCalls(ctx context.Context) bool {
	return s.calls.Wait(ctx)
}

// CancelCalls force-cancels every live call and reports how many were hit.
func (s *Server) CancelCalls() int {
	return s.calls.CancelAll()
}
