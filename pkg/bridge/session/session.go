package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/config"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/directive"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/metrics"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/protocol"
	"github.com/info324/mspc-voice-ai-brain/pkg/llm"
	"github.com/info324/mspc-voice-ai-brain/pkg/notify"
)

// Speaker writes one utterance to the caller over the relay socket.
type Speaker interface {
	Speak(text string) error
}

// Session is the per-connection conversation state machine. One Session is
// created per relay connection and touched only by that connection's
// sequential frame loop; nothing here needs locking.
type Session struct {
	id      string
	cfg     config.Config
	log     *slog.Logger
	out     Speaker
	model   llm.Completer
	notify  notify.Notifier
	metrics *metrics.Metrics

	callSID           string
	fromNumber        string
	misunderstandings int
}

func New(id string, cfg config.Config, logger *slog.Logger, out Speaker, model llm.Completer, notifier notify.Notifier, m *metrics.Metrics) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:      id,
		cfg:     cfg,
		log:     logger.With("session_id", id),
		out:     out,
		model:   model,
		notify:  notifier,
		metrics: m,
	}
}

func (s *Session) CallSID() string        { return s.callSID }
func (s *Session) From() string           { return s.fromNumber }
func (s *Session) Misunderstandings() int { return s.misunderstandings }

// Greet speaks the opening prompt. Called once, right after the upgrade.
func (s *Session) Greet() error {
	return s.out.Speak(Greeting)
}

// HandleFrame processes one inbound relay frame in arrival order.
// Unparseable frames are discarded without a reply.
func (s *Session) HandleFrame(ctx context.Context, data []byte) {
	decoded, err := protocol.Decode(data)
	if err != nil {
		s.log.Debug("discarding unparseable frame", "error", err)
		return
	}

	switch msg := decoded.(type) {
	case protocol.StartEvent:
		s.handleStart(msg)
	case protocol.TranscriptionEvent:
		s.handleTranscription(ctx, msg)
	case protocol.StopEvent:
		s.log.Info("call stopped", "call_sid", s.callSID, "misunderstandings", s.misunderstandings)
	case protocol.UnknownEvent:
		s.log.Debug("ignoring relay event", "event", msg.Event)
	}
}

func (s *Session) handleStart(msg protocol.StartEvent) {
	s.callSID = msg.CallSID
	s.fromNumber = msg.From
	s.log.Info("call started", "call_sid", s.callSID, "from", s.fromNumber)
}

func (s *Session) handleTranscription(ctx context.Context, msg protocol.TranscriptionEvent) {
	user := strings.TrimSpace(msg.Text)
	if user == "" {
		return
	}
	s.log.Info("caller utterance", "text", user)

	turnTimeout := s.cfg.TurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	start := time.Now()
	turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := s.model.Complete(turnCtx, systemInstruction, user)
	if err != nil {
		s.misunderstandings++
		s.metrics.ObserveTurn(metrics.TurnModelError, time.Since(start))
		s.log.Warn("model call failed", "error", err, "misunderstandings", s.misunderstandings)
		s.speak(apologyUtterance)
		return
	}
	s.metrics.ObserveTurn(metrics.TurnOK, time.Since(start))

	spoken, d := directive.FromReply(reply)
	if spoken != "" {
		s.speak(spoken)
	}
	if d != nil {
		s.dispatch(d)
	}
}

func (s *Session) speak(text string) {
	if err := s.out.Speak(text); err != nil {
		s.log.Error("speak failed", "error", err)
	}
}
