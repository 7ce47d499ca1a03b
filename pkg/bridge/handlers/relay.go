package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/config"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/metrics"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/mw"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/protocol"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/session"
	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/sessions"
	"github.com/info324/mspc-voice-ai-brain/pkg/llm"
	"github.com/info324/mspc-voice-ai-brain/pkg/notify"
)

// RelayHandler handles /ai-voice ConversationRelay websocket sessions.
type RelayHandler struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Model    llm.Completer
	Notifier notify.Notifier
	Sessions *sessions.Tracker

	// Draining reports whether the server has begun shutdown and should
	// refuse new calls.
	Draining func() bool
}

func (h RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Draining != nil && h.Draining() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	// Twilio connects server-to-server with no Origin header; browsers
	// have no business here either way, so accept all origins.
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if h.Config.MaxFrameBytes > 0 {
		conn.SetReadLimit(h.Config.MaxFrameBytes)
	}

	sessionID := "call_" + uuid.NewString()
	reqID, _ := mw.RequestIDFrom(r.Context())
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session_id", sessionID, "request_id", reqID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	unregister := func() {}
	if h.Sessions != nil {
		unregister = h.Sessions.Register(sessionID, cancel)
	}
	defer unregister()

	h.Metrics.CallStarted()
	defer h.Metrics.CallEnded()

	out := &wsSpeaker{conn: conn, writeTimeout: h.Config.WSWriteTimeout}
	sess := session.New(sessionID, h.Config, logger, out, h.Model, h.Notifier, h.Metrics)

	logger.Info("call connected")

	if err := sess.Greet(); err != nil {
		logger.Warn("greeting failed", "error", err)
		return
	}

	// Close the connection when the session context is cancelled so the
	// blocked ReadMessage below returns during drain.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	pingInterval := h.Config.WSPingInterval
	if pingInterval > 0 {
		go h.pingLoop(ctx, out, pingInterval)
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, context.Canceled) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("call disconnected", "error", err)
			} else {
				logger.Info("call disconnected")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		sess.HandleFrame(ctx, data)
	}
}

func (h RelayHandler) pingLoop(ctx context.Context, out *wsSpeaker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := out.Ping(); err != nil {
				return
			}
		}
	}
}

// wsSpeaker serializes writes to a websocket connection. ReadMessage runs
// on the handler goroutine; Speak may be called from the same goroutine or
// from the ping loop, so writes take a lock.
type wsSpeaker struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex
}

func (s *wsSpeaker) Speak(text string) error {
	frame, err := protocol.EncodeSpeak(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *wsSpeaker) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := time.Now().Add(5 * time.Second)
	if s.writeTimeout > 0 {
		deadline = time.Now().Add(s.writeTimeout)
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, deadline)
}
