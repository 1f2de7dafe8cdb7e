package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
	"github.com/radarview/overlay/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams session data over WebSocket to a live viewer server.
// It implements storage.Backend but not storage.Uploadable.
type Backend struct {
	conn *connection
	cfg  Config

	mu         sync.Mutex
	sessionID  string
	startTime  time.Time
	cycleCount int
}

// New creates a new WebSocket storage backend.
func New(cfg Config) *Backend {
	return &Backend{
		conn: newConnection(slog.Default()),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// StartSession sends session data and waits for server ack.
func (b *Backend) StartSession(s *model.Session) error {
	payload := streaming.StartSessionPayload{
		SessionID:   s.SessionID,
		SessionName: s.SessionName,
		HostName:    s.HostName,
		WidgetName:  s.WidgetName,
		StartTime:   s.StartTime,
		Tag:         s.Tag,
	}

	data, err := marshalEnvelope(streaming.TypeStartSession, payload)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.sessionID = s.SessionID
	b.startTime = s.StartTime
	b.cycleCount = 0
	b.mu.Unlock()

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedStartMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartSession, ackTimeout)
}

// EndSession sends end_session and waits for server ack.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	payload := streaming.EndSessionPayload{
		SessionID:  b.sessionID,
		Duration:   time.Since(b.startTime).Seconds(),
		CycleCount: b.cycleCount,
	}
	b.mu.Unlock()

	data, err := marshalEnvelope(streaming.TypeEndSession, payload)
	if err != nil {
		return err
	}
	err = b.conn.sendAndWait(data, streaming.TypeEndSession, ackTimeout)

	// Clear cached state regardless of error.
	b.conn.mu.Lock()
	b.conn.cachedStartMsg = nil
	b.conn.mu.Unlock()

	return err
}

// RecordCycle streams one reload cycle plus its indicator set.
func (b *Backend) RecordCycle(rec *core.CycleRecord) error {
	b.mu.Lock()
	sessionID := b.sessionID
	b.cycleCount++
	b.mu.Unlock()

	if err := b.sendEnvelope(streaming.TypeReloadCycle, streaming.ReloadCyclePayload{
		SessionID: sessionID,
		Cycle:     *rec,
	}); err != nil {
		return err
	}

	return b.sendEnvelope(streaming.TypeIndicatorSet, streaming.IndicatorSetPayload{
		SessionID:  sessionID,
		Seq:        rec.Seq,
		Indicators: rec.Indicators,
	})
}
