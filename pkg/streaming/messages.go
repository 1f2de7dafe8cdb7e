package streaming

import (
	"encoding/json"
	"time"

	"github.com/radarview/overlay/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeReloadCycle  = "reload_cycle"
	TypeIndicatorSet = "indicator_set"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload announces a new widget session.
type StartSessionPayload struct {
	SessionID   string    `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	HostName    string    `json:"hostName"`
	WidgetName  string    `json:"widgetName"`
	StartTime   time.Time `json:"startTime"`
	Tag         string    `json:"tag"`
}

// ReloadCyclePayload carries one processed reload cycle.
type ReloadCyclePayload struct {
	SessionID string           `json:"sessionId"`
	Cycle     core.CycleRecord `json:"cycle"`
}

// IndicatorSetPayload carries the indicator set after a cycle, for
// consumers that only render and do not replay cycles.
type IndicatorSetPayload struct {
	SessionID  string           `json:"sessionId"`
	Seq        uint64           `json:"seq"`
	Indicators []core.Indicator `json:"indicators"`
}

// EndSessionPayload closes a session.
type EndSessionPayload struct {
	SessionID  string  `json:"sessionId"`
	Duration   float64 `json:"duration"`
	CycleCount int     `json:"cycleCount"`
}
