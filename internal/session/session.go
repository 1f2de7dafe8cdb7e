// Package session holds the identity of the current widget session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
)

// Context holds the current session state
type Context struct {
	mu      sync.RWMutex
	session *model.Session
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		session: &model.Session{SessionName: "No session started"},
	}
}

// GetSession returns the current session
func (sc *Context) GetSession() *model.Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.session
}

// Begin starts a new session with a fresh instance ID.
func (sc *Context) Begin(sessionName, hostName, widgetName, tag string) *model.Session {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.session = &model.Session{
		SessionID:   uuid.NewString(),
		SessionName: sessionName,
		HostName:    hostName,
		WidgetName:  widgetName,
		StartTime:   time.Now(),
		Tag:         tag,
	}
	return sc.session
}

// Metadata builds the upload metadata for the current session.
func (sc *Context) Metadata() core.UploadMetadata {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return core.UploadMetadata{
		SessionName:     sc.session.SessionName,
		HostName:        sc.session.HostName,
		SessionDuration: time.Since(sc.session.StartTime).Seconds(),
		Tag:             sc.session.Tag,
	}
}
