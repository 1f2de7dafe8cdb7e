// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/radarview/overlay/internal/config"
	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
)

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *model.Session

	cycles []core.CycleRecord

	endTime        time.Time
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg: cfg,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(s *model.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = s
	b.cycles = nil
	b.endTime = time.Time{}
	b.lastExportPath = ""

	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session started")
	}
	b.endTime = time.Now()

	return b.exportJSON()
}

// RecordCycle appends a processed reload cycle
func (b *Backend) RecordCycle(rec *core.CycleRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session started")
	}
	b.cycles = append(b.cycles, *rec)
	return nil
}

// CycleCount returns the number of recorded cycles
func (b *Backend) CycleCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cycles)
}

// GetExportedFilePath returns the path of the last exported file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// GetExportMetadata returns upload metadata for the last exported session
func (b *Backend) GetExportMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()

	meta := core.UploadMetadata{}
	if b.session == nil {
		return meta
	}
	meta.SessionName = b.session.SessionName
	meta.HostName = b.session.HostName
	meta.Tag = b.session.Tag
	if !b.endTime.IsZero() {
		meta.SessionDuration = b.endTime.Sub(b.session.StartTime).Seconds()
	}
	return meta
}
