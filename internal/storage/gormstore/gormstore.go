// Package gormstore records sessions through the database manager.
package gormstore

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/radarview/overlay/internal/database"
	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
)

// Backend persists sessions and reload cycles via gorm.
type Backend struct {
	manager *database.Manager

	mu      sync.Mutex
	session *model.Session
}

// New creates a database storage backend over an existing manager.
func New(manager *database.Manager) *Backend {
	return &Backend{manager: manager}
}

// Init connects and migrates if the manager is not already usable.
func (b *Backend) Init() error {
	if b.manager == nil {
		return fmt.Errorf("no database manager")
	}
	if !b.manager.IsValid {
		if err := b.manager.Connect(); err != nil {
			return err
		}
		if err := b.manager.Setup(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database connection.
func (b *Backend) Close() error {
	return b.manager.Close()
}

// StartSession persists the session row and keeps it for cycle linkage.
func (b *Backend) StartSession(s *model.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.manager.DB.Create(s).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.session = s
	return nil
}

// EndSession stamps the end time on the session row.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session started")
	}

	err := b.manager.DB.Model(b.session).
		Update("end_time", sql.NullTime{Time: time.Now(), Valid: true}).Error
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	if b.manager.ShouldSaveLocal && b.manager.SqliteFilePath != "" {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			return err
		}
	}

	b.session = nil
	return nil
}

// RecordCycle persists one reload cycle.
func (b *Backend) RecordCycle(rec *core.CycleRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session started")
	}

	cycle, err := model.FromCycleRecord(*rec, b.session.ID)
	if err != nil {
		return err
	}

	if err := b.manager.DB.Create(&cycle).Error; err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}
