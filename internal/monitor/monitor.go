// Package monitor reports periodic overlay status: processed cycles,
// live indicator count and recording queue health.
package monitor

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/radarview/overlay/internal/logging"
	"github.com/radarview/overlay/internal/reload"
	"github.com/radarview/overlay/internal/session"
	"github.com/radarview/overlay/internal/worker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Coordinator    *reload.Coordinator
	WorkerManager  *worker.Manager
	SessionContext *session.Context
	LogManager     *logging.SlogManager
}

// Status is a point-in-time snapshot of overlay health.
type Status struct {
	Time               time.Time `json:"time"`
	SessionName        string    `json:"sessionName"`
	CyclesProcessed    uint64    `json:"cyclesProcessed"`
	DroppedAnnotations uint64    `json:"droppedAnnotations"`
	IndicatorCount     int       `json:"indicatorCount"`
	QueueDepth         int       `json:"queueDepth"`
	CyclesWritten      uint64    `json:"cyclesWritten"`
	LastWriteMs        float32   `json:"lastWriteMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current overlay status
func (s *Service) GetStatus() Status {
	status := Status{
		Time:               time.Now(),
		CyclesProcessed:    s.deps.Coordinator.CyclesProcessed(),
		DroppedAnnotations: s.deps.Coordinator.DroppedAnnotations(),
		IndicatorCount:     s.deps.Coordinator.IndicatorCount(),
	}
	if s.deps.SessionContext != nil {
		status.SessionName = s.deps.SessionContext.GetSession().SessionName
	}
	if s.deps.WorkerManager != nil {
		status.QueueDepth = s.deps.WorkerManager.QueueDepth()
		status.CyclesWritten = s.deps.WorkerManager.CyclesWritten()
		status.LastWriteMs = float32(s.deps.WorkerManager.GetLastWriteDuration().Milliseconds())
	}
	return status
}

// StatusJSON returns the current status as indented JSON.
func (s *Service) StatusJSON() string {
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "%s"}`, err)
	}
	return string(data)
}

// Start begins periodic status logging at the given interval.
func (s *Service) Start(interval time.Duration) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.writeStatus()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop halts periodic status logging.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) writeStatus() {
	if s.deps.LogManager == nil {
		return
	}
	s.deps.LogManager.WriteLog("monitor", s.StatusJSON(), "INFO")
}
