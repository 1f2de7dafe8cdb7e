// Package worker moves cycle recording off the reload path. Records
// are queued by the coordinator's recorder hook and written to the
// storage backend in batches by a single writer goroutine.
package worker

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radarview/overlay/internal/queue"
	"github.com/radarview/overlay/internal/storage"
	"github.com/radarview/overlay/pkg/core"
)

const defaultFlushInterval = time.Second

// Manager manages the async cycle writer.
type Manager struct {
	backend storage.Backend
	logger  *slog.Logger

	queue         *queue.Queue[core.CycleRecord]
	flushInterval time.Duration

	stopChan chan struct{}
	doneWG   sync.WaitGroup
	started  bool

	lastWriteDuration atomic.Int64 // nanoseconds
	written           atomic.Uint64
}

// NewManager creates a new worker manager writing to the given backend.
func NewManager(backend storage.Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:       backend,
		logger:        logger,
		queue:         queue.New[core.CycleRecord](),
		flushInterval: defaultFlushInterval,
	}
}

// RecordCycle queues a cycle for asynchronous persistence. This is the
// hook the reload coordinator calls at the end of every cycle.
func (m *Manager) RecordCycle(rec core.CycleRecord) {
	m.queue.Push(rec)
}

// QueueDepth returns the number of records waiting to be written.
func (m *Manager) QueueDepth() int {
	return m.queue.Len()
}

// CyclesWritten returns the number of records written to the backend.
func (m *Manager) CyclesWritten() uint64 {
	return m.written.Load()
}

// GetLastWriteDuration returns the duration of the last flush.
func (m *Manager) GetLastWriteDuration() time.Duration {
	return time.Duration(m.lastWriteDuration.Load())
}

// Start launches the writer goroutine.
func (m *Manager) Start() {
	if m.started {
		return
	}
	m.started = true
	m.stopChan = make(chan struct{})

	m.doneWG.Add(1)
	go func() {
		defer m.doneWG.Done()

		ticker := time.NewTicker(m.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.flush()
			case <-m.stopChan:
				m.flush()
				return
			}
		}
	}()
}

// Stop flushes remaining records and stops the writer goroutine.
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	close(m.stopChan)
	m.doneWG.Wait()
	m.started = false
}

func (m *Manager) flush() {
	records := m.queue.GetAndEmpty()
	if len(records) == 0 {
		return
	}

	start := time.Now()
	for i := range records {
		if err := m.backend.RecordCycle(&records[i]); err != nil {
			m.logger.Error("Failed to record cycle", "seq", records[i].Seq, "error", err)
			continue
		}
		m.written.Add(1)
	}
	m.lastWriteDuration.Store(int64(time.Since(start)))

	m.logger.Debug("Flushed cycle records",
		"count", len(records),
		"duration", time.Since(start))
}
