// internal/storage/storage.go
package storage

import (
	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
)

// Backend is the interface all session recording implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *model.Session) error
	EndSession() error

	// Cycle recording
	RecordCycle(rec *core.CycleRecord) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to a collector endpoint.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() core.UploadMetadata
}
