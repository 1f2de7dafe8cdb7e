package websocket_test

import (
	"github.com/radarview/overlay/internal/storage"
	"github.com/radarview/overlay/internal/storage/websocket"
)

// Compile-time interface check. Lives in an external test package because
// importing internal/storage from package websocket would create an import
// cycle (storage's factory imports websocket).
var _ storage.Backend = (*websocket.Backend)(nil)
