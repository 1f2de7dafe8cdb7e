// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/radarview/overlay/internal/config"
	"github.com/radarview/overlay/internal/database"
	"github.com/radarview/overlay/internal/storage/gormstore"
	"github.com/radarview/overlay/internal/storage/memory"
	"github.com/radarview/overlay/internal/storage/websocket"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "database":
		return gormstore.New(database.NewManager(log)), nil
	case "websocket":
		return websocket.New(websocket.Config{
			URL:    cfg.Websocket.URL,
			Secret: cfg.Websocket.Secret,
		}), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
