package gormstore_test

import (
	"github.com/radarview/overlay/internal/storage"
	"github.com/radarview/overlay/internal/storage/gormstore"
)

// Compile-time interface check. Lives in an external test package because
// importing internal/storage from package gormstore would create an import
// cycle (storage's factory imports gormstore).
var _ storage.Backend = (*gormstore.Backend)(nil)
