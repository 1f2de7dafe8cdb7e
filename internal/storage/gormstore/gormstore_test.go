package gormstore

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarview/overlay/internal/database"
	"github.com/radarview/overlay/internal/model"
	"github.com/radarview/overlay/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	m := database.NewManager(zerolog.Nop())
	db, err := m.GetSqliteDB(t.TempDir() + "/overlay_test.db")
	require.NoError(t, err)
	m.DB = db
	m.IsValid = true

	require.NoError(t, m.DB.AutoMigrate(model.DatabaseModels...))

	return New(m)
}

func testSession() *model.Session {
	return &model.Session{
		SessionID:   "11111111-2222-3333-4444-555555555555",
		SessionName: "harbor patrol",
		HostName:    "host-a",
		WidgetName:  "radar-overlay",
		StartTime:   time.Now().Add(-time.Minute),
		Tag:         "demo",
	}
}

func TestStartSessionPersistsRow(t *testing.T) {
	b := newTestBackend(t)

	s := testSession()
	require.NoError(t, b.StartSession(s))
	assert.NotZero(t, s.ID)

	var count int64
	require.NoError(t, b.manager.DB.Model(&model.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordCycleLinksToSession(t *testing.T) {
	b := newTestBackend(t)

	s := testSession()
	require.NoError(t, b.StartSession(s))

	heading := 90.0
	rec := &core.CycleRecord{
		Seq:     1,
		Time:    time.Now(),
		Event:   core.ReloadSelfLocationChanged,
		Self:    core.Coordinate{Lat: 52.5, Lon: 13.4},
		Heading: &heading,
	}
	require.NoError(t, b.RecordCycle(rec))

	var cycles []model.ReloadCycle
	require.NoError(t, b.manager.DB.Find(&cycles).Error)
	require.Len(t, cycles, 1)
	assert.Equal(t, s.ID, cycles[0].SessionID)
	assert.Equal(t, "self_location_changed", cycles[0].Event)
	assert.True(t, cycles[0].Heading.Valid)
}

func TestEndSessionStampsEndTime(t *testing.T) {
	b := newTestBackend(t)

	s := testSession()
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.EndSession())

	var got model.Session
	require.NoError(t, b.manager.DB.First(&got, s.ID).Error)
	assert.True(t, got.EndTime.Valid)

	rec := &core.CycleRecord{Self: core.Coordinate{Lat: 0, Lon: 0}}
	assert.Error(t, b.RecordCycle(rec))
}

func TestRecordBeforeStartFails(t *testing.T) {
	b := newTestBackend(t)

	rec := &core.CycleRecord{Self: core.Coordinate{Lat: 0, Lon: 0}}
	assert.Error(t, b.RecordCycle(rec))
	assert.Error(t, b.EndSession())
}
