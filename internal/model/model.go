// Package model defines the database schema for recorded overlay
// sessions. A session groups the reload cycles processed while a
// widget instance was alive.
package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&ReloadCycle{},
}

// Session is one widget lifetime on a host map.
type Session struct {
	gorm.Model
	SessionID   string    `json:"sessionId" gorm:"size:64;uniqueIndex"`
	SessionName string    `json:"sessionName" gorm:"size:200"`
	HostName    string    `json:"hostName" gorm:"size:200"`
	WidgetName  string    `json:"widgetName" gorm:"size:127"`
	StartTime   time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_session_start"`
	EndTime     sql.NullTime `json:"endTime" gorm:"type:timestamptz"`
	Tag         string    `json:"tag" gorm:"size:127"`
	RingMargin  float64   `json:"ringMargin" gorm:"default:1.5"`

	Cycles []ReloadCycle `json:"-"`
}

func (*Session) TableName() string {
	return "sessions"
}

// ReloadCycle is one processed reload event with its resulting
// indicator set.
type ReloadCycle struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;index:idx_cycle_time"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_reloadcycle_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`

	Seq             uint64          `json:"seq"`
	Event           string          `json:"event" gorm:"size:32;index:idx_cycle_event"`
	SelfPosition    geom.Point      `json:"selfPosition"`
	Heading         sql.NullFloat64 `json:"heading"`
	AnnotationCount int             `json:"annotationCount"`
	IndicatorCount  int             `json:"indicatorCount"`
	ViewportChanged bool            `json:"viewportChanged"`
	DurationMs      float32         `json:"durationMs"`

	Annotations datatypes.JSON `json:"annotations" gorm:"type:jsonb;default:'[]'"`
	Indicators  datatypes.JSON `json:"indicators" gorm:"type:jsonb;default:'[]'"`
}

func (*ReloadCycle) TableName() string {
	return "reload_cycles"
}
