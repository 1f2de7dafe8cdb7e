package model

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radarview/overlay/internal/geo"
	"github.com/radarview/overlay/pkg/core"
)

// FromCycleRecord converts a completed reload cycle into its database row.
func FromCycleRecord(rec core.CycleRecord, sessionID uint) (ReloadCycle, error) {
	cycle := ReloadCycle{
		Time:            rec.Time,
		SessionID:       sessionID,
		Seq:             rec.Seq,
		Event:           rec.Event.String(),
		AnnotationCount: rec.AnnotationCount,
		IndicatorCount:  rec.IndicatorCount,
		ViewportChanged: rec.ViewportChanged,
		DurationMs:      float32(rec.Duration.Seconds() * 1000),
	}

	point, err := geo.Point3857(rec.Self)
	if err != nil {
		return cycle, fmt.Errorf("error converting self position: %w", err)
	}
	cycle.SelfPosition = point

	if rec.Heading != nil {
		cycle.Heading = sql.NullFloat64{Float64: *rec.Heading, Valid: true}
	}

	annotations, err := json.Marshal(rec.Annotations)
	if err != nil {
		return cycle, fmt.Errorf("error marshalling annotations: %w", err)
	}
	cycle.Annotations = annotations

	indicators, err := json.Marshal(rec.Indicators)
	if err != nil {
		return cycle, fmt.Errorf("error marshalling indicators: %w", err)
	}
	cycle.Indicators = indicators

	return cycle, nil
}
