// pkg/core/reload.go
package core

import "time"

// ReloadEvent classifies a discrete update delivered by the host.
type ReloadEvent int

const (
	// ReloadOther is any event not otherwise distinguished. It still
	// triggers the annotation-count fallback check.
	ReloadOther ReloadEvent = iota

	// ReloadAnnotationsChanged signals the annotation set was replaced.
	ReloadAnnotationsChanged

	// ReloadSelfLocationChanged signals a new self-location fix.
	ReloadSelfLocationChanged

	// ReloadHeadingChanged signals a new compass heading.
	ReloadHeadingChanged
)

// String returns the event name used in logs and recorded cycles.
func (e ReloadEvent) String() string {
	switch e {
	case ReloadAnnotationsChanged:
		return "annotations_changed"
	case ReloadSelfLocationChanged:
		return "self_location_changed"
	case ReloadHeadingChanged:
		return "heading_changed"
	default:
		return "other"
	}
}

// CycleRecord captures one completed reload cycle for recording
// backends and metrics sinks.
type CycleRecord struct {
	Seq             uint64        `json:"seq"`
	Time            time.Time     `json:"time"`
	Event           ReloadEvent   `json:"event"`
	Self            Coordinate    `json:"self"`
	Heading         *float64      `json:"heading,omitempty"`
	AnnotationCount int           `json:"annotationCount"`
	IndicatorCount  int           `json:"indicatorCount"`
	ViewportChanged bool          `json:"viewportChanged"`
	Annotations     []Annotation  `json:"annotations,omitempty"`
	Indicators      []Indicator   `json:"indicators,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// UploadMetadata describes a completed session export for upload to a
// collector endpoint.
type UploadMetadata struct {
	SessionName     string  `json:"sessionName"`
	HostName        string  `json:"hostName"`
	SessionDuration float64 `json:"sessionDuration"`
	Tag             string  `json:"tag"`
}
