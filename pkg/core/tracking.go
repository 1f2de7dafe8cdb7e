// pkg/core/tracking.go
package core

// StartModeKind selects the initial framing policy.
type StartModeKind int

const (
	// StartCenterOnSelf frames the first viewport on the self location
	// with a fixed span.
	StartCenterOnSelf StartModeKind = iota

	// StartFitAllAnnotations frames the first viewport around the
	// minimal region covering every current annotation, with padding.
	StartFitAllAnnotations
)

// StartMode is the initial framing policy plus its parameters.
type StartMode struct {
	Kind StartModeKind

	// Span applies to StartCenterOnSelf only.
	Span Span
}

// TrackingModeKind selects the auto-recentering policy applied after
// the first framing.
type TrackingModeKind int

const (
	// TrackNone never re-centers.
	TrackNone TrackingModeKind = iota

	// TrackAlwaysCenterOnSelf re-centers on every location update.
	TrackAlwaysCenterOnSelf

	// TrackCenterOnSelfNearBorder re-centers only when the self marker
	// drifts into the outer band of the visible circle.
	TrackCenterOnSelfNearBorder
)

// TrackingMode is the recentering policy plus its parameters.
type TrackingMode struct {
	Kind TrackingModeKind

	// Span, when non-zero, overrides the viewport span on re-center.
	// A zero span preserves the current zoom level.
	Span Span
}

// TrackingState is the view-state machine's persistent state.
// HasFramedOnce transitions false to true exactly once, on the first
// framing that actually issues a viewport request, and never resets
// for the life of the widget instance.
type TrackingState struct {
	StartMode     StartMode
	TrackingMode  TrackingMode
	HasFramedOnce bool
}
