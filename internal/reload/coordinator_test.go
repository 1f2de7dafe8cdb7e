package reload

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarview/overlay/internal/indicator"
	"github.com/radarview/overlay/internal/sim"
	"github.com/radarview/overlay/internal/tracking"
	"github.com/radarview/overlay/pkg/core"
)

// countingSurface wraps the sim surface and counts projection calls,
// to assert when indicator recomputation actually ran.
type countingSurface struct {
	*sim.Surface
	projections atomic.Int64
}

func (s *countingSurface) ProjectToSurface(c core.Coordinate) (core.SurfacePoint, error) {
	s.projections.Add(1)
	return s.Surface.ProjectToSurface(c)
}

func newTestSurface() *countingSurface {
	vp := core.Viewport{
		Region: core.Region{
			Center: core.Coordinate{Lat: 0, Lon: 0},
			Span:   core.Span{LatDelta: 1, LonDelta: 1},
		},
		PixelRadius: 100,
	}
	return &countingSurface{Surface: sim.NewSurface(vp, core.Span{})}
}

func newCoordinator(surface *countingSurface, state core.TrackingState, opts ...Option) *Coordinator {
	return New(
		surface,
		state,
		indicator.NewPlacer(indicator.DefaultRingMargin, nil),
		tracking.NewController(tracking.DefaultBorderBand, tracking.DefaultMinBorderRadius, nil),
		opts...,
	)
}

// poi builds an annotation at the given offset, in degrees, from the
// test viewport's center. With a 1x1 degree span over a radius-100
// surface, one degree of longitude is 200 surface units.
func poi(id core.AnnotationID, latOff, lonOff float64) core.Annotation {
	return core.Annotation{ID: id, Coordinate: core.Coordinate{Lat: latOff, Lon: lonOff}}
}

func coordPtr(lat, lon float64) *core.Coordinate {
	return &core.Coordinate{Lat: lat, Lon: lon}
}

func TestOnReload_NoSelfLocationIsNoOp(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartFitAllAnnotations},
	})

	out := c.OnReload(core.ReloadOther, nil, nil, nil)

	assert.Equal(t, Output{}, out)
	assert.Empty(t, surface.Requests(), "no viewport request without a self location")
	assert.False(t, c.State().HasFramedOnce)
	assert.Equal(t, uint64(0), c.CyclesProcessed())
}

func TestOnReload_InvalidSelfLocationIsNoOp(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{})

	out := c.OnReload(core.ReloadSelfLocationChanged, &core.Coordinate{Lat: math.NaN()}, nil, nil)
	assert.Equal(t, Output{}, out)
}

func TestOnReload_FirstFramingHappensOnce(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{
			Kind: core.StartCenterOnSelf,
			Span: core.Span{LatDelta: 1, LonDelta: 1},
		},
		TrackingMode: core.TrackingMode{Kind: core.TrackNone},
	})

	out := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(10, 20), nil, nil)
	require.NotNil(t, out.Framing)
	assert.False(t, out.Framing.Animated)
	assert.True(t, out.ViewportChanged)
	assert.True(t, c.State().HasFramedOnce)

	// Later location changes under TrackNone never reframe.
	for i := 0; i < 3; i++ {
		out = c.OnReload(core.ReloadSelfLocationChanged, coordPtr(10.1, 20.1), nil, nil)
		assert.Nil(t, out.Framing)
	}
	assert.Len(t, surface.Requests(), 1)
	assert.True(t, c.State().HasFramedOnce)
}

func TestOnReload_FramingWaitsForValidSelfLocation(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	})

	// Events without a fix arrive first; HasFramedOnce must survive
	// any number of them and still flip exactly once afterwards.
	c.OnReload(core.ReloadAnnotationsChanged, nil, nil, []core.Annotation{poi("a", 0, 0.7)})
	c.OnReload(core.ReloadHeadingChanged, nil, nil, nil)
	require.False(t, c.State().HasFramedOnce)

	out := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, []core.Annotation{poi("a", 0, 0.7)})
	assert.NotNil(t, out.Framing)
	assert.True(t, c.State().HasFramedOnce)
}

func TestOnReload_AlwaysCenterRecentersEveryLocationChange(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode:    core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
		TrackingMode: core.TrackingMode{Kind: core.TrackAlwaysCenterOnSelf},
	})

	c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, nil)

	// Self drifts; every genuine location change re-centers, animated,
	// span preserved, regardless of distance from center.
	for _, lon := range []float64{0.1, 0.35} {
		out := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, lon), nil, nil)
		require.NotNil(t, out.Framing)
		assert.True(t, out.Framing.Animated)
		assert.Equal(t, lon, out.Framing.Region.Center.Lon)
		assert.Equal(t, core.Span{LatDelta: 1, LonDelta: 1}, out.Framing.Region.Span)
	}
}

func TestOnReload_AnnotationChurnDoesNotReframe(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode:    core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
		TrackingMode: core.TrackingMode{Kind: core.TrackAlwaysCenterOnSelf},
	})
	c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, nil)
	require.Len(t, surface.Requests(), 1)

	out := c.OnReload(core.ReloadAnnotationsChanged, coordPtr(0, 0), nil, []core.Annotation{poi("a", 0, 0.7)})
	assert.Nil(t, out.Framing, "annotation churn alone must not reframe")
	assert.Len(t, surface.Requests(), 1)
	assert.True(t, out.AnnotationsChanged)
}

func TestOnReload_IndicatorPartition(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	})

	annotations := []core.Annotation{
		poi("inside", 0, 0.2),  // 40 units from center
		poi("east", 0, 0.75),   // 150 units
		poi("west", 0, -0.75),  // 150 units
	}
	out := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, annotations)

	require.Len(t, out.Indicators, 2)
	assert.Contains(t, out.Indicators, core.AnnotationID("east"))
	assert.Contains(t, out.Indicators, core.AnnotationID("west"))
	assert.NotContains(t, out.Indicators, core.AnnotationID("inside"))
}

func TestOnReload_IndicatorIdentityStableAcrossCycles(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode:    core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
		TrackingMode: core.TrackingMode{Kind: core.TrackNone},
	})
	annotations := []core.Annotation{poi("east", 0, 0.75)}

	first := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, annotations)
	require.Len(t, first.Indicators, 1)

	second := c.OnReload(core.ReloadAnnotationsChanged, coordPtr(0, 0), nil, annotations)
	require.Len(t, second.Indicators, 1)
	assert.Same(t, first.Indicators["east"], second.Indicators["east"])
}

func TestOnReload_RecomputeGating(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode:    core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
		TrackingMode: core.TrackingMode{Kind: core.TrackNone},
	})
	annotations := []core.Annotation{poi("east", 0, 0.75)}

	c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, annotations)
	before := surface.projections.Load()
	require.Greater(t, before, int64(0))

	// Same annotation count, self exists, no framing: nothing in this
	// cycle requires placement to run again.
	heading := 90.0
	out := c.OnReload(core.ReloadHeadingChanged, coordPtr(0, 0), &heading, annotations)
	assert.True(t, out.HeadingApplied)
	assert.False(t, out.AnnotationsChanged)
	assert.False(t, out.ViewportChanged)
	assert.Equal(t, before, surface.projections.Load(), "no recompute without churn or framing")
}

func TestOnReload_CountFallbackTriggersUpdate(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	})
	c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, []core.Annotation{poi("a", 0, 0.75)})

	// A generic event with a different annotation count still replaces
	// the set.
	out := c.OnReload(core.ReloadOther, coordPtr(0, 0), nil, []core.Annotation{
		poi("a", 0, 0.75),
		poi("b", 0, -0.75),
	})
	assert.True(t, out.AnnotationsChanged)
	assert.Len(t, out.Indicators, 2)
}

func TestOnReload_HeadingForwarded(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	})

	heading := 237.5
	out := c.OnReload(core.ReloadHeadingChanged, coordPtr(0, 0), &heading, nil)
	assert.True(t, out.HeadingApplied)

	got, ok := c.Heading()
	require.True(t, ok)
	assert.Equal(t, 237.5, got)
}

func TestOnReload_DropsInvalidAnnotations(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	})

	bad := core.Annotation{ID: "bad", Coordinate: core.Coordinate{Lat: math.NaN()}}
	out := c.OnReload(core.ReloadAnnotationsChanged, coordPtr(0, 0), nil, []core.Annotation{
		bad,
		poi("good", 0, 0.75),
	})

	assert.Equal(t, 1, out.Dropped)
	require.Len(t, out.Indicators, 1)
	assert.Contains(t, out.Indicators, core.AnnotationID("good"))
	assert.Equal(t, uint64(1), c.DroppedAnnotations())
}

func TestViewportChanged_RecomputesMembership(t *testing.T) {
	surface := newTestSurface()
	c := newCoordinator(surface, core.TrackingState{
		StartMode:    core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
		TrackingMode: core.TrackingMode{Kind: core.TrackNone},
	})
	out := c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, []core.Annotation{poi("east", 0, 0.75)})
	require.Len(t, out.Indicators, 1)

	// The user pans east: the annotation comes inside the circle and
	// the self marker, left behind at the old center, goes outside.
	surface.SetRegion(core.Region{
		Center: core.Coordinate{Lat: 0, Lon: 0.75},
		Span:   core.Span{LatDelta: 1, LonDelta: 1},
	})
	indicators := c.ViewportChanged()
	require.Len(t, indicators, 1)
	assert.Contains(t, indicators, core.SelfAnnotationID)
	assert.True(t, indicators[core.SelfAnnotationID].IsSelf)

	// Panning back restores the original partition.
	surface.SetRegion(core.Region{
		Center: core.Coordinate{Lat: 0, Lon: 0},
		Span:   core.Span{LatDelta: 1, LonDelta: 1},
	})
	indicators = c.ViewportChanged()
	require.Len(t, indicators, 1)
	assert.Contains(t, indicators, core.AnnotationID("east"))
}

type captureRecorder struct {
	records []core.CycleRecord
}

func (r *captureRecorder) RecordCycle(rec core.CycleRecord) {
	r.records = append(r.records, rec)
}

func TestOnReload_RecordsCycles(t *testing.T) {
	surface := newTestSurface()
	rec := &captureRecorder{}
	c := newCoordinator(surface, core.TrackingState{
		StartMode: core.StartMode{Kind: core.StartCenterOnSelf, Span: core.Span{LatDelta: 1, LonDelta: 1}},
	}, WithRecorder(rec))

	c.OnReload(core.ReloadSelfLocationChanged, coordPtr(0, 0), nil, []core.Annotation{poi("east", 0, 0.75)})
	c.OnReload(core.ReloadAnnotationsChanged, coordPtr(0, 0), nil, nil)

	require.Len(t, rec.records, 2)
	assert.Equal(t, uint64(1), rec.records[0].Seq)
	assert.Equal(t, uint64(2), rec.records[1].Seq)
	assert.Equal(t, core.ReloadSelfLocationChanged, rec.records[0].Event)
	assert.Equal(t, 1, rec.records[0].AnnotationCount)
	assert.Equal(t, 1, rec.records[0].IndicatorCount)
	assert.Equal(t, 0, rec.records[1].AnnotationCount)
}
