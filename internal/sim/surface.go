// Package sim provides a deterministic in-memory implementation of the
// host map surface contract. It backs the coordinator tests and the
// demo host; a real embedding replaces it with the platform map view.
package sim

import (
	"fmt"
	"sync"

	"github.com/radarview/overlay/internal/channel"
	"github.com/radarview/overlay/internal/geo"
	"github.com/radarview/overlay/pkg/core"
)

// Surface is a flat-projection host map. Geographic coordinates are
// projected through EPSG:3857 and scaled linearly into the square
// drawing surface bounding the visible circle.
type Surface struct {
	mu       sync.RWMutex
	viewport core.Viewport
	maxSpan  core.Span
	requests []core.ViewportChange

	// changes carries host-driven viewport notifications; embedders
	// forward them into the coordinator's ViewportChanged entry point.
	changes channel.Channel[core.Viewport]
}

// NewSurface creates a Surface showing the given viewport. maxSpan is
// the host's largest supported span, used to clamp fit requests; a
// zero maxSpan disables clamping.
func NewSurface(viewport core.Viewport, maxSpan core.Span) *Surface {
	return &Surface{
		viewport: viewport,
		maxSpan:  maxSpan,
		changes:  channel.New[core.Viewport](16),
	}
}

// CurrentViewport returns the viewport as currently shown.
func (s *Surface) CurrentViewport() core.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// ProjectToSurface converts a coordinate into drawing-surface units
// under the current viewport.
func (s *Surface) ProjectToSurface(c core.Coordinate) (core.SurfacePoint, error) {
	s.mu.RLock()
	vp := s.viewport
	s.mu.RUnlock()

	if vp.Region.Span.IsZero() {
		return core.SurfacePoint{}, fmt.Errorf("viewport has no span")
	}

	px, py, err := geo.Mercator(c)
	if err != nil {
		return core.SurfacePoint{}, err
	}
	cx, cy, err := geo.Mercator(vp.Region.Center)
	if err != nil {
		return core.SurfacePoint{}, fmt.Errorf("viewport center unprojectable: %w", err)
	}

	// Mercator extent of the visible region, for scaling into the
	// square of side 2*PixelRadius.
	west := vp.Region.Center
	west.Lon -= vp.Region.Span.LonDelta / 2
	east := vp.Region.Center
	east.Lon += vp.Region.Span.LonDelta / 2
	south := vp.Region.Center
	south.Lat -= vp.Region.Span.LatDelta / 2
	north := vp.Region.Center
	north.Lat += vp.Region.Span.LatDelta / 2

	wx, _, err := geo.Mercator(west)
	if err != nil {
		return core.SurfacePoint{}, err
	}
	ex, _, err := geo.Mercator(east)
	if err != nil {
		return core.SurfacePoint{}, err
	}
	_, sy, err := geo.Mercator(south)
	if err != nil {
		return core.SurfacePoint{}, err
	}
	_, ny, err := geo.Mercator(north)
	if err != nil {
		return core.SurfacePoint{}, err
	}

	width := ex - wx
	height := ny - sy
	if width <= 0 || height <= 0 {
		return core.SurfacePoint{}, fmt.Errorf("viewport extent is empty")
	}

	side := 2 * vp.PixelRadius
	return core.SurfacePoint{
		X: vp.PixelRadius + (px-cx)/width*side,
		// Surface Y grows downward.
		Y: vp.PixelRadius - (py-cy)/height*side,
	}, nil
}

// RequestViewportChange applies the requested region, clamping the
// span to the supported maximum for fit requests (shrink, never
// expand), and notifies viewport subscribers.
func (s *Surface) RequestViewportChange(change core.ViewportChange) {
	s.mu.Lock()
	region := change.Region
	if change.Fit && !s.maxSpan.IsZero() {
		if region.Span.LatDelta > s.maxSpan.LatDelta {
			region.Span.LatDelta = s.maxSpan.LatDelta
		}
		if region.Span.LonDelta > s.maxSpan.LonDelta {
			region.Span.LonDelta = s.maxSpan.LonDelta
		}
	}
	s.viewport.Region = region
	s.requests = append(s.requests, change)
	vp := s.viewport
	s.mu.Unlock()

	s.changes.TrySend(vp)
}

// SetRegion simulates a user-driven pan/zoom on the host map and
// notifies viewport subscribers.
func (s *Surface) SetRegion(region core.Region) {
	s.mu.Lock()
	s.viewport.Region = region
	vp := s.viewport
	s.mu.Unlock()

	s.changes.TrySend(vp)
}

// SetPixelRadius simulates a widget resize; resize completion takes
// the same notification path as user pan/zoom.
func (s *Surface) SetPixelRadius(radius float64) {
	s.mu.Lock()
	s.viewport.PixelRadius = radius
	vp := s.viewport
	s.mu.Unlock()

	s.changes.TrySend(vp)
}

// Changes exposes host-driven viewport notifications.
func (s *Surface) Changes() channel.Receiver[core.Viewport] {
	return s.changes
}

// Requests returns all viewport change requests received so far.
func (s *Surface) Requests() []core.ViewportChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ViewportChange, len(s.requests))
	copy(out, s.requests)
	return out
}
