// Package indicator computes on-ring indicator positions for
// annotations lying outside the circular visible area.
package indicator

import (
	"log/slog"

	"github.com/radarview/overlay/pkg/core"
)

// DefaultRingMargin keeps indicators just outside the visible boundary.
const DefaultRingMargin = 1.5

// Projector converts a geographic coordinate into a point on the
// drawing surface for the currently active viewport.
type Projector interface {
	ProjectToSurface(c core.Coordinate) (core.SurfacePoint, error)
}

// Placer decides which annotations need an on-ring indicator and where
// it sits. Indicator objects are reused by identity across calls so a
// renderer can diff the returned mapping cheaply.
type Placer struct {
	margin float64
	logger *slog.Logger
}

// NewPlacer creates a Placer with the given ring margin in surface
// units. A non-positive margin falls back to DefaultRingMargin.
func NewPlacer(margin float64, logger *slog.Logger) *Placer {
	if margin <= 0 {
		margin = DefaultRingMargin
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Placer{margin: margin, logger: logger}
}

// Place maps every annotation whose projected position lies outside
// the visible circle to an indicator on the ring. The returned mapping
// contains exactly the annotations needing an indicator; identities
// present in previous are reused (position updated in place), all
// others get fresh objects. Annotations inside the circle, exactly on
// its boundary, or at its exact center produce no indicator.
//
// A viewport radius <= 0 is a host contract violation; it degrades to
// "nothing is ever inside" so every projectable annotation gets an
// indicator. Projection failures drop the single affected annotation
// and never interrupt placement of the rest.
func (p *Placer) Place(
	annotations []core.Annotation,
	viewport core.Viewport,
	proj Projector,
	previous map[core.AnnotationID]*core.Indicator,
) map[core.AnnotationID]*core.Indicator {
	radius := viewport.PixelRadius
	center := viewport.SurfaceCenter()
	out := make(map[core.AnnotationID]*core.Indicator, len(annotations))

	for _, a := range annotations {
		point, err := proj.ProjectToSurface(a.Coordinate)
		if err != nil {
			p.logger.Debug("dropping unprojectable annotation",
				"id", string(a.ID), "error", err)
			continue
		}

		v := point.Sub(center)
		dist := v.Length()

		// Inside, including the boundary and the exact center. The
		// center case also guards the normalization below when the
		// radius is degenerate.
		if dist <= radius || dist == 0 {
			continue
		}

		pos := center.Add(v.Scale((radius + p.margin) / dist))

		ind, ok := previous[a.ID]
		if !ok {
			ind = &core.Indicator{For: a.ID}
		}
		ind.X = pos.X
		ind.Y = pos.Y
		ind.IsSelf = a.IsSelf
		out[a.ID] = ind
	}

	return out
}
