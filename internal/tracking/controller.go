// Package tracking implements the view-state machine deciding initial
// framing and auto-recentering of the radar viewport.
package tracking

import (
	"log/slog"

	"github.com/radarview/overlay/internal/geo"
	"github.com/radarview/overlay/internal/indicator"
	"github.com/radarview/overlay/pkg/core"
)

const (
	// DefaultBorderBand is the outer fraction of the radius that
	// counts as "near the border" for TrackCenterOnSelfNearBorder.
	DefaultBorderBand = 0.4

	// DefaultMinBorderRadius is the viewport radius below which the
	// border-proximity check is skipped, to avoid excessive
	// re-centering on extremely small viewports.
	DefaultMinBorderRadius = 30.0
)

// Controller applies start-mode and tracking-mode policy. It never
// mutates viewport state; it returns a request the caller applies
// through the host map surface.
type Controller struct {
	borderBand      float64
	minBorderRadius float64
	logger          *slog.Logger
}

// NewController creates a Controller. Non-positive parameters fall
// back to the defaults.
func NewController(borderBand, minBorderRadius float64, logger *slog.Logger) *Controller {
	if borderBand <= 0 || borderBand >= 1 {
		borderBand = DefaultBorderBand
	}
	if minBorderRadius <= 0 {
		minBorderRadius = DefaultMinBorderRadius
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		borderBand:      borderBand,
		minBorderRadius: minBorderRadius,
		logger:          logger,
	}
}

// DecideFraming returns the viewport change the current state calls
// for, or nil when no reframing is needed. On the first framing the
// start mode applies and a successful (non-nil) decision flips
// state.HasFramedOnce permanently; afterwards the tracking mode
// applies.
func (c *Controller) DecideFraming(
	state *core.TrackingState,
	viewport core.Viewport,
	self core.Coordinate,
	annotations []core.Annotation,
	proj indicator.Projector,
) *core.ViewportChange {
	if !state.HasFramedOnce {
		change := c.initialFraming(state, self, annotations)
		if change != nil {
			state.HasFramedOnce = true
		}
		return change
	}
	return c.trackingFraming(state, viewport, self, proj)
}

func (c *Controller) initialFraming(
	state *core.TrackingState,
	self core.Coordinate,
	annotations []core.Annotation,
) *core.ViewportChange {
	switch state.StartMode.Kind {
	case core.StartFitAllAnnotations:
		coords := make([]core.Coordinate, 0, len(annotations))
		for _, a := range annotations {
			coords = append(coords, a.Coordinate)
		}
		region, ok := geo.FitRegion(coords, geo.DefaultFitPadding)
		if !ok {
			// Zero annotations: nothing to fit, the first framing
			// stays pending.
			return nil
		}
		return &core.ViewportChange{Region: region, Animated: false}

	default: // StartCenterOnSelf
		return &core.ViewportChange{
			Region: core.Region{
				Center: self,
				Span:   state.StartMode.Span,
			},
			Animated: false,
			Fit:      true,
		}
	}
}

func (c *Controller) trackingFraming(
	state *core.TrackingState,
	viewport core.Viewport,
	self core.Coordinate,
	proj indicator.Projector,
) *core.ViewportChange {
	mode := state.TrackingMode

	switch mode.Kind {
	case core.TrackAlwaysCenterOnSelf:
		return c.recenter(viewport, self, mode.Span)

	case core.TrackCenterOnSelfNearBorder:
		radius := viewport.PixelRadius
		if radius < c.minBorderRadius {
			return nil
		}
		point, err := proj.ProjectToSurface(self)
		if err != nil {
			c.logger.Debug("self location unprojectable, skipping border check", "error", err)
			return nil
		}
		dist := point.Sub(viewport.SurfaceCenter()).Length()
		if dist <= radius*(1-c.borderBand) {
			return nil
		}
		return c.recenter(viewport, self, mode.Span)

	default: // TrackNone
		return nil
	}
}

// recenter builds an animated re-center request, preserving the
// current span unless the tracking mode carries its own.
func (c *Controller) recenter(viewport core.Viewport, self core.Coordinate, span core.Span) *core.ViewportChange {
	if span.IsZero() {
		span = viewport.Region.Span
	}
	return &core.ViewportChange{
		Region:   core.Region{Center: self, Span: span},
		Animated: true,
		Fit:      true,
	}
}
