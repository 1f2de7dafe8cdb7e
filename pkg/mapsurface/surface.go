// Package mapsurface defines the contract between the overlay core and
// the host map component. The host owns pan/zoom, tile rendering and
// coordinate-to-pixel conversion; the core only consumes projections
// and requests viewport changes through this interface.
package mapsurface

import "github.com/radarview/overlay/pkg/core"

// Surface is the minimal host map contract.
//
// ProjectToSurface must be deterministic for a fixed viewport and must
// only be called with the viewport the geometry calculations assume is
// currently active. Hosts notify the core of user-driven pan/zoom by
// calling the coordinator's ViewportChanged entry point; resize
// completion must take the same path.
type Surface interface {
	// ProjectToSurface converts a geographic coordinate into a point on
	// the normalized drawing surface. Coordinates outside the
	// projectable range return an error; callers drop such annotations
	// from the current cycle instead of propagating the failure.
	ProjectToSurface(c core.Coordinate) (core.SurfacePoint, error)

	// CurrentViewport returns the viewport currently shown by the host.
	CurrentViewport() core.Viewport

	// RequestViewportChange asks the host to reframe. Fire-and-forget:
	// the core does not track animation completion.
	RequestViewportChange(change core.ViewportChange)
}
