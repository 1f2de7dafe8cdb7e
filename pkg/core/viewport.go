// pkg/core/viewport.go
package core

// Viewport is the currently visible geographic region plus the radius,
// in surface units, of the circular visible area. The radar surface is
// a circle inscribed in a square of side 2*PixelRadius.
type Viewport struct {
	Region      Region
	PixelRadius float64
}

// SurfaceCenter returns the center of the circular visible area on the
// drawing surface.
func (v Viewport) SurfaceCenter() SurfacePoint {
	return SurfacePoint{X: v.PixelRadius, Y: v.PixelRadius}
}

// Degenerate reports whether the viewport has no usable visible area.
// A host returning a non-positive radius violates the surface contract;
// placement treats this as "nothing is ever inside" rather than failing.
func (v Viewport) Degenerate() bool {
	return v.PixelRadius <= 0
}

// ViewportChange is a request to reframe the viewport. It is produced
// by the tracking controller and applied by the caller through the host
// map surface; the core never mutates the viewport directly.
type ViewportChange struct {
	Region   Region
	Animated bool

	// Fit asks the host to clamp the region to its nearest supported
	// span. The host may shrink the span but must not expand it.
	Fit bool
}
