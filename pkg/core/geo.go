// pkg/core/geo.go
package core

import "math"

// Coordinate is a geographic position in EPSG:4326 (WGS84) degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and within the
// projectable WGS84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	if math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Span is the angular extent of a viewport in degrees.
type Span struct {
	LatDelta float64 `json:"latDelta"`
	LonDelta float64 `json:"lonDelta"`
}

// IsZero reports whether the span carries no extent.
func (s Span) IsZero() bool {
	return s.LatDelta == 0 && s.LonDelta == 0
}

// Region is a geographic rectangle described by its center and span.
type Region struct {
	Center Coordinate `json:"center"`
	Span   Span       `json:"span"`
}

// SurfacePoint is a 2D point on the normalized drawing surface, in
// surface units. The surface origin is the top-left corner of the
// square bounding the circular visible area.
type SurfacePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the vector from o to p.
func (p SurfacePoint) Sub(o SurfacePoint) SurfacePoint {
	return SurfacePoint{X: p.X - o.X, Y: p.Y - o.Y}
}

// Add returns the componentwise sum of p and o.
func (p SurfacePoint) Add(o SurfacePoint) SurfacePoint {
	return SurfacePoint{X: p.X + o.X, Y: p.Y + o.Y}
}

// Scale returns p scaled by f.
func (p SurfacePoint) Scale(f float64) SurfacePoint {
	return SurfacePoint{X: p.X * f, Y: p.Y * f}
}

// Length returns the euclidean length of p treated as a vector.
func (p SurfacePoint) Length() float64 {
	return math.Hypot(p.X, p.Y)
}
