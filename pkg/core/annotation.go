// pkg/core/annotation.go
package core

// AnnotationID is the opaque, comparable identity of an annotation.
// Two annotations with the same ID are the same logical entity even
// when their coordinates differ between reload cycles.
type AnnotationID string

// SelfAnnotationID is the fixed identity of the user's own marker.
// The self marker keeps a stable identity across location updates;
// only its coordinate changes.
const SelfAnnotationID AnnotationID = "self"

// Annotation is a point of interest shown on the radar surface.
type Annotation struct {
	ID         AnnotationID `json:"id"`
	Coordinate Coordinate   `json:"coordinate"`
	IsSelf     bool         `json:"isSelf"`
}

// SelfAnnotation builds the user marker for the given location.
func SelfAnnotation(c Coordinate) Annotation {
	return Annotation{ID: SelfAnnotationID, Coordinate: c, IsSelf: true}
}

// Indicator is an on-ring marker for an annotation that lies outside
// the visible circle. Indicator values are shared across reload
// cycles for a given identity so a renderer can diff cheaply; the
// placer updates X/Y in place on reuse.
type Indicator struct {
	For    AnnotationID `json:"for"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	IsSelf bool         `json:"isSelf"`
}

// Position returns the indicator's on-ring surface position.
func (i *Indicator) Position() SurfacePoint {
	return SurfacePoint{X: i.X, Y: i.Y}
}
