// Package store holds the current annotation set and the distinguished
// self annotation for the overlay.
package store

import (
	"sync"

	"github.com/radarview/overlay/pkg/core"
)

// AnnotationStore maps annotation identities to their current state.
// The self annotation is held separately: it keeps the fixed
// core.SelfAnnotationID identity and only its coordinate changes on a
// location update.
type AnnotationStore struct {
	mu          sync.RWMutex
	annotations map[core.AnnotationID]core.Annotation
	self        *core.Annotation
}

// New creates an empty AnnotationStore.
func New() *AnnotationStore {
	return &AnnotationStore{
		annotations: make(map[core.AnnotationID]core.Annotation),
	}
}

// SetAnnotations replaces the non-self annotation set and reports
// whether the set changed: a different size, or different identity
// membership. Entries flagged IsSelf and entries reusing the self
// identity are ignored; the self marker is managed through SetSelf.
func (s *AnnotationStore) SetAnnotations(list []core.Annotation) bool {
	next := make(map[core.AnnotationID]core.Annotation, len(list))
	for _, a := range list {
		if a.IsSelf || a.ID == core.SelfAnnotationID {
			continue
		}
		next[a.ID] = a
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := len(next) != len(s.annotations)
	if !changed {
		for id := range next {
			if _, ok := s.annotations[id]; !ok {
				changed = true
				break
			}
		}
	}
	s.annotations = next
	return changed
}

// SetSelf replaces the self annotation's coordinate, creating the
// marker if it does not exist yet. Returns true when the marker was
// newly created.
func (s *AnnotationStore) SetSelf(c core.Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := s.self == nil
	a := core.SelfAnnotation(c)
	s.self = &a
	return created
}

// HasSelf reports whether a self annotation currently exists.
func (s *AnnotationStore) HasSelf() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self != nil
}

// Self returns the current self annotation, if any.
func (s *AnnotationStore) Self() (core.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.self == nil {
		return core.Annotation{}, false
	}
	return *s.self, true
}

// Count returns the number of non-self annotations.
func (s *AnnotationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.annotations)
}

// Current returns the full annotation set, self included when present.
func (s *AnnotationStore) Current() []core.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Annotation, 0, len(s.annotations)+1)
	for _, a := range s.annotations {
		out = append(out, a)
	}
	if s.self != nil {
		out = append(out, *s.self)
	}
	return out
}

// Reset clears all annotations including the self marker.
func (s *AnnotationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = make(map[core.AnnotationID]core.Annotation)
	s.self = nil
}
