package pipeline

import "tribodash/domain/tribology"

// ShapeSet is a set of allowed shape labels
type ShapeSet map[string]struct{}

// NewShapeSet builds a set from labels
func NewShapeSet(labels ...string) ShapeSet {
	set := make(ShapeSet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Contains reports membership
func (s ShapeSet) Contains(label string) bool {
	_, ok := s[label]
	return ok
}

// Filter returns the records whose shape is in allowed, in their original
// order. It always returns a new slice and never touches ds.
func Filter(ds tribology.Dataset, allowed ShapeSet) tribology.Dataset {
	out := make(tribology.Dataset, 0, len(ds))
	for _, r := range ds {
		if allowed.Contains(r.Shape) {
			out = append(out, r)
		}
	}
	return out
}
