package dto

import (
	"github.com/aretw0/vantage/internal/runtime"
	"github.com/aretw0/vantage/pkg/domain"
)

// CacheReport is the serializable view of a transform cache.
type CacheReport struct {
	Reference              string            `json:"reference"`
	Query                  string            `json:"query"`
	Entities               []EntityTransform `json:"entities"`
	UnreachableDescendants []UnreachableEntry `json:"unreachable_descendants"`
	FirstUnreachableParent *UnreachableEntry `json:"first_unreachable_parent,omitempty"`
}

// EntityTransform is a reachable entity and its reference-from-entity transform.
type EntityTransform struct {
	Path string `json:"path"`
	// Matrix is column-major.
	Matrix      [16]float64 `json:"matrix"`
	Translation [3]float64  `json:"translation"`
}

// UnreachableEntry is an entity that could not be placed in the reference frame.
type UnreachableEntry struct {
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// NewCacheReport flattens a cache. Entities are listed in lexical order.
func NewCacheReport(cache *runtime.TransformCache, query domain.LatestAtQuery) CacheReport {
	report := CacheReport{
		Reference:              cache.ReferencePath().String(),
		Query:                  query.String(),
		Entities:               make([]EntityTransform, 0, cache.Len()),
		UnreachableDescendants: []UnreachableEntry{},
	}

	for _, path := range cache.Entities() {
		m, _ := cache.ReferenceFromEntity(path)
		t := m.Col(3)
		report.Entities = append(report.Entities, EntityTransform{
			Path:        path.String(),
			Matrix:      m,
			Translation: [3]float64{t.X(), t.Y(), t.Z()},
		})
	}

	for _, u := range cache.UnreachableDescendants() {
		report.UnreachableDescendants = append(report.UnreachableDescendants, newUnreachableEntry(u))
	}
	if u, ok := cache.FirstUnreachableParent(); ok {
		entry := newUnreachableEntry(u)
		report.FirstUnreachableParent = &entry
	}
	return report
}

func newUnreachableEntry(u runtime.Unreachable) UnreachableEntry {
	return UnreachableEntry{
		Path:    u.Path.String(),
		Reason:  u.Reason.Tag(),
		Message: u.Reason.Message(),
	}
}
