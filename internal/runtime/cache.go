package runtime

import (
	"sort"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
)

// Unreachable pairs an entity with the reason it cannot be placed in the reference frame.
type Unreachable struct {
	Path   domain.EntityPath        `json:"path"`
	Reason domain.UnreachableReason `json:"reason"`
}

// TransformCache holds, for a single reference entity and query, the
// reference-from-entity transform of every reachable entity.
// It is immutable once returned by a Builder and safe for concurrent reads.
type TransformCache struct {
	referencePath          domain.EntityPath
	referenceFromEntity    map[domain.EntityPath]mgl64.Mat4
	unreachableDescendants []Unreachable
	firstUnreachableParent *Unreachable
}

func newTransformCache(reference domain.EntityPath) *TransformCache {
	return &TransformCache{
		referencePath:       reference,
		referenceFromEntity: make(map[domain.EntityPath]mgl64.Mat4),
	}
}

// ReferencePath is the entity all transforms are relative to.
func (c *TransformCache) ReferencePath() domain.EntityPath {
	return c.referencePath
}

// ReferenceFromEntity returns the transform from the entity's local frame into the
// reference frame. False means the entity is not shown in this view.
func (c *TransformCache) ReferenceFromEntity(path domain.EntityPath) (mgl64.Mat4, bool) {
	m, ok := c.referenceFromEntity[path]
	return m, ok
}

// UnreachableDescendants lists the roots of abandoned subtrees below the reference,
// in discovery order.
func (c *TransformCache) UnreachableDescendants() []Unreachable {
	out := make([]Unreachable, len(c.unreachableDescendants))
	copy(out, c.unreachableDescendants)
	return out
}

// FirstUnreachableParent is the closest ancestor of the reference that could not be reached.
func (c *TransformCache) FirstUnreachableParent() (Unreachable, bool) {
	if c.firstUnreachableParent == nil {
		return Unreachable{}, false
	}
	return *c.firstUnreachableParent, true
}

// Len is the number of reachable entities.
func (c *TransformCache) Len() int {
	return len(c.referenceFromEntity)
}

// Entities returns the reachable entities in lexical order.
func (c *TransformCache) Entities() []domain.EntityPath {
	paths := make([]domain.EntityPath, 0, len(c.referenceFromEntity))
	for p := range c.referenceFromEntity {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// UnreachableReason explains why path is missing from the cache.
//
// A path inside an abandoned subtree reports the reason recorded for the closest
// abandoned ancestor (or itself). Any other missing path was cut off by the upward
// walk and reports the first unreachable parent's reason. False means the path is
// reachable, or nothing explains its absence.
func (c *TransformCache) UnreachableReason(path domain.EntityPath) (domain.UnreachableReason, bool) {
	if _, ok := c.referenceFromEntity[path]; ok {
		return 0, false
	}

	var (
		best    domain.UnreachableReason
		bestLen = -1
	)
	for _, u := range c.unreachableDescendants {
		if (path == u.Path || path.IsDescendantOf(u.Path)) && u.Path.Len() > bestLen {
			best, bestLen = u.Reason, u.Path.Len()
		}
	}
	if bestLen >= 0 {
		return best, true
	}

	if c.firstUnreachableParent != nil {
		return c.firstUnreachableParent.Reason, true
	}
	return 0, false
}
