package runtime

import (
	"errors"
	"log/slog"

	"github.com/aretw0/vantage/internal/logging"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is the read-only world state a cache is built from.
type Snapshot struct {
	Tree       ports.EntityTree
	Transforms ports.TransformSource
	// Properties may be nil, in which case every entity uses the defaults.
	Properties ports.EntityProperties
}

// Builder computes transform caches. It keeps no state between builds.
type Builder struct {
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for structural errors and diagnostics.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// walk carries what stays constant during a build.
type walk struct {
	snapshot Snapshot
	query    domain.LatestAtQuery
	distance distanceFunc
	cache    *TransformCache
}

// Build resolves every entity reachable from reference into reference's frame.
//
// It never fails. An unknown reference yields an empty cache; unresolvable
// subtrees are recorded on the cache and skipped.
func (b *Builder) Build(snapshot Snapshot, query domain.LatestAtQuery, reference domain.EntityPath) *TransformCache {
	if reference == "" {
		reference = domain.RootPath
	}
	cache := newTransformCache(reference)

	current, ok := snapshot.Tree.Subtree(reference)
	if !ok {
		// Normal while a view outlives the data it was configured for.
		b.logger.Debug("reference entity not in tree", "reference", reference)
		return cache
	}

	w := &walk{
		snapshot: snapshot,
		query:    query,
		distance: propertyDistance(snapshot.Properties),
		cache:    cache,
	}
	w.gather(current, mgl64.Ident4(), false)

	// Walk up, inverting the transform that links each node to its parent.
	encounteredPinhole := false
	referenceFromAncestor := mgl64.Ident4()
	for {
		parentPath, ok := current.Path().Parent()
		if !ok {
			break
		}
		parent, ok := snapshot.Tree.Subtree(parentPath)
		if !ok {
			logging.ErrorOnce(b.logger, "entity tree is missing the parent of an existing entity",
				"parent", parentPath, "reference", reference)
			return cache
		}

		local, logged, err := resolveTransform(current.Path(), snapshot.Transforms, query,
			ascentDistance, &encounteredPinhole)
		if err != nil {
			cache.firstUnreachableParent = &Unreachable{Path: parentPath, Reason: asReason(err)}
			break
		}
		if logged {
			referenceFromAncestor = referenceFromAncestor.Mul4(local.Inv())
		}

		w.gather(parent, referenceFromAncestor, encounteredPinhole)
		current = parent
	}

	return cache
}

// gather records node at referenceFromEntity and descends into its children.
// encounteredPinhole is copied per child so sibling branches never see each other's pinholes.
func (w *walk) gather(node ports.EntityNode, referenceFromEntity mgl64.Mat4, encounteredPinhole bool) {
	if _, seen := w.cache.referenceFromEntity[node.Path()]; seen {
		return
	}
	w.cache.referenceFromEntity[node.Path()] = referenceFromEntity

	for _, child := range node.Children() {
		// The branch the upward walk came from is already placed.
		if _, seen := w.cache.referenceFromEntity[child.Path()]; seen {
			continue
		}

		childPinhole := encounteredPinhole
		local, logged, err := resolveTransform(child.Path(), w.snapshot.Transforms, w.query,
			w.distance, &childPinhole)
		if err != nil {
			w.cache.unreachableDescendants = append(w.cache.unreachableDescendants,
				Unreachable{Path: child.Path(), Reason: asReason(err)})
			continue
		}

		referenceFromChild := referenceFromEntity
		if logged {
			referenceFromChild = referenceFromEntity.Mul4(local)
		}
		w.gather(child, referenceFromChild, childPinhole)
	}
}

func propertyDistance(props ports.EntityProperties) distanceFunc {
	if props == nil {
		return func(domain.EntityPath) float64 { return domain.DefaultPinholeImagePlaneDistance }
	}
	return props.PinholeImagePlaneDistance
}

// ascentDistance is used above the reference, where no entity configures the image plane.
func ascentDistance(domain.EntityPath) float64 {
	return domain.AscentPinholeImagePlaneDistance
}

func asReason(err error) domain.UnreachableReason {
	var reason domain.UnreachableReason
	if errors.As(err, &reason) {
		return reason
	}
	return domain.UnknownSpaceInfo
}
