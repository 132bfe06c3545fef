package runtime

import (
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"github.com/go-gl/mathgl/mgl64"
)

// distanceFunc supplies the pinhole image plane distance for an entity.
type distanceFunc func(domain.EntityPath) float64

// resolveTransform looks up the transform logged at path and turns it into a
// parent-from-child affine transform.
//
// It returns false when nothing is logged; the caller then keeps its current frame.
// encounteredPinhole is set when a pinhole is crossed and must be owned by the
// branch being walked.
func resolveTransform(
	path domain.EntityPath,
	transforms ports.TransformSource,
	query domain.LatestAtQuery,
	distance distanceFunc,
	encounteredPinhole *bool,
) (mgl64.Mat4, bool, error) {
	transform, ok := transforms.LatestAt(path, query)
	if !ok || transform == nil {
		return mgl64.Ident4(), false, nil
	}

	switch t := transform.(type) {
	case domain.Rigid3:
		return t.ParentFromChild(), true, nil
	case domain.Unknown:
		return mgl64.Ident4(), false, domain.UnknownTransform
	case domain.Pinhole:
		if *encounteredPinhole {
			return mgl64.Ident4(), false, domain.NestedPinholeCameras
		}
		*encounteredPinhole = true
		return t.ParentFromChild(distance(path)), true, nil
	default:
		// Only reachable with a Transform implementation from outside pkg/domain.
		return mgl64.Ident4(), false, domain.UnknownTransform
	}
}
