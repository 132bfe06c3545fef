package domain

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TransformKind names the variant of a logged transform.
type TransformKind string

const (
	KindRigid3  TransformKind = "rigid3"
	KindPinhole TransformKind = "pinhole"
	KindUnknown TransformKind = "unknown"
)

// Transform is the value logged at an entity, relating its frame to its parent's.
// It is one of Rigid3, Pinhole or Unknown.
type Transform interface {
	Kind() TransformKind
	isTransform()
}

// Rigid3 is a rotation followed by a translation.
type Rigid3 struct {
	Rotation    mgl64.Quat
	Translation mgl64.Vec3

	// ChildFromParent marks a transform that was logged in the child-from-parent
	// direction. ParentFromChild inverts it.
	ChildFromParent bool
}

// NewRigid3 creates a parent-from-child rigid transform.
func NewRigid3(rotation mgl64.Quat, translation mgl64.Vec3) Rigid3 {
	return Rigid3{Rotation: rotation, Translation: translation}
}

// Translation3 creates a pure translation.
func Translation3(x, y, z float64) Rigid3 {
	return Rigid3{Rotation: mgl64.QuatIdent(), Translation: mgl64.Vec3{x, y, z}}
}

func (Rigid3) Kind() TransformKind { return KindRigid3 }
func (Rigid3) isTransform()        {}

// ParentFromChild returns the affine transform mapping child coordinates into the parent frame.
// It never carries a scale.
func (r Rigid3) ParentFromChild() mgl64.Mat4 {
	m := mgl64.Translate3D(r.Translation.X(), r.Translation.Y(), r.Translation.Z()).Mul4(r.rotation().Mat4())
	if r.ChildFromParent {
		return m.Inv()
	}
	return m
}

// rotation treats the zero quaternion as identity.
func (r Rigid3) rotation() mgl64.Quat {
	if r.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return r.Rotation.Normalize()
}

// Pinhole describes a perspective camera looking at an image plane.
type Pinhole struct {
	// FocalLength in pixels along x and y.
	FocalLength mgl64.Vec2
	// PrincipalPoint in pixels.
	PrincipalPoint mgl64.Vec2
	// Resolution of the image in pixels, if known.
	Resolution *mgl64.Vec2
}

// NewPinholeFromImageFromCamera extracts focal length and principal point from a
// 3x3 intrinsics matrix [[fx 0 px] [0 fy py] [0 0 1]].
func NewPinholeFromImageFromCamera(imageFromCamera mgl64.Mat3, resolution *mgl64.Vec2) Pinhole {
	return Pinhole{
		FocalLength:    mgl64.Vec2{imageFromCamera.At(0, 0), imageFromCamera.At(1, 1)},
		PrincipalPoint: mgl64.Vec2{imageFromCamera.At(0, 2), imageFromCamera.At(1, 2)},
		Resolution:     resolution,
	}
}

func (Pinhole) Kind() TransformKind { return KindPinhole }
func (Pinhole) isTransform()        {}

// ImageFromCamera returns the 3x3 intrinsics matrix.
func (p Pinhole) ImageFromCamera() mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{p.FocalLength.X(), 0, p.PrincipalPoint.X()},
		mgl64.Vec3{0, p.FocalLength.Y(), p.PrincipalPoint.Y()},
		mgl64.Vec3{0, 0, 1},
	)
}

// HasResolution reports whether the image resolution is known.
func (p Pinhole) HasResolution() bool {
	return p.Resolution != nil
}

// ParentFromChild places the image plane at the given distance in front of the
// camera. The plane is centered on the principal point and scaled so one pixel
// spans distance/focal length. Depth is scaled by the harmonic mean of the x and
// y scales so structure off the plane keeps its proportions.
//
// The resulting matrix is not meant to be inverted: it is ill-conditioned for
// any plane distance that is small relative to the focal length.
func (p Pinhole) ParentFromChild(distance float64) mgl64.Mat4 {
	scale := mgl64.Vec2{distance / p.FocalLength.X(), distance / p.FocalLength.Y()}
	translation := mgl64.Vec3{
		-p.PrincipalPoint.X() * scale.X(),
		-p.PrincipalPoint.Y() * scale.Y(),
		distance,
	}
	depthScale := 2.0 / (1.0/scale.X() + 1.0/scale.Y())
	return mgl64.Translate3D(translation.X(), translation.Y(), translation.Z()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), depthScale))
}

// Unknown declares that the relationship between an entity and its parent cannot be known.
type Unknown struct{}

func (Unknown) Kind() TransformKind { return KindUnknown }
func (Unknown) isTransform()        {}
