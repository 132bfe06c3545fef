package dto

import (
	"fmt"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mitchellh/mapstructure"
)

// TransformRecord is the serialized form of a domain.Transform.
// It uses "mapstructure" tags so loosely typed YAML maps decode into it.
type TransformRecord struct {
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Rigid3
	Translation     []float64 `json:"translation,omitempty" yaml:"translation,omitempty" mapstructure:"translation"`
	Rotation        []float64 `json:"rotation,omitempty" yaml:"rotation,omitempty" mapstructure:"rotation"` // quaternion x, y, z, w
	ChildFromParent bool      `json:"child_from_parent,omitempty" yaml:"child_from_parent,omitempty" mapstructure:"child_from_parent"`

	// Pinhole. Either FocalLength (one or two values) or ImageFromCamera (3 rows).
	FocalLength     []float64   `json:"focal_length,omitempty" yaml:"focal_length,omitempty" mapstructure:"focal_length"`
	PrincipalPoint  []float64   `json:"principal_point,omitempty" yaml:"principal_point,omitempty" mapstructure:"principal_point"`
	ImageFromCamera [][]float64 `json:"image_from_camera,omitempty" yaml:"image_from_camera,omitempty" mapstructure:"image_from_camera"`
	Resolution      []float64   `json:"resolution,omitempty" yaml:"resolution,omitempty" mapstructure:"resolution"`
}

// DecodeTransformRecord decodes a loosely typed map (YAML, JSON tool arguments).
func DecodeTransformRecord(raw any) (TransformRecord, error) {
	var rec TransformRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return rec, err
	}
	if err := decoder.Decode(raw); err != nil {
		return rec, fmt.Errorf("%w: %v", domain.ErrInvalidTransform, err)
	}
	return rec, nil
}

// ToDomain converts the record into a transform.
func (r TransformRecord) ToDomain() (domain.Transform, error) {
	switch domain.TransformKind(r.Kind) {
	case domain.KindRigid3:
		return r.rigid3()
	case domain.KindPinhole:
		return r.pinhole()
	case domain.KindUnknown:
		return domain.Unknown{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransformKind, r.Kind)
	}
}

func (r TransformRecord) rigid3() (domain.Transform, error) {
	out := domain.Rigid3{Rotation: mgl64.QuatIdent(), ChildFromParent: r.ChildFromParent}
	switch len(r.Translation) {
	case 0:
	case 3:
		out.Translation = mgl64.Vec3{r.Translation[0], r.Translation[1], r.Translation[2]}
	default:
		return nil, fmt.Errorf("%w: translation needs 3 values, got %d", domain.ErrInvalidTransform, len(r.Translation))
	}
	switch len(r.Rotation) {
	case 0:
	case 4:
		q := mgl64.Quat{W: r.Rotation[3], V: mgl64.Vec3{r.Rotation[0], r.Rotation[1], r.Rotation[2]}}
		if q.Len() == 0 {
			return nil, fmt.Errorf("%w: zero rotation quaternion", domain.ErrInvalidTransform)
		}
		out.Rotation = q.Normalize()
	default:
		return nil, fmt.Errorf("%w: rotation needs 4 values (x, y, z, w), got %d", domain.ErrInvalidTransform, len(r.Rotation))
	}
	return out, nil
}

func (r TransformRecord) pinhole() (domain.Transform, error) {
	var resolution *mgl64.Vec2
	switch len(r.Resolution) {
	case 0:
	case 2:
		resolution = &mgl64.Vec2{r.Resolution[0], r.Resolution[1]}
	default:
		return nil, fmt.Errorf("%w: resolution needs 2 values, got %d", domain.ErrInvalidTransform, len(r.Resolution))
	}

	if len(r.ImageFromCamera) > 0 {
		if len(r.ImageFromCamera) != 3 {
			return nil, fmt.Errorf("%w: image_from_camera needs 3 rows", domain.ErrInvalidTransform)
		}
		var rows [3]mgl64.Vec3
		for i, row := range r.ImageFromCamera {
			if len(row) != 3 {
				return nil, fmt.Errorf("%w: image_from_camera row %d needs 3 values", domain.ErrInvalidTransform, i)
			}
			rows[i] = mgl64.Vec3{row[0], row[1], row[2]}
		}
		p := domain.NewPinholeFromImageFromCamera(mgl64.Mat3FromRows(rows[0], rows[1], rows[2]), resolution)
		return p, validatePinhole(p)
	}

	p := domain.Pinhole{Resolution: resolution}
	switch len(r.FocalLength) {
	case 1:
		p.FocalLength = mgl64.Vec2{r.FocalLength[0], r.FocalLength[0]}
	case 2:
		p.FocalLength = mgl64.Vec2{r.FocalLength[0], r.FocalLength[1]}
	default:
		return nil, fmt.Errorf("%w: focal_length needs 1 or 2 values, got %d", domain.ErrInvalidTransform, len(r.FocalLength))
	}
	switch len(r.PrincipalPoint) {
	case 0:
		// Default to the image center when the resolution is known.
		if resolution != nil {
			p.PrincipalPoint = resolution.Mul(0.5)
		}
	case 2:
		p.PrincipalPoint = mgl64.Vec2{r.PrincipalPoint[0], r.PrincipalPoint[1]}
	default:
		return nil, fmt.Errorf("%w: principal_point needs 2 values, got %d", domain.ErrInvalidTransform, len(r.PrincipalPoint))
	}
	return p, validatePinhole(p)
}

func validatePinhole(p domain.Pinhole) error {
	if p.FocalLength.X() == 0 || p.FocalLength.Y() == 0 {
		return fmt.Errorf("%w: pinhole focal length must be non-zero", domain.ErrInvalidTransform)
	}
	return nil
}

// FromDomain converts a transform into its record.
func FromDomain(t domain.Transform) TransformRecord {
	switch v := t.(type) {
	case domain.Rigid3:
		rot := v.Rotation
		if rot == (mgl64.Quat{}) {
			rot = mgl64.QuatIdent()
		}
		return TransformRecord{
			Kind:            string(domain.KindRigid3),
			Translation:     []float64{v.Translation.X(), v.Translation.Y(), v.Translation.Z()},
			Rotation:        []float64{rot.X(), rot.Y(), rot.Z(), rot.W},
			ChildFromParent: v.ChildFromParent,
		}
	case domain.Pinhole:
		rec := TransformRecord{
			Kind:           string(domain.KindPinhole),
			FocalLength:    []float64{v.FocalLength.X(), v.FocalLength.Y()},
			PrincipalPoint: []float64{v.PrincipalPoint.X(), v.PrincipalPoint.Y()},
		}
		if v.Resolution != nil {
			rec.Resolution = []float64{v.Resolution.X(), v.Resolution.Y()}
		}
		return rec
	default:
		return TransformRecord{Kind: string(domain.KindUnknown)}
	}
}

// LogRecord is one timeline entry as stored by persistent recorders.
type LogRecord struct {
	At        int64           `json:"at"`
	Transform TransformRecord `json:"transform"`
}
