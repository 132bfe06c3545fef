package domain

import "fmt"

// UnreachableReason explains why an entity cannot be expressed in the reference frame.
//
// It implements error so resolver failures can be inspected with errors.As, but it is
// attached to paths as a value and never aborts a cache build.
type UnreachableReason int

const (
	// UnknownSpaceInfo means internal bookkeeping is out of date.
	// At most it should last for a single frame.
	UnknownSpaceInfo UnreachableReason = iota + 1

	// NestedPinholeCameras means more than one pinhole lies between the entity and the reference.
	NestedPinholeCameras

	// InversePinholeCameraWithoutResolution means leaving a pinhole space that has no resolution.
	InversePinholeCameraWithoutResolution

	// UnknownTransform means the entity is connected through an unknown transform.
	UnknownTransform
)

var reasonTags = map[UnreachableReason]string{
	UnknownSpaceInfo:                      "unknown_space_info",
	NestedPinholeCameras:                  "nested_pinhole_cameras",
	InversePinholeCameraWithoutResolution: "inverse_pinhole_camera_without_resolution",
	UnknownTransform:                      "unknown_transform",
}

// Message returns the user facing explanation.
func (r UnreachableReason) Message() string {
	switch r {
	case UnknownSpaceInfo:
		return "Can't determine transform because internal data structures are not in a valid state. Please file an issue."
	case NestedPinholeCameras:
		return "Can't display entities under nested pinhole cameras."
	case InversePinholeCameraWithoutResolution:
		return "Can't display entities that would require inverting a pinhole camera without a specified resolution."
	case UnknownTransform:
		return "Can't display entities that are connected via an unknown transform to this space."
	default:
		return fmt.Sprintf("unreachable (reason %d)", int(r))
	}
}

// Tag returns a stable machine readable identifier.
func (r UnreachableReason) Tag() string {
	if tag, ok := reasonTags[r]; ok {
		return tag
	}
	return "invalid"
}

func (r UnreachableReason) String() string { return r.Message() }

func (r UnreachableReason) Error() string { return r.Message() }

// MarshalText encodes the reason as its tag.
func (r UnreachableReason) MarshalText() ([]byte, error) {
	if _, ok := reasonTags[r]; !ok {
		return nil, fmt.Errorf("invalid unreachable reason %d", int(r))
	}
	return []byte(r.Tag()), nil
}

// UnmarshalText decodes a tag produced by MarshalText.
func (r *UnreachableReason) UnmarshalText(text []byte) error {
	for reason, tag := range reasonTags {
		if tag == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown unreachable reason %q", string(text))
}
