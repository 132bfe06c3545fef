package domain

// DefaultPinholeImagePlaneDistance is used for entities without configured properties.
const DefaultPinholeImagePlaneDistance = 1.0

// AscentPinholeImagePlaneDistance is used when a pinhole is crossed while walking up
// from the reference. That walk has no view configuration of its own.
const AscentPinholeImagePlaneDistance = 500.0

// EntityProperties holds per-entity view configuration.
type EntityProperties struct {
	// PinholeImagePlaneDistance places the image plane of a pinhole logged at this entity.
	// Nil selects DefaultPinholeImagePlaneDistance.
	PinholeImagePlaneDistance *float64 `json:"pinhole_image_plane_distance,omitempty" yaml:"pinhole_image_plane_distance,omitempty" mapstructure:"pinhole_image_plane_distance"`
}

// ImagePlaneDistance resolves the configured or default distance.
func (p EntityProperties) ImagePlaneDistance() float64 {
	if p.PinholeImagePlaneDistance == nil || *p.PinholeImagePlaneDistance <= 0 {
		return DefaultPinholeImagePlaneDistance
	}
	return *p.PinholeImagePlaneDistance
}

// EntityPropertyMap stores properties per entity. A nil map yields defaults.
type EntityPropertyMap map[EntityPath]EntityProperties

// Get returns the properties of path, or the zero value.
func (m EntityPropertyMap) Get(path EntityPath) EntityProperties {
	return m[path]
}

// Set stores the properties of path.
func (m EntityPropertyMap) Set(path EntityPath, props EntityProperties) {
	m[path] = props
}

// PinholeImagePlaneDistance implements ports.EntityProperties.
func (m EntityPropertyMap) PinholeImagePlaneDistance(path EntityPath) float64 {
	return m.Get(path).ImagePlaneDistance()
}
