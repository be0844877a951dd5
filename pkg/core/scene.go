// pkg/core/scene.go
package core

// Scene is a panoramic viewing context. Hotspots is the mirrored per-scene
// view of the hotspot store and shares its pointers.
type Scene struct {
	ID       string
	Name     string
	Panorama string

	// Geographic anchor for the tour map, in WGS84 degrees.
	Longitude float64
	Latitude  float64
	HasAnchor bool

	Hotspots []*Hotspot
}
