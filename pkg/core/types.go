// pkg/core/types.go
package core

// Position3D is the canonical coordinate record of a hotspot inside a
// panorama. Values are scene units; -Z points forward from the camera.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// XYZ implements the Vector3 shape accepted by the position normalizer.
func (p Position3D) XYZ() (x, y, z float64) {
	return p.X, p.Y, p.Z
}

// IsZero reports whether all three axes are zero.
func (p Position3D) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// Settings holds the global marker defaults applied to hotspots that have no
// individual size or color.
type Settings struct {
	HotspotSize    float64 `json:"hotspotSize" mapstructure:"hotspotSize"`
	InfopointSize  float64 `json:"infopointSize" mapstructure:"infopointSize"`
	HotspotColor   string  `json:"hotspotColor" mapstructure:"hotspotColor"`
	InfopointColor string  `json:"infopointColor" mapstructure:"infopointColor"`
}

// SizeFor returns the default size for the given hotspot type.
func (s Settings) SizeFor(t HotspotType) float64 {
	if t == TypeHotspot {
		return s.HotspotSize
	}
	return s.InfopointSize
}

// ColorFor returns the default color for the given hotspot type.
func (s Settings) ColorFor(t HotspotType) string {
	if t == TypeHotspot {
		return s.HotspotColor
	}
	return s.InfopointColor
}
