// pkg/core/hotspot.go
package core

import "strings"

// HotspotType is the kind of marker; it drives rendering and default sizing.
type HotspotType string

const (
	TypeHotspot        HotspotType = "hotspot" // navigation between scenes
	TypeInfoPoint      HotspotType = "info-point"
	TypeVideoArea      HotspotType = "video-area"
	TypeIframe3D       HotspotType = "iframe-3d"
	TypeAnimatedObject HotspotType = "animated-object"
	TypeLocation       HotspotType = "location"
	TypeAudio          HotspotType = "audio"
	TypeGallery        HotspotType = "gallery"
)

var knownTypes = map[HotspotType]struct{}{
	TypeHotspot:        {},
	TypeInfoPoint:      {},
	TypeVideoArea:      {},
	TypeIframe3D:       {},
	TypeAnimatedObject: {},
	TypeLocation:       {},
	TypeAudio:          {},
	TypeGallery:        {},
}

// IsKnown reports whether t belongs to the closed set of marker kinds.
func (t HotspotType) IsKnown() bool {
	_, ok := knownTypes[t]
	return ok
}

// Defaults applied when a field is omitted on creation or in the persisted
// record.
const (
	DefaultWidth    = 2.0
	DefaultHeight   = 1.5
	DefaultRotation = "0 0 0"
	DefaultType     = TypeVideoArea
)

// ApplyDefaults fills the omitted size, rotation and type fields.
func (h *Hotspot) ApplyDefaults() {
	if h.Width == 0 {
		h.Width = DefaultWidth
	}
	if h.Height == 0 {
		h.Height = DefaultHeight
	}
	if h.Rotation == "" {
		h.Rotation = DefaultRotation
	}
	if h.Type == "" {
		h.Type = DefaultType
	}
}

// MarkerIDPrefix prefixes a hotspot id to form its visual marker id.
const MarkerIDPrefix = "marker-"

// MarkerID returns the visual marker id for a hotspot id.
func MarkerID(hotspotID string) string {
	return MarkerIDPrefix + hotspotID
}

// HotspotIDFromMarker strips the marker prefix from a marker id.
func HotspotIDFromMarker(markerID string) string {
	return strings.Replace(markerID, MarkerIDPrefix, "", 1)
}

// RestoreMarker flags a hotspot whose large payload was dropped on save and
// must be supplied again. An empty FileName means no hint was stored.
type RestoreMarker struct {
	FileName string
}

// Hotspot is an interactive marker anchored to a position inside a scene.
type Hotspot struct {
	ID            string      `json:"id"`
	SceneID       string      `json:"sceneId"`
	Type          HotspotType `json:"type"`
	Position      Position3D  `json:"position"`
	Width         float64     `json:"width,omitempty"`
	Height        float64     `json:"height,omitempty"`
	Rotation      string      `json:"rotation,omitempty"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	TargetSceneID string      `json:"targetSceneId,omitempty"`
	Size          float64     `json:"size,omitempty"`
	Color         string      `json:"color,omitempty"`

	// Large payloads, never persisted.
	VideoURL  string `json:"videoUrl,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Poster    string `json:"poster,omitempty"`
	Content   string `json:"content,omitempty"`

	Restore *RestoreMarker `json:"-"`
}

// NeedsRestore reports whether the large payload must be resupplied.
func (h *Hotspot) NeedsRestore() bool {
	return h.Restore != nil && h.VideoURL == ""
}

// HotspotData is the input of a hotspot creation. Position accepts any shape
// understood by the position normalizer.
type HotspotData struct {
	Type          HotspotType
	Position      any
	Width         float64
	Height        float64
	Rotation      string
	Title         string
	Description   string
	TargetSceneID string
	Size          float64
	Color         string
	VideoURL      string
	Thumbnail     string
	Poster        string
	Content       string
}

// HotspotPatch is a partial update; nil fields are left untouched.
type HotspotPatch struct {
	Type          *HotspotType
	Position      any
	Width         *float64
	Height        *float64
	Rotation      *string
	Title         *string
	Description   *string
	TargetSceneID *string
	Size          *float64
	Color         *string
	VideoURL      *string
	Thumbnail     *string
	Poster        *string
	Content       *string
}
