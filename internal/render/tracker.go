// Package render keeps track of the visual markers shown for hotspots.
package render

import (
	"log/slog"

	"github.com/colortour/hotspot-editor/internal/cache"
	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// Tracker records which markers are on screen. It stands in for the viewer
// when the editor runs headless.
type Tracker struct {
	markers *cache.MarkerCache
	log     *slog.Logger
	updates int
}

// NewTracker creates a Tracker.
func NewTracker(log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		markers: cache.NewMarkerCache(),
		log:     log,
	}
}

// CreateVisualMarker registers the marker of h.
func (t *Tracker) CreateVisualMarker(h *core.Hotspot) {
	markerID := core.MarkerID(h.ID)
	t.markers.Set(markerID, h.ID)
	t.log.Debug("marker created",
		"marker", markerID,
		"type", h.Type,
		"position", geo.FormatPosition(h.Position))
}

// UpdateVisualMarker refreshes the marker of h, creating it if missing.
func (t *Tracker) UpdateVisualMarker(h *core.Hotspot) {
	markerID := core.MarkerID(h.ID)
	t.markers.Set(markerID, h.ID)
	t.updates++
	t.log.Debug("marker updated", "marker", markerID, "color", h.Color, "size", h.Size)
}

// RemoveVisualMarker drops the marker of a hotspot.
func (t *Tracker) RemoveVisualMarker(hotspotID string) {
	markerID := core.MarkerID(hotspotID)
	t.markers.Delete(markerID)
	t.log.Debug("marker removed", "marker", markerID)
}

// ClearMarkers drops every marker.
func (t *Tracker) ClearMarkers() {
	t.markers.Reset()
	t.log.Debug("markers cleared")
}

// HotspotForMarker resolves a marker id to its hotspot id.
func (t *Tracker) HotspotForMarker(markerID string) (string, bool) {
	return t.markers.Get(markerID)
}

// Markers returns the ids of the markers on screen, sorted.
func (t *Tracker) Markers() []string {
	return t.markers.Keys()
}

// Updates returns how many refreshes were requested.
func (t *Tracker) Updates() int {
	return t.updates
}
