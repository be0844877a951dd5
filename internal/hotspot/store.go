// Package hotspot owns the canonical hotspot collection of a tour.
package hotspot

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/internal/storage"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// SceneRegistry resolves scenes by id.
type SceneRegistry interface {
	GetSceneByID(id string) (*core.Scene, bool)
}

// Renderer maintains the visual markers derived from hotspots. Calls are
// fire-and-forget.
type Renderer interface {
	CreateVisualMarker(h *core.Hotspot)
	UpdateVisualMarker(h *core.Hotspot)
	RemoveVisualMarker(hotspotID string)
	ClearMarkers()
}

// Persister stores the collection as a single record.
type Persister interface {
	Save(hotspots []*core.Hotspot) error
	Load() ([]*core.Hotspot, bool, error)
	Erase() error
	Medium() storage.Medium
}

// Dependencies holds the collaborators of a Store. Scenes and Renderer may
// be set later with SetScenes and SetRenderer.
type Dependencies struct {
	Scenes    SceneRegistry
	Renderer  Renderer
	Persister Persister
	Logger    *slog.Logger
}

// Store is the single source of truth for hotspots: an ordered id list, an
// id index and a per-scene index. Scene views share the stored pointers, so
// field changes are visible through both.
//
// Store is not safe for concurrent use.
type Store struct {
	deps Dependencies
	log  *slog.Logger

	order   []string
	byID    map[string]*core.Hotspot
	byScene map[string][]string

	issued map[string]struct{}
	now    func() time.Time
}

// NewStore creates an empty Store.
func NewStore(deps Dependencies) *Store {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		deps:    deps,
		log:     log,
		byID:    make(map[string]*core.Hotspot),
		byScene: make(map[string][]string),
		issued:  make(map[string]struct{}),
		now:     time.Now,
	}
}

// SetRenderer sets the rendering collaborator.
func (s *Store) SetRenderer(r Renderer) {
	s.deps.Renderer = r
}

// SetScenes sets the scene registry.
func (s *Store) SetScenes(r SceneRegistry) {
	s.deps.Scenes = r
}

// Len returns the number of hotspots.
func (s *Store) Len() int {
	return len(s.order)
}

// AddHotspot creates a hotspot in scene from data, renders it and persists
// the collection. It returns nil when scene is nil.
func (s *Store) AddHotspot(scene *core.Scene, data core.HotspotData) *core.Hotspot {
	if scene == nil {
		s.log.Warn("cannot add hotspot without a scene")
		return nil
	}

	h := &core.Hotspot{
		ID:            s.newID(),
		SceneID:       scene.ID,
		Type:          data.Type,
		Position:      geo.Normalize(data.Position),
		Width:         data.Width,
		Height:        data.Height,
		Rotation:      data.Rotation,
		Title:         data.Title,
		Description:   data.Description,
		TargetSceneID: data.TargetSceneID,
		Size:          data.Size,
		Color:         data.Color,
		VideoURL:      data.VideoURL,
		Thumbnail:     data.Thumbnail,
		Poster:        data.Poster,
		Content:       data.Content,
	}
	h.ApplyDefaults()

	s.insert(h)
	scene.Hotspots = append(scene.Hotspots, h)

	if s.deps.Renderer != nil {
		s.deps.Renderer.CreateVisualMarker(h)
	}
	s.save()

	s.log.Debug("hotspot added",
		"id", h.ID,
		"scene", h.SceneID,
		"type", h.Type,
		"position", geo.FormatPosition(h.Position))
	return h
}

// UpdateHotspot merges patch into the hotspot. A patched position goes
// through the normalizer. Unknown ids are ignored.
func (s *Store) UpdateHotspot(id string, patch core.HotspotPatch) {
	h, ok := s.byID[id]
	if !ok {
		s.log.Debug("hotspot not found for update", "id", id)
		return
	}

	applyPatch(h, patch)

	if s.deps.Renderer != nil {
		s.deps.Renderer.UpdateVisualMarker(h)
	}
	s.save()

	s.log.Debug("hotspot updated", "id", id)
}

// UpdateHotspotPosition moves a hotspot. position may have any shape the
// normalizer understands.
func (s *Store) UpdateHotspotPosition(id string, position any) {
	h, ok := s.byID[id]
	if !ok {
		s.log.Warn("hotspot not found for position update", "id", id)
		return
	}

	h.Position = geo.Normalize(position)
	s.syncSceneEntry(h)
	s.save()

	s.log.Debug("hotspot position updated", "id", id, "position", geo.FormatPosition(h.Position))
}

// RemoveHotspotByID deletes a hotspot from every view and its marker.
// Unknown ids are ignored.
func (s *Store) RemoveHotspotByID(id string) {
	h, ok := s.byID[id]
	if !ok {
		return
	}

	s.remove(h)

	if s.deps.Scenes != nil {
		if scene, ok := s.deps.Scenes.GetSceneByID(h.SceneID); ok {
			scene.Hotspots = slices.DeleteFunc(scene.Hotspots, func(sh *core.Hotspot) bool {
				return sh.ID == id
			})
		}
	}

	if s.deps.Renderer != nil {
		s.deps.Renderer.RemoveVisualMarker(id)
	}
	s.save()

	s.log.Debug("hotspot removed", "id", id)
}

// RemoveHotspotByMarkerID removes the hotspot behind a visual marker id.
func (s *Store) RemoveHotspotByMarkerID(markerID string) {
	s.RemoveHotspotByID(core.HotspotIDFromMarker(markerID))
}

// FindHotspotByID returns the stored hotspot.
func (s *Store) FindHotspotByID(id string) (*core.Hotspot, bool) {
	h, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if h.NeedsRestore() {
		s.log.Info("hotspot needs its video resupplied", "id", id, "file", h.Restore.FileName)
	}
	return h, true
}

// FindHotspotByMarkerID returns the hotspot behind a visual marker id.
func (s *Store) FindHotspotByMarkerID(markerID string) (*core.Hotspot, bool) {
	return s.FindHotspotByID(core.HotspotIDFromMarker(markerID))
}

// GetHotspotWithFullData returns a copy of the hotspot with the recovery
// marker cleared. The stored hotspot keeps its marker.
func (s *Store) GetHotspotWithFullData(id string) (core.Hotspot, bool) {
	h, ok := s.FindHotspotByID(id)
	if !ok {
		return core.Hotspot{}, false
	}
	full := *h
	if full.NeedsRestore() {
		s.log.Debug("clearing recovery marker on copy", "id", id, "file", full.Restore.FileName)
	}
	full.Restore = nil
	return full, true
}

// ResupplyVideo attaches a video to a hotspot whose payload was dropped on
// save and clears its recovery marker.
func (s *Store) ResupplyVideo(id, url string) bool {
	h, ok := s.byID[id]
	if !ok {
		s.log.Warn("hotspot not found for video resupply", "id", id)
		return false
	}

	h.VideoURL = url
	h.Restore = nil

	if s.deps.Renderer != nil {
		s.deps.Renderer.UpdateVisualMarker(h)
	}
	s.save()
	return true
}

// Sync replaces the collection with the persisted one. It reports false when
// nothing is stored. A corrupt record leaves the collection untouched.
func (s *Store) Sync() (bool, error) {
	if s.deps.Persister == nil {
		return false, nil
	}

	loaded, ok, err := s.deps.Persister.Load()
	if err != nil {
		return false, fmt.Errorf("syncing hotspots: %w", err)
	}
	if !ok {
		return false, nil
	}

	for _, h := range loaded {
		if h == nil {
			continue
		}
		if prev, ok := s.byID[h.ID]; ok {
			carryOver(h, prev)
		}
	}

	s.replace(loaded)
	for _, h := range loaded {
		if h == nil {
			continue
		}
		if h.NeedsRestore() {
			s.log.Warn("hotspot video missing after load", "id", h.ID, "file", h.Restore.FileName)
		}
	}
	s.log.Debug("hotspots synced", "count", len(loaded))
	return true, nil
}

// Query returns the hotspots of a scene in insertion order.
func (s *Store) Query(sceneID string) []*core.Hotspot {
	ids := s.byScene[sceneID]
	out := make([]*core.Hotspot, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// GetHotspotsForScene syncs with the medium, then queries. A failed sync is
// logged and the in-memory collection is used.
func (s *Store) GetHotspotsForScene(sceneID string) []*core.Hotspot {
	if _, err := s.Sync(); err != nil {
		s.log.Error("failed to reload hotspots", "scene", sceneID, "error", err)
	}

	out := s.Query(sceneID)
	if len(out) == 0 {
		s.log.Debug("no hotspots in scene", "scene", sceneID, "total", len(s.order))
	}
	return out
}

// LoadHotspots replaces the collection without persisting it.
func (s *Store) LoadHotspots(hotspots []*core.Hotspot) {
	s.replace(hotspots)
	s.log.Debug("hotspots loaded", "count", len(s.order))
}

// AllHotspots returns every hotspot in insertion order.
func (s *Store) AllHotspots() []*core.Hotspot {
	out := make([]*core.Hotspot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// UpdateAllMarkersWithSettings fills missing sizes and colors from settings.
// Only color changes trigger a marker refresh.
func (s *Store) UpdateAllMarkersWithSettings(settings core.Settings) {
	for _, id := range s.order {
		h := s.byID[id]
		if h.Size == 0 {
			h.Size = settings.SizeFor(h.Type)
		}
		if h.Color == "" {
			h.Color = settings.ColorFor(h.Type)
			if s.deps.Renderer != nil {
				s.deps.Renderer.UpdateVisualMarker(h)
			}
		}
	}
}

// ClearAll empties the collection, erases the persisted record and clears
// every marker.
func (s *Store) ClearAll() {
	touched := s.sceneIDs()

	s.order = nil
	s.byID = make(map[string]*core.Hotspot)
	s.byScene = make(map[string][]string)
	s.rebuildSceneViews(touched)

	if s.deps.Persister != nil {
		if err := s.deps.Persister.Erase(); err != nil {
			s.log.Error("failed to erase persisted hotspots", "error", err)
		}
	}
	if s.deps.Renderer != nil {
		s.deps.Renderer.ClearMarkers()
	}
	s.log.Info("all hotspots cleared")
}

// StorageReport summarizes the persistence medium usage.
func (s *Store) StorageReport() (storage.Report, error) {
	if s.deps.Persister == nil {
		return storage.Report{}, fmt.Errorf("no persister configured")
	}
	return storage.BuildReport(s.deps.Persister.Medium())
}

func (s *Store) save() {
	if s.deps.Persister == nil {
		return
	}
	// Failures are reported by the persister's observer; the in-memory
	// collection stays authoritative.
	if err := s.deps.Persister.Save(s.AllHotspots()); err != nil {
		s.log.Debug("hotspot save did not complete", "error", err)
	}
}

func (s *Store) insert(h *core.Hotspot) {
	if _, exists := s.byID[h.ID]; exists {
		s.remove(s.byID[h.ID])
	}
	s.order = append(s.order, h.ID)
	s.byID[h.ID] = h
	s.byScene[h.SceneID] = append(s.byScene[h.SceneID], h.ID)
	s.issued[h.ID] = struct{}{}
}

func (s *Store) remove(h *core.Hotspot) {
	delete(s.byID, h.ID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == h.ID })

	ids := slices.DeleteFunc(s.byScene[h.SceneID], func(id string) bool { return id == h.ID })
	if len(ids) == 0 {
		delete(s.byScene, h.SceneID)
	} else {
		s.byScene[h.SceneID] = ids
	}
}

func (s *Store) replace(hotspots []*core.Hotspot) {
	touched := s.sceneIDs()

	s.order = nil
	s.byID = make(map[string]*core.Hotspot, len(hotspots))
	s.byScene = make(map[string][]string)
	for _, h := range hotspots {
		if h == nil {
			continue
		}
		s.insert(h)
	}

	for id := range s.byScene {
		touched[id] = struct{}{}
	}
	s.rebuildSceneViews(touched)
}

// syncSceneEntry makes sure the scene view holds the stored pointer.
func (s *Store) syncSceneEntry(h *core.Hotspot) {
	if s.deps.Scenes == nil {
		return
	}
	scene, ok := s.deps.Scenes.GetSceneByID(h.SceneID)
	if !ok {
		return
	}
	for i, sh := range scene.Hotspots {
		if sh.ID == h.ID {
			scene.Hotspots[i] = h
			return
		}
	}
}

func (s *Store) rebuildSceneViews(sceneIDs map[string]struct{}) {
	if s.deps.Scenes == nil {
		return
	}
	for id := range sceneIDs {
		if scene, ok := s.deps.Scenes.GetSceneByID(id); ok {
			scene.Hotspots = s.Query(id)
		}
	}
}

func (s *Store) sceneIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.byScene))
	for id := range s.byScene {
		ids[id] = struct{}{}
	}
	return ids
}

// newID returns an id never handed out by this store nor present in it.
func (s *Store) newID() string {
	for {
		id := fmt.Sprintf("hotspot_%d_%s", s.now().UnixMilli(), uuid.NewString()[:8])
		if _, used := s.issued[id]; used {
			continue
		}
		if _, used := s.byID[id]; used {
			continue
		}
		return id
	}
}

// carryOver copies the fields the persisted record does not hold from the
// in-memory hotspot into its freshly loaded counterpart.
func carryOver(loaded, prev *core.Hotspot) {
	if loaded.SceneID != prev.SceneID {
		return
	}
	if strings.HasPrefix(prev.Title, loaded.Title) {
		loaded.Title = prev.Title
	}
	loaded.Description = prev.Description
	loaded.TargetSceneID = prev.TargetSceneID
	loaded.Size = prev.Size
	loaded.Color = prev.Color
	loaded.Thumbnail = prev.Thumbnail
	loaded.Poster = prev.Poster
	loaded.Content = prev.Content
	if loaded.VideoURL == "" && prev.VideoURL != "" {
		loaded.VideoURL = prev.VideoURL
		loaded.Restore = nil
	}
}

func applyPatch(h *core.Hotspot, p core.HotspotPatch) {
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.Position != nil {
		h.Position = geo.Normalize(p.Position)
	}
	if p.Width != nil {
		h.Width = *p.Width
	}
	if p.Height != nil {
		h.Height = *p.Height
	}
	if p.Rotation != nil {
		h.Rotation = *p.Rotation
	}
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.TargetSceneID != nil {
		h.TargetSceneID = *p.TargetSceneID
	}
	if p.Size != nil {
		h.Size = *p.Size
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.VideoURL != nil {
		h.VideoURL = *p.VideoURL
		if *p.VideoURL != "" {
			h.Restore = nil
		}
	}
	if p.Thumbnail != nil {
		h.Thumbnail = *p.Thumbnail
	}
	if p.Poster != nil {
		h.Poster = *p.Poster
	}
	if p.Content != nil {
		h.Content = *p.Content
	}
}
