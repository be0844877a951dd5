package handlers

import (
	"errors"
	"fmt"

	"github.com/colortour/hotspot-editor/internal/dispatcher"
	"github.com/colortour/hotspot-editor/internal/hotspot"
	"github.com/colortour/hotspot-editor/internal/logging"
	"github.com/colortour/hotspot-editor/internal/parser"
	"github.com/colortour/hotspot-editor/internal/scene"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// ErrNotFound is returned when a command names an unknown scene or hotspot.
var ErrNotFound = errors.New("not found")

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Store      *hotspot.Store
	Scenes     *scene.Registry
	Parser     *parser.Parser
	LogManager *logging.SlogManager
	Settings   core.Settings
}

// Service provides handler methods for editor console commands
type Service struct {
	deps         Dependencies
	settings     core.Settings
	writeLogFunc func(functionName, data, level string)
}

// HotspotResult is the console view of a hotspot.
type HotspotResult struct {
	*core.Hotspot
	MarkerID     string `json:"markerId"`
	NeedsVideo   bool   `json:"needsVideo,omitempty"`
	ExpectedFile string `json:"expectedFile,omitempty"`
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	s := &Service{
		deps:     deps,
		settings: deps.Settings,
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	return s
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

// Settings returns the marker settings currently applied.
func (s *Service) Settings() core.Settings {
	return s.settings
}

// Register binds every console command to d.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register(":SCENE:ADD:", s.wrap(s.AddScene), dispatcher.Logged(),
		dispatcher.Usage("<id> [name=..] [panorama=..]"))
	d.Register(":SCENE:ANCHOR:", s.wrap(s.AnchorScene), dispatcher.Logged(),
		dispatcher.Usage("<id> <lon,lat>"))
	d.Register(":SCENE:LIST:", s.wrap(s.ListScenes), dispatcher.Usage(""))
	d.Register(":SCENE:HOTSPOTS:", s.wrap(s.SceneHotspots), dispatcher.Logged(),
		dispatcher.Usage("<sceneId>"))

	d.Register(":HOTSPOT:ADD:", s.wrap(s.AddHotspot), dispatcher.Logged(),
		dispatcher.Usage("<sceneId> [type=..] [position=..] [title=..] [video=..] ..."))
	d.Register(":HOTSPOT:UPDATE:", s.wrap(s.UpdateHotspot), dispatcher.Logged(),
		dispatcher.Usage("<id> [field=value ...]"))
	d.Register(":HOTSPOT:MOVE:", s.wrap(s.MoveHotspot), dispatcher.Logged(),
		dispatcher.Usage("<id> <x y z | {json}>"))
	d.Register(":HOTSPOT:REMOVE:", s.wrap(s.RemoveHotspot), dispatcher.Logged(),
		dispatcher.Usage("<id>"))
	d.Register(":MARKER:REMOVE:", s.wrap(s.RemoveMarker), dispatcher.Logged(),
		dispatcher.Usage("<markerId>"))
	d.Register(":HOTSPOT:GET:", s.wrap(s.GetHotspot), dispatcher.Usage("<id | markerId>"))
	d.Register(":HOTSPOT:LIST:", s.wrap(s.ListHotspots), dispatcher.Usage(""))
	d.Register(":HOTSPOT:RESTORE:", s.wrap(s.RestoreVideo), dispatcher.Logged(),
		dispatcher.Usage("<id> <videoUrl>"))

	d.Register(":SETTINGS:APPLY:", s.wrap(s.ApplySettings), dispatcher.Logged(),
		dispatcher.Usage("[hotspotSize=..] [infopointSize=..] [hotspotColor=..] [infopointColor=..]"))
	d.Register(":SYNC:", s.wrap(s.Sync), dispatcher.Logged(), dispatcher.Usage(""))
	d.Register(":CLEAR:", s.wrap(s.Clear), dispatcher.Logged(), dispatcher.Usage(""))
	d.Register(":STORAGE:REPORT:", s.wrap(s.StorageReport), dispatcher.Usage(""))
}

func (s *Service) wrap(fn func([]string) (any, error)) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		result, err := fn(e.Args)
		if err != nil {
			s.writeLog(e.Command, err.Error(), "WARN")
		}
		return result, err
	}
}

// AddScene registers a scene.
func (s *Service) AddScene(data []string) (any, error) {
	sc, err := s.deps.Parser.ParseScene(data)
	if err != nil {
		return nil, err
	}
	if existing, ok := s.deps.Scenes.GetSceneByID(sc.ID); ok {
		existing.Name = sc.Name
		if sc.Panorama != "" {
			existing.Panorama = sc.Panorama
		}
		return existing, nil
	}

	created := &sc
	created.Hotspots = s.deps.Store.Query(sc.ID)
	if err := s.deps.Scenes.Add(created); err != nil {
		return nil, err
	}
	s.writeLog(":SCENE:ADD:", fmt.Sprintf("Scene %s added", sc.ID), "INFO")
	return created, nil
}

// AnchorScene pins a scene on the tour map.
func (s *Service) AnchorScene(data []string) (any, error) {
	id, lon, lat, err := s.deps.Parser.ParseSceneAnchor(data)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Scenes.SetAnchor(id, lon, lat); err != nil {
		return nil, err
	}
	return s.deps.Scenes.AnchorWKT(id)
}

// ListScenes returns every scene.
func (s *Service) ListScenes(_ []string) (any, error) {
	return s.deps.Scenes.All(), nil
}

// SceneHotspots reloads from storage and returns the hotspots of a scene.
func (s *Service) SceneHotspots(data []string) (any, error) {
	id, err := s.deps.Parser.ParseID(data)
	if err != nil {
		return nil, err
	}
	hotspots := s.deps.Store.GetHotspotsForScene(id)
	out := make([]HotspotResult, 0, len(hotspots))
	for _, h := range hotspots {
		out = append(out, toResult(h))
	}
	return out, nil
}

// AddHotspot creates a hotspot in an existing scene.
func (s *Service) AddHotspot(data []string) (any, error) {
	sceneID, hd, err := s.deps.Parser.ParseHotspotAdd(data)
	if err != nil {
		return nil, err
	}
	sc, ok := s.deps.Scenes.GetSceneByID(sceneID)
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", sceneID, ErrNotFound)
	}
	h := s.deps.Store.AddHotspot(sc, hd)
	return toResult(h), nil
}

// UpdateHotspot applies a partial update.
func (s *Service) UpdateHotspot(data []string) (any, error) {
	id, patch, err := s.deps.Parser.ParseHotspotPatch(data)
	if err != nil {
		return nil, err
	}
	h, ok := s.deps.Store.FindHotspotByID(id)
	if !ok {
		return nil, fmt.Errorf("hotspot %q: %w", id, ErrNotFound)
	}
	s.deps.Store.UpdateHotspot(id, patch)
	return toResult(h), nil
}

// MoveHotspot changes the position of a hotspot.
func (s *Service) MoveHotspot(data []string) (any, error) {
	id, pos, err := s.deps.Parser.ParseHotspotMove(data)
	if err != nil {
		return nil, err
	}
	h, ok := s.deps.Store.FindHotspotByID(id)
	if !ok {
		return nil, fmt.Errorf("hotspot %q: %w", id, ErrNotFound)
	}
	s.deps.Store.UpdateHotspotPosition(id, pos)
	return toResult(h), nil
}

// RemoveHotspot deletes a hotspot by id.
func (s *Service) RemoveHotspot(data []string) (any, error) {
	id, err := s.deps.Parser.ParseID(data)
	if err != nil {
		return nil, err
	}
	if _, ok := s.deps.Store.FindHotspotByID(id); !ok {
		return nil, fmt.Errorf("hotspot %q: %w", id, ErrNotFound)
	}
	s.deps.Store.RemoveHotspotByID(id)
	return "removed " + id, nil
}

// RemoveMarker deletes the hotspot behind a visual marker.
func (s *Service) RemoveMarker(data []string) (any, error) {
	markerID, err := s.deps.Parser.ParseID(data)
	if err != nil {
		return nil, err
	}
	if _, ok := s.deps.Store.FindHotspotByMarkerID(markerID); !ok {
		return nil, fmt.Errorf("marker %q: %w", markerID, ErrNotFound)
	}
	s.deps.Store.RemoveHotspotByMarkerID(markerID)
	return "removed " + markerID, nil
}

// GetHotspot looks a hotspot up by id or marker id.
func (s *Service) GetHotspot(data []string) (any, error) {
	id, err := s.deps.Parser.ParseID(data)
	if err != nil {
		return nil, err
	}
	h, ok := s.deps.Store.FindHotspotByID(id)
	if !ok {
		h, ok = s.deps.Store.FindHotspotByMarkerID(id)
	}
	if !ok {
		return nil, fmt.Errorf("hotspot %q: %w", id, ErrNotFound)
	}
	return toResult(h), nil
}

// ListHotspots returns every hotspot in insertion order.
func (s *Service) ListHotspots(_ []string) (any, error) {
	all := s.deps.Store.AllHotspots()
	out := make([]HotspotResult, 0, len(all))
	for _, h := range all {
		out = append(out, toResult(h))
	}
	return out, nil
}

// RestoreVideo resupplies the video of a hotspot loaded without one.
func (s *Service) RestoreVideo(data []string) (any, error) {
	id, url, err := s.deps.Parser.ParseResupply(data)
	if err != nil {
		return nil, err
	}
	if !s.deps.Store.ResupplyVideo(id, url) {
		return nil, fmt.Errorf("hotspot %q: %w", id, ErrNotFound)
	}
	full, _ := s.deps.Store.GetHotspotWithFullData(id)
	return full, nil
}

// ApplySettings updates the marker defaults and fills them in.
func (s *Service) ApplySettings(data []string) (any, error) {
	settings, err := s.deps.Parser.ParseSettings(data, s.settings)
	if err != nil {
		return nil, err
	}
	s.settings = settings
	s.deps.Store.UpdateAllMarkersWithSettings(settings)
	return settings, nil
}

// Sync reloads the collection from storage.
func (s *Service) Sync(_ []string) (any, error) {
	ok, err := s.deps.Store.Sync()
	if err != nil {
		return nil, err
	}
	if !ok {
		return "nothing stored", nil
	}
	return fmt.Sprintf("loaded %d hotspots", s.deps.Store.Len()), nil
}

// Clear removes every hotspot and the stored record.
func (s *Service) Clear(_ []string) (any, error) {
	s.deps.Store.ClearAll()
	return "cleared", nil
}

// StorageReport summarizes storage usage.
func (s *Service) StorageReport(_ []string) (any, error) {
	report, err := s.deps.Store.StorageReport()
	if err != nil {
		return nil, err
	}
	return report.String(), nil
}

func toResult(h *core.Hotspot) HotspotResult {
	r := HotspotResult{
		Hotspot:  h,
		MarkerID: core.MarkerID(h.ID),
	}
	if h.NeedsRestore() {
		r.NeedsVideo = true
		r.ExpectedFile = h.Restore.FileName
	}
	return r
}
