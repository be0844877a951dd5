// Package scene keeps the scenes of the tour being edited.
package scene

import (
	"fmt"
	"sync"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// Registry holds scenes by id, in creation order.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	scenes map[string]*core.Scene
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		scenes: make(map[string]*core.Scene),
	}
}

// Add registers a scene, replacing any scene with the same id.
func (r *Registry) Add(s *core.Scene) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("scene requires an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scenes[s.ID]; !exists {
		r.order = append(r.order, s.ID)
	}
	r.scenes[s.ID] = s
	return nil
}

// GetSceneByID returns the scene with the given id.
func (r *Registry) GetSceneByID(id string) (*core.Scene, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenes[id]
	return s, ok
}

// All returns every scene in creation order.
func (r *Registry) All() []*core.Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Scene, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scenes[id])
	}
	return out
}

// Remove drops a scene. Its hotspots are left to the hotspot store.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenes[id]; !ok {
		return false
	}
	delete(r.scenes, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// SetAnchor pins a scene on the tour map at a WGS84 longitude/latitude.
func (r *Registry) SetAnchor(id string, lon, lat float64) error {
	if _, err := geo.AnchorFromLonLat(lon, lat); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenes[id]
	if !ok {
		return fmt.Errorf("scene %q not found", id)
	}
	s.Longitude = lon
	s.Latitude = lat
	s.HasAnchor = true
	return nil
}

// AnchorWKT returns the projected anchor of a scene as WKT.
func (r *Registry) AnchorWKT(id string) (string, error) {
	r.mu.RLock()
	s, ok := r.scenes[id]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("scene %q not found", id)
	}
	if !s.HasAnchor {
		return "", fmt.Errorf("scene %q has no anchor", id)
	}
	return geo.AnchorWKT(s.Longitude, s.Latitude)
}

// Reset removes every scene.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.scenes = make(map[string]*core.Scene)
}
