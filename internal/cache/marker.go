package cache

import (
	"sort"
	"sync"
)

// MarkerCache maps visual marker ids to the hotspot ids they render
type MarkerCache struct {
	mu      sync.RWMutex
	markers map[string]string
}

// NewMarkerCache creates a new MarkerCache
func NewMarkerCache() *MarkerCache {
	return &MarkerCache{
		markers: make(map[string]string),
	}
}

// Get retrieves a hotspot ID by marker ID
func (c *MarkerCache) Get(markerID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.markers[markerID]
	return id, ok
}

// Set stores a hotspot ID by marker ID
func (c *MarkerCache) Set(markerID, hotspotID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[markerID] = hotspotID
}

// Delete removes a marker by ID
func (c *MarkerCache) Delete(markerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, markerID)
}

// Len returns the number of cached markers
func (c *MarkerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.markers)
}

// Keys returns the cached marker IDs, sorted
func (c *MarkerCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.markers))
	for k := range c.markers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset clears all markers from the cache
func (c *MarkerCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = make(map[string]string)
}
