package parser

import (
	"fmt"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// ParseScene parses `<id> [name=...] [panorama=...]`.
func (p *Parser) ParseScene(data []string) (core.Scene, error) {
	var scene core.Scene

	id, err := positional(data, 0, "scene id")
	if err != nil {
		return scene, err
	}
	scene.ID = id

	for k, v := range p.pairs(data[1:]) {
		switch k {
		case "name":
			scene.Name = v
		case "panorama", "image":
			scene.Panorama = v
		default:
			p.logger.Warn("Unknown scene field", "field", k)
		}
	}
	if scene.Name == "" {
		scene.Name = scene.ID
	}
	return scene, nil
}

// ParseSceneAnchor parses `<id> <lon,lat>`.
func (p *Parser) ParseSceneAnchor(data []string) (id string, lon, lat float64, err error) {
	id, err = positional(data, 0, "scene id")
	if err != nil {
		return "", 0, 0, err
	}
	coords, err := positional(data, 1, "coordinates")
	if err != nil {
		return "", 0, 0, err
	}
	lon, lat, err = geo.LonLatFromString(coords)
	if err != nil {
		return "", 0, 0, fmt.Errorf("error parsing anchor: %w", err)
	}
	return id, lon, lat, nil
}
