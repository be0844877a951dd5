package parser

import (
	"github.com/colortour/hotspot-editor/pkg/core"
)

// ParseSettings overlays `key=value` arguments on base.
func (p *Parser) ParseSettings(data []string, base core.Settings) (core.Settings, error) {
	s := base
	var err error

	for k, v := range p.pairs(data) {
		switch k {
		case "hotspotsize":
			if s.HotspotSize, err = parseFloat(k, v); err != nil {
				return base, err
			}
		case "infopointsize":
			if s.InfopointSize, err = parseFloat(k, v); err != nil {
				return base, err
			}
		case "hotspotcolor":
			s.HotspotColor = v
		case "infopointcolor":
			s.InfopointColor = v
		default:
			p.logger.Warn("Unknown settings field", "field", k)
		}
	}
	return s, nil
}
