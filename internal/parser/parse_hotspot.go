package parser

import (
	"fmt"
	"strings"

	"github.com/colortour/hotspot-editor/internal/util"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// ParseHotspotAdd parses `<sceneId> [key=value ...]` into creation data.
func (p *Parser) ParseHotspotAdd(data []string) (string, core.HotspotData, error) {
	var hd core.HotspotData

	sceneID, err := positional(data, 0, "scene id")
	if err != nil {
		return "", hd, err
	}

	for k, v := range p.pairs(data[1:]) {
		switch k {
		case "type":
			hd.Type = p.hotspotType(v)
		case "position", "pos":
			hd.Position = positionValue(v)
		case "width":
			if hd.Width, err = parseFloat(k, v); err != nil {
				return "", hd, err
			}
		case "height":
			if hd.Height, err = parseFloat(k, v); err != nil {
				return "", hd, err
			}
		case "rotation":
			hd.Rotation = v
		case "title":
			hd.Title = v
		case "description":
			hd.Description = v
		case "target":
			hd.TargetSceneID = v
		case "size":
			if hd.Size, err = parseFloat(k, v); err != nil {
				return "", hd, err
			}
		case "color":
			hd.Color = v
		case "video":
			hd.VideoURL = v
		case "thumbnail":
			hd.Thumbnail = v
		case "poster":
			hd.Poster = v
		case "content":
			hd.Content = v
		default:
			p.logger.Warn("Unknown hotspot field", "field", k)
		}
	}

	return sceneID, hd, nil
}

// ParseHotspotPatch parses `<id> [key=value ...]` into a partial update.
func (p *Parser) ParseHotspotPatch(data []string) (string, core.HotspotPatch, error) {
	var patch core.HotspotPatch

	id, err := positional(data, 0, "hotspot id")
	if err != nil {
		return "", patch, err
	}

	for k, v := range p.pairs(data[1:]) {
		switch k {
		case "type":
			t := p.hotspotType(v)
			patch.Type = &t
		case "position", "pos":
			patch.Position = positionValue(v)
		case "width":
			f, err := parseFloat(k, v)
			if err != nil {
				return "", patch, err
			}
			patch.Width = &f
		case "height":
			f, err := parseFloat(k, v)
			if err != nil {
				return "", patch, err
			}
			patch.Height = &f
		case "size":
			f, err := parseFloat(k, v)
			if err != nil {
				return "", patch, err
			}
			patch.Size = &f
		case "rotation":
			patch.Rotation = &v
		case "title":
			patch.Title = &v
		case "description":
			patch.Description = &v
		case "target":
			patch.TargetSceneID = &v
		case "color":
			patch.Color = &v
		case "video":
			patch.VideoURL = &v
		case "thumbnail":
			patch.Thumbnail = &v
		case "poster":
			patch.Poster = &v
		case "content":
			patch.Content = &v
		default:
			p.logger.Warn("Unknown hotspot field", "field", k)
		}
	}

	return id, patch, nil
}

// ParseHotspotMove parses `<id> <position...>`. The position may be split
// across several arguments ("1 2 3" typed without quotes).
func (p *Parser) ParseHotspotMove(data []string) (string, any, error) {
	id, err := positional(data, 0, "hotspot id")
	if err != nil {
		return "", nil, err
	}
	if len(data) < 2 {
		return "", nil, fmt.Errorf("%w: position", ErrMissingArgument)
	}

	parts := make([]string, 0, len(data)-1)
	for _, arg := range data[1:] {
		parts = append(parts, util.Unquote(arg))
	}
	return id, positionValue(strings.Join(parts, " ")), nil
}

// ParseResupply parses `<id> <videoUrl>`.
func (p *Parser) ParseResupply(data []string) (string, string, error) {
	id, err := positional(data, 0, "hotspot id")
	if err != nil {
		return "", "", err
	}
	url, err := positional(data, 1, "video url")
	if err != nil {
		return "", "", err
	}
	return id, url, nil
}

func (p *Parser) hotspotType(v string) core.HotspotType {
	t := core.HotspotType(strings.ToLower(strings.TrimSpace(v)))
	if !t.IsKnown() {
		p.logger.Warn("Unknown hotspot type", "type", v)
	}
	return t
}
