package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/colortour/hotspot-editor/pkg/core"
)

// DefaultPosition places a hotspot in front of the viewer, scene-forward.
var DefaultPosition = core.Position3D{X: 0, Y: 0, Z: -5}

// Vector3 is implemented by any value exposing three numeric axes.
type Vector3 interface {
	XYZ() (x, y, z float64)
}

// Normalize converts a position in any of the shapes produced by the editor
// into the canonical coordinate record. It never fails: unparseable axes
// become 0 and unknown shapes fall back to DefaultPosition.
//
// Accepted shapes:
//   - "x y z" or "x,y,z" strings (missing tokens are 0)
//   - core.Position3D, *core.Position3D or any Vector3
//   - map[string]any / map[string]float64 / map[string]string with x, y, z keys
//   - []float64 / []any triples
func Normalize(input any) core.Position3D {
	switch v := input.(type) {
	case nil:
		return DefaultPosition
	case core.Position3D:
		return sanitize(v)
	case *core.Position3D:
		if v == nil {
			return DefaultPosition
		}
		return sanitize(*v)
	case Vector3:
		x, y, z := v.XYZ()
		return sanitize(core.Position3D{X: x, Y: y, Z: z})
	case string:
		return fromTokens(splitTokens(v))
	case []string:
		return fromTokens(v)
	case []float64:
		var p core.Position3D
		if len(v) > 0 {
			p.X = v[0]
		}
		if len(v) > 1 {
			p.Y = v[1]
		}
		if len(v) > 2 {
			p.Z = v[2]
		}
		return sanitize(p)
	case []any:
		var p core.Position3D
		if len(v) > 0 {
			p.X = toFloat(v[0])
		}
		if len(v) > 1 {
			p.Y = toFloat(v[1])
		}
		if len(v) > 2 {
			p.Z = toFloat(v[2])
		}
		return p
	case map[string]any:
		return core.Position3D{X: toFloat(v["x"]), Y: toFloat(v["y"]), Z: toFloat(v["z"])}
	case map[string]float64:
		return sanitize(core.Position3D{X: v["x"], Y: v["y"], Z: v["z"]})
	case map[string]string:
		return core.Position3D{X: parseToken(v["x"]), Y: parseToken(v["y"]), Z: parseToken(v["z"])}
	default:
		return DefaultPosition
	}
}

// FormatPosition renders a position as an A-Frame "x y z" attribute.
func FormatPosition(p core.Position3D) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Y, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Z, 'f', -1, 64)
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func fromTokens(tokens []string) core.Position3D {
	var p core.Position3D
	if len(tokens) > 0 {
		p.X = parseToken(tokens[0])
	}
	if len(tokens) > 1 {
		p.Y = parseToken(tokens[1])
	}
	if len(tokens) > 2 {
		p.Z = parseToken(tokens[2])
	}
	return p
}

func parseToken(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case string:
		return parseToken(n)
	default:
		return 0
	}
}

func sanitize(p core.Position3D) core.Position3D {
	return core.Position3D{X: finite(p.X), Y: finite(p.Y), Z: finite(p.Z)}
}

// finite maps NaN and infinities to 0 so canonical records stay JSON-safe.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
