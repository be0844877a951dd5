// Package persistence turns the hotspot collection into a size-bounded
// storage record and back.
package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

const (
	// CurrentVersion is written into every envelope. Records without an
	// envelope are the legacy bare-array format, version 0.
	CurrentVersion = 1

	// MaxTitleRunes bounds the persisted title.
	MaxTitleRunes = 50

	// MaxFileNameHint is the exclusive upper bound on a stored video file
	// name hint; longer hints are dropped.
	MaxFileNameHint = 100
)

var (
	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt hotspot record")

	// ErrUnsupportedVersion is returned for envelopes newer than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported hotspot record version")
)

// Record is the minimized, storage-safe form of a hotspot. It never carries
// large payloads; HasVideo and VideoFileName are enough to ask for them again.
type Record struct {
	ID            string           `json:"id"`
	SceneID       string           `json:"sceneId"`
	Type          core.HotspotType `json:"type,omitempty"`
	Position      core.Position3D  `json:"position"`
	Width         float64          `json:"width,omitempty"`
	Height        float64          `json:"height,omitempty"`
	Rotation      string           `json:"rotation,omitempty"`
	Title         string           `json:"title,omitempty"`
	HasVideo      bool             `json:"hasVideo,omitempty"`
	VideoFileName string           `json:"videoFileName,omitempty"`
}

type envelope struct {
	Version  int      `json:"version"`
	Hotspots []Record `json:"hotspots"`
}

// Minimize keeps the fields needed to rebuild h. Dimensions and rotation are
// dropped when they equal their defaults, so Restore reproduces them.
func Minimize(h *core.Hotspot) Record {
	r := Record{
		ID:       h.ID,
		SceneID:  h.SceneID,
		Type:     h.Type,
		Position: h.Position,
	}

	if h.Width != 0 && h.Width != core.DefaultWidth {
		r.Width = h.Width
	}
	if h.Height != 0 && h.Height != core.DefaultHeight {
		r.Height = h.Height
	}
	if h.Rotation != "" && h.Rotation != core.DefaultRotation && h.Rotation != "0" {
		r.Rotation = h.Rotation
	}
	if strings.TrimSpace(h.Title) != "" {
		r.Title = truncateRunes(h.Title, MaxTitleRunes)
	}

	if strings.TrimSpace(h.VideoURL) != "" {
		r.HasVideo = true
		if name := videoFileName(h.VideoURL); name != "" && len(name) < MaxFileNameHint {
			r.VideoFileName = name
		}
	}

	return r
}

// Emergency reduces h to the fields written by the quota recovery, with
// defaults spelled out.
func Emergency(h *core.Hotspot) Record {
	r := Record{
		ID:       h.ID,
		SceneID:  h.SceneID,
		Type:     h.Type,
		Position: h.Position,
		Width:    h.Width,
		Height:   h.Height,
	}
	if r.Type == "" {
		r.Type = core.DefaultType
	}
	if r.Width == 0 {
		r.Width = core.DefaultWidth
	}
	if r.Height == 0 {
		r.Height = core.DefaultHeight
	}
	return r
}

// Restore expands a record into a hotspot, filling omitted fields with their
// defaults and flagging a dropped video for resupply.
func Restore(r Record) *core.Hotspot {
	h := &core.Hotspot{
		ID:       r.ID,
		SceneID:  r.SceneID,
		Type:     r.Type,
		Position: r.Position,
		Width:    r.Width,
		Height:   r.Height,
		Rotation: r.Rotation,
		Title:    r.Title,
	}
	h.ApplyDefaults()

	if r.HasVideo && h.VideoURL == "" {
		h.Restore = &core.RestoreMarker{FileName: r.VideoFileName}
	}

	return h
}

// Encode serializes records into a versioned envelope.
func Encode(records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(envelope{Version: CurrentVersion, Hotspots: records})
	if err != nil {
		return "", fmt.Errorf("encoding %d records: %w", len(records), err)
	}
	return string(data), nil
}

// Decode parses a stored record. Both the versioned envelope and the legacy
// bare array are accepted. An object without a hotspots array is corrupt. Positions go through the normalizer. Mistyped
// fields fall back to zero values. Entries without an id are skipped.
func Decode(data string) ([]Record, int, error) {
	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty record", ErrCorruptRecord)
	}

	var (
		raw     []json.RawMessage
		version int
	)
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
	case '{':
		var env struct {
			Version  int                `json:"version"`
			Hotspots *[]json.RawMessage `json:"hotspots"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		if env.Version < 0 || env.Version > CurrentVersion {
			return nil, env.Version, fmt.Errorf("%w: %w: %d", ErrCorruptRecord, ErrUnsupportedVersion, env.Version)
		}
		if env.Hotspots == nil {
			return nil, env.Version, fmt.Errorf("%w: no hotspots array", ErrCorruptRecord)
		}
		raw, version = *env.Hotspots, env.Version
	default:
		return nil, 0, fmt.Errorf("%w: unexpected leading %q", ErrCorruptRecord, trimmed[0])
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		fields, err := decodeObject(item)
		if err != nil {
			return nil, version, fmt.Errorf("%w: entry %d: %v", ErrCorruptRecord, i, err)
		}
		r := recordFromFields(fields)
		if r.ID == "" {
			continue
		}
		records = append(records, r)
	}
	return records, version, nil
}

func decodeObject(item json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("null entry")
	}
	return fields, nil
}

func recordFromFields(f map[string]any) Record {
	r := Record{
		ID:            stringField(f, "id"),
		SceneID:       stringField(f, "sceneId"),
		Type:          core.HotspotType(stringField(f, "type")),
		Width:         numberField(f, "width"),
		Height:        numberField(f, "height"),
		Rotation:      stringField(f, "rotation"),
		Title:         stringField(f, "title"),
		VideoFileName: stringField(f, "videoFileName"),
	}
	if b, ok := f["hasVideo"].(bool); ok {
		r.HasVideo = b
	}
	if pos, ok := f["position"]; ok && pos != nil {
		r.Position = geo.Normalize(pos)
	} else {
		r.Position = geo.DefaultPosition
	}
	return r
}

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func numberField(f map[string]any, key string) float64 {
	switch v := f[key].(type) {
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		return n
	case string:
		return geo.Normalize(v).X
	default:
		return 0
	}
}

// videoFileName derives a short hint from the last path segment of a URL.
// Data URIs carry no file name.
func videoFileName(url string) string {
	if strings.HasPrefix(url, "data:") || strings.HasPrefix(url, "blob:") {
		return ""
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return url[strings.LastIndex(url, "/")+1:]
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
