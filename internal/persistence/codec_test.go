package persistence

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colortour/hotspot-editor/pkg/core"
)

func TestMinimize_OmitsDefaults(t *testing.T) {
	h := &core.Hotspot{
		ID:       "h1",
		SceneID:  "s1",
		Type:     core.TypeInfoPoint,
		Position: core.Position3D{X: 1, Y: 2, Z: 3},
		Width:    core.DefaultWidth,
		Height:   core.DefaultHeight,
		Rotation: core.DefaultRotation,
	}

	r := Minimize(h)
	assert.Equal(t, "h1", r.ID)
	assert.Equal(t, "s1", r.SceneID)
	assert.Equal(t, core.TypeInfoPoint, r.Type)
	assert.Equal(t, core.Position3D{X: 1, Y: 2, Z: 3}, r.Position)
	assert.Zero(t, r.Width)
	assert.Zero(t, r.Height)
	assert.Empty(t, r.Rotation)
	assert.Empty(t, r.Title)
	assert.False(t, r.HasVideo)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "width")
	assert.NotContains(t, string(data), "rotation")
}

func TestMinimize_KeepsNonDefaults(t *testing.T) {
	h := &core.Hotspot{
		ID:       "h1",
		Width:    4,
		Height:   3,
		Rotation: "0 90 0",
	}
	r := Minimize(h)
	assert.Equal(t, 4.0, r.Width)
	assert.Equal(t, 3.0, r.Height)
	assert.Equal(t, "0 90 0", r.Rotation)
}

func TestMinimize_ZeroRotationDropped(t *testing.T) {
	r := Minimize(&core.Hotspot{ID: "h1", Rotation: "0"})
	assert.Empty(t, r.Rotation)
}

func TestMinimize_TitleTruncation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"short", "Lobby", "Lobby"},
		{"exactly 50", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"long", strings.Repeat("b", 80), strings.Repeat("b", 50)},
		{"multibyte", strings.Repeat("é", 60), strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Minimize(&core.Hotspot{ID: "h", Title: tt.title})
			assert.Equal(t, tt.want, r.Title)
		})
	}
}

func TestMinimize_VideoCompaction(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		hasVideo bool
		hint     string
	}{
		{"no video", "", false, ""},
		{"blank video", "  ", false, ""},
		{"plain url", "https://cdn.example.com/media/intro.mp4", true, "intro.mp4"},
		{"query stripped", "https://cdn.example.com/intro.mp4?token=abc", true, "intro.mp4"},
		{"bare name", "intro.mp4", true, "intro.mp4"},
		{"data uri", "data:video/mp4;base64," + strings.Repeat("QUFB", 1000), true, ""},
		{"long name", "https://x/" + strings.Repeat("n", 100) + ".mp4", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Minimize(&core.Hotspot{ID: "h", VideoURL: tt.url})
			assert.Equal(t, tt.hasVideo, r.HasVideo)
			assert.Equal(t, tt.hint, r.VideoFileName)

			data, err := json.Marshal(r)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "base64")
		})
	}
}

func TestMinimize_LargePayloadsNeverPersisted(t *testing.T) {
	big := strings.Repeat("x", 1<<20)
	h := &core.Hotspot{
		ID:        "h1",
		VideoURL:  "https://cdn.example.com/a.mp4",
		Thumbnail: big,
		Poster:    big,
		Content:   big,
	}
	data, err := Encode([]Record{Minimize(h)})
	require.NoError(t, err)
	assert.Less(t, len(data), 512)
}

func TestRestore_Defaults(t *testing.T) {
	h := Restore(Record{ID: "h1", SceneID: "s1", Position: core.Position3D{Z: -5}})

	assert.Equal(t, core.DefaultWidth, h.Width)
	assert.Equal(t, core.DefaultHeight, h.Height)
	assert.Equal(t, core.DefaultRotation, h.Rotation)
	assert.Equal(t, core.DefaultType, h.Type)
	assert.Nil(t, h.Restore)
	assert.False(t, h.NeedsRestore())
}

func TestRestore_VideoMarker(t *testing.T) {
	h := Restore(Record{ID: "h1", HasVideo: true, VideoFileName: "intro.mp4"})
	require.NotNil(t, h.Restore)
	assert.Equal(t, "intro.mp4", h.Restore.FileName)
	assert.True(t, h.NeedsRestore())

	h = Restore(Record{ID: "h2", HasVideo: true})
	require.NotNil(t, h.Restore)
	assert.Empty(t, h.Restore.FileName)
}

func TestRoundTrip_UnderDefaults(t *testing.T) {
	original := &core.Hotspot{
		ID:       "h1",
		SceneID:  "s1",
		Type:     core.TypeHotspot,
		Position: core.Position3D{X: 1.5, Y: -2, Z: 3},
		Width:    core.DefaultWidth,
		Height:   2.25,
		Rotation: "0 45 0",
		Title:    "Door",
	}

	data, err := Encode([]Record{Minimize(original)})
	require.NoError(t, err)

	records, version, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, version)
	require.Len(t, records, 1)

	restored := Restore(records[0])
	assert.Equal(t, original, restored)
}

func TestEncode_Envelope(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"hotspots":[]}`, data)
}

func TestDecode_LegacyArray(t *testing.T) {
	legacy := `[
		{"id":"h1","sceneId":"s1","type":"hotspot","position":{"x":1,"y":2,"z":3}},
		{"id":"h2","sceneId":"s1","position":"4 5 6","width":"3"},
		{"id":"h3","sceneId":"s2","hasVideo":true,"videoFileName":"v.mp4"}
	]`

	records, version, err := Decode(legacy)
	require.NoError(t, err)
	assert.Equal(t, 0, version)
	require.Len(t, records, 3)

	assert.Equal(t, core.Position3D{X: 1, Y: 2, Z: 3}, records[0].Position)
	assert.Equal(t, core.Position3D{X: 4, Y: 5, Z: 6}, records[1].Position)
	assert.Equal(t, 3.0, records[1].Width)
	assert.True(t, records[2].HasVideo)
	assert.Equal(t, core.Position3D{Z: -5}, records[2].Position)
}

func TestDecode_PartialPosition(t *testing.T) {
	records, _, err := Decode(`{"version":1,"hotspots":[{"id":"h1","position":{"x":2}}]}`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.Position3D{X: 2}, records[0].Position)
}

func TestDecode_SkipsEntriesWithoutID(t *testing.T) {
	records, _, err := Decode(`[{"sceneId":"s1"},{"id":"h1"}]`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "h1", records[0].ID)
}

func TestDecode_Corrupt(t *testing.T) {
	inputs := map[string]string{
		"empty":       "",
		"garbage":     "not json",
		"truncated":   `{"version":1,"hotspots":[{"id":`,
		"scalar item": `[1,2,3]`,
		"null item":   `[null]`,
		"wrong shape": `{"version":1,"hotspots":"x"}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptRecord), "got %v", err)
		})
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	_, version, err := Decode(`{"version":7,"hotspots":[]}`)
	require.Error(t, err)
	assert.Equal(t, 7, version)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestDecode_ObjectWithoutHotspots(t *testing.T) {
	inputs := map[string]string{
		"empty object":     `{}`,
		"foreign object":   `{"settings":{"theme":"dark"}}`,
		"version only":     `{"version":1}`,
		"null hotspots":    `{"version":1,"hotspots":null}`,
		"negative version": `{"version":-3}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			records, _, err := Decode(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptRecord)
			assert.Nil(t, records)
		})
	}
}

func TestDecode_NegativeVersion(t *testing.T) {
	_, version, err := Decode(`{"version":-1,"hotspots":[]}`)
	assert.Equal(t, -1, version)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_EnvelopeWithoutVersion(t *testing.T) {
	records, version, err := Decode(`{"hotspots":[{"id":"h1"}]}`)
	require.NoError(t, err)
	assert.Zero(t, version)
	require.Len(t, records, 1)
}

func TestEmergency_Defaults(t *testing.T) {
	r := Emergency(&core.Hotspot{ID: "h1", SceneID: "s1", Title: "dropped", VideoURL: "x.mp4"})
	assert.Equal(t, core.DefaultType, r.Type)
	assert.Equal(t, core.DefaultWidth, r.Width)
	assert.Equal(t, core.DefaultHeight, r.Height)
	assert.Empty(t, r.Title)
	assert.False(t, r.HasVideo)
}
