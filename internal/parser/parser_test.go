package parser

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestNewParser(t *testing.T) {
	require.NotNil(t, NewParser(nil))
}

func TestParseID(t *testing.T) {
	p := newTestParser()

	id, err := p.ParseID([]string{`"hotspot_1"`})
	require.NoError(t, err)
	assert.Equal(t, "hotspot_1", id)

	_, err = p.ParseID(nil)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = p.ParseID([]string{`""`})
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestParseScene(t *testing.T) {
	p := newTestParser()

	s, err := p.ParseScene([]string{"lobby", `name="Main lobby"`, "panorama=lobby.jpg"})
	require.NoError(t, err)
	assert.Equal(t, core.Scene{ID: "lobby", Name: "Main lobby", Panorama: "lobby.jpg"}, s)

	s, err = p.ParseScene([]string{"hall"})
	require.NoError(t, err)
	assert.Equal(t, "hall", s.Name)

	_, err = p.ParseScene(nil)
	assert.Error(t, err)
}

func TestParseSceneAnchor(t *testing.T) {
	p := newTestParser()

	id, lon, lat, err := p.ParseSceneAnchor([]string{"lobby", "13.4,52.5"})
	require.NoError(t, err)
	assert.Equal(t, "lobby", id)
	assert.Equal(t, 13.4, lon)
	assert.Equal(t, 52.5, lat)

	_, _, _, err = p.ParseSceneAnchor([]string{"lobby", "500,0"})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	_, _, _, err = p.ParseSceneAnchor([]string{"lobby"})
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestParseHotspotAdd(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, sceneID string, hd core.HotspotData)
		wantErr bool
	}{
		{
			name:  "string position",
			input: []string{"lobby", "type=hotspot", `position="1 2 3"`, `title="Front door"`, "target=hall"},
			check: func(t *testing.T, sceneID string, hd core.HotspotData) {
				assert.Equal(t, "lobby", sceneID)
				assert.Equal(t, core.TypeHotspot, hd.Type)
				assert.Equal(t, "1 2 3", hd.Position)
				assert.Equal(t, "Front door", hd.Title)
				assert.Equal(t, "hall", hd.TargetSceneID)
			},
		},
		{
			name:  "json position",
			input: []string{"lobby", `pos={"x":"5","y":0,"z":0}`},
			check: func(t *testing.T, _ string, hd core.HotspotData) {
				m, ok := hd.Position.(map[string]any)
				require.True(t, ok, "got %T", hd.Position)
				assert.Equal(t, "5", m["x"])
				assert.Equal(t, json.Number("0"), m["y"])
				assert.Equal(t, core.Position3D{X: 5}, geo.Normalize(hd.Position))
			},
		},
		{
			name:  "dimensions and media",
			input: []string{"lobby", "type=video-area", "width=3", "height=2.5", "size=1.2", "video=https://x/v.mp4", "color=#fff"},
			check: func(t *testing.T, _ string, hd core.HotspotData) {
				assert.Equal(t, 3.0, hd.Width)
				assert.Equal(t, 2.5, hd.Height)
				assert.Equal(t, 1.2, hd.Size)
				assert.Equal(t, "https://x/v.mp4", hd.VideoURL)
				assert.Equal(t, "#fff", hd.Color)
			},
		},
		{
			name:  "no position",
			input: []string{"lobby"},
			check: func(t *testing.T, _ string, hd core.HotspotData) {
				assert.Nil(t, hd.Position)
			},
		},
		{
			name:    "bad width",
			input:   []string{"lobby", "width=wide"},
			wantErr: true,
		},
		{
			name:    "missing scene",
			input:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sceneID, hd, err := p.ParseHotspotAdd(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, sceneID, hd)
		})
	}
}

func TestParseHotspotPatch(t *testing.T) {
	p := newTestParser()

	id, patch, err := p.ParseHotspotPatch([]string{"h1", `title="New"`, "width=4", "position=1,1,1"})
	require.NoError(t, err)
	assert.Equal(t, "h1", id)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "New", *patch.Title)
	require.NotNil(t, patch.Width)
	assert.Equal(t, 4.0, *patch.Width)
	assert.Equal(t, "1,1,1", patch.Position)
	assert.Nil(t, patch.Height)
	assert.Nil(t, patch.Color)

	_, _, err = p.ParseHotspotPatch([]string{"h1", "size=big"})
	assert.Error(t, err)
}

func TestParseHotspotMove(t *testing.T) {
	p := newTestParser()

	id, pos, err := p.ParseHotspotMove([]string{"h1", "1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, "h1", id)
	assert.Equal(t, "1 2 3", pos)

	_, pos, err = p.ParseHotspotMove([]string{"h1", `"4 5 6"`})
	require.NoError(t, err)
	assert.Equal(t, core.Position3D{X: 4, Y: 5, Z: 6}, geo.Normalize(pos))

	_, pos, err = p.ParseHotspotMove([]string{"h1", "[7,8,9]"})
	require.NoError(t, err)
	assert.Equal(t, core.Position3D{X: 7, Y: 8, Z: 9}, geo.Normalize(pos))

	_, _, err = p.ParseHotspotMove([]string{"h1"})
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestParseResupply(t *testing.T) {
	p := newTestParser()

	id, url, err := p.ParseResupply([]string{"h1", "https://x/v.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "h1", id)
	assert.Equal(t, "https://x/v.mp4", url)

	_, _, err = p.ParseResupply([]string{"h1"})
	assert.Error(t, err)
}

func TestParseSettings(t *testing.T) {
	p := newTestParser()
	base := core.Settings{HotspotSize: 1, InfopointSize: 0.8, HotspotColor: "#2196F3", InfopointColor: "#4CAF50"}

	s, err := p.ParseSettings([]string{"hotspotSize=1.5", "infopointColor=#000"}, base)
	require.NoError(t, err)
	assert.Equal(t, 1.5, s.HotspotSize)
	assert.Equal(t, 0.8, s.InfopointSize)
	assert.Equal(t, "#2196F3", s.HotspotColor)
	assert.Equal(t, "#000", s.InfopointColor)

	s, err = p.ParseSettings([]string{"infopointSize=tiny"}, base)
	assert.Error(t, err)
	assert.Equal(t, base, s)
}
