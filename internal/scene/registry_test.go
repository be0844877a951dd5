package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colortour/hotspot-editor/internal/geo"
	"github.com/colortour/hotspot-editor/pkg/core"
)

func TestRegistry_AddAndGet(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Add(&core.Scene{ID: "lobby", Name: "Lobby"}))
	require.NoError(t, r.Add(&core.Scene{ID: "hall", Name: "Hall"}))

	s, ok := r.GetSceneByID("lobby")
	require.True(t, ok)
	assert.Equal(t, "Lobby", s.Name)

	_, ok = r.GetSceneByID("missing")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "lobby", all[0].ID)
	assert.Equal(t, "hall", all[1].ID)
}

func TestRegistry_AddRequiresID(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Add(&core.Scene{}))
	assert.Error(t, r.Add(nil))
}

func TestRegistry_AddReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&core.Scene{ID: "a", Name: "first"}))
	require.NoError(t, r.Add(&core.Scene{ID: "b"}))
	require.NoError(t, r.Add(&core.Scene{ID: "a", Name: "second"}))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Name)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&core.Scene{ID: "a"}))
	require.NoError(t, r.Add(&core.Scene{ID: "b"}))

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))

	all := r.All()
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestRegistry_SetAnchor(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&core.Scene{ID: "a"}))

	require.NoError(t, r.SetAnchor("a", 13.4, 52.5))
	s, _ := r.GetSceneByID("a")
	assert.True(t, s.HasAnchor)
	assert.Equal(t, 13.4, s.Longitude)

	wkt, err := r.AnchorWKT("a")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wkt, "POINT("), wkt)

	assert.ErrorIs(t, r.SetAnchor("a", 200, 0), geo.ErrInvalidCoordinates)
	assert.Error(t, r.SetAnchor("missing", 0, 0))
}

func TestRegistry_AnchorWKTWithoutAnchor(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&core.Scene{ID: "a"}))
	_, err := r.AnchorWKT("a")
	assert.Error(t, err)
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&core.Scene{ID: "a"}))
	r.Reset()
	assert.Empty(t, r.All())
}
