package overlay_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/overlay"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.db")
	entries := []overlay.Entry{
		{ID: "osm:n123", Lat: 52.5251, Lon: 13.3694, Attrs: map[string]string{"name": "Berlin Hbf"}},
		{ID: "osm:n456", Lat: 48.1402, Lon: 11.5601},
	}
	require.NoError(t, overlay.Create(path, entries))

	ov, err := overlay.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ov.Len())

	got, ok := ov.Position("osm:n123")
	require.True(t, ok)
	assert.Equal(t, entries[0], got)

	got, ok = ov.Position("osm:n456")
	require.True(t, ok)
	assert.Nil(t, got.Attrs)

	_, ok = ov.Position("osm:n789")
	assert.False(t, ok)
}

func TestCreateReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.db")
	require.NoError(t, overlay.Create(path, []overlay.Entry{{ID: "a", Lat: 1, Lon: 2}}))
	require.NoError(t, overlay.Create(path, []overlay.Entry{{ID: "a", Lat: 3, Lon: 4}}))

	ov, err := overlay.Open(path)
	require.NoError(t, err)
	got, ok := ov.Position("a")
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Lat)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := overlay.Open(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}
