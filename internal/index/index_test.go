package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/types"
)

func build(t *testing.T, keys ...string) *Index {
	t.Helper()
	ix := New()
	for i, k := range keys {
		err := ix.Insert(types.MakeKey(k), document.DocID(i), types.Origin{Path: "a.yaml", Line: i + 1})
		require.NoError(t, err)
	}
	ix.Freeze()
	return ix
}

func TestInsertRejectsDuplicates(t *testing.T) {
	ix := New()
	first := types.Origin{Path: "a.yaml", Line: 3}
	second := types.Origin{Path: "b.yaml", Line: 9}
	require.NoError(t, ix.Insert("berlin-hbf", 0, first))

	err := ix.Insert("berlin-hbf", 1, second)
	require.Error(t, err)
	dup, ok := err.(*DuplicateError)
	require.True(t, ok)
	assert.Equal(t, types.Key("berlin-hbf"), dup.Key)
	assert.Equal(t, first, dup.First)
	assert.Equal(t, second, dup.Second)
	assert.Contains(t, dup.Error(), "a.yaml:3")
}

func TestInsertRejectsNormalizedDuplicates(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Insert(types.MakeKey("münchen"), 0, types.Origin{}))
	err := ix.Insert(types.MakeKey("münchen"), 1, types.Origin{})
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	ix := build(t, "de.1", "de.2")
	id, ok := ix.Get("de.2")
	require.True(t, ok)
	assert.Equal(t, document.DocID(1), id)

	_, ok = ix.Get("de.3")
	assert.False(t, ok)
}

func TestByPrefixOrderAndBounds(t *testing.T) {
	ix := build(t, "de.20", "at.1", "de.1", "ch.5", "de.10")

	var keys []types.Key
	for k, id := range ix.ByPrefix("de.") {
		keys = append(keys, k)
		got, ok := ix.Get(k)
		require.True(t, ok)
		assert.Equal(t, got, id)
	}
	assert.Equal(t, []types.Key{"de.1", "de.10", "de.20"}, keys)
}

func TestByPrefixIsLazy(t *testing.T) {
	ix := build(t, "a.1", "a.2", "a.3")
	count := 0
	for range ix.ByPrefix("a.") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestByPrefixEmptyPrefixListsAll(t *testing.T) {
	ix := build(t, "b", "a", "c")
	var keys []types.Key
	for k := range ix.ByPrefix("") {
		keys = append(keys, k)
	}
	assert.Equal(t, []types.Key{"a", "b", "c"}, keys)
}

func TestNearestSuggestions(t *testing.T) {
	ix := build(t, "munich-hbf", "munich-ost-bf", "munich-sued", "berlin-hbf")

	nearest := ix.Nearest("munich-ost", 3)
	require.NotEmpty(t, nearest)
	assert.Contains(t, nearest, types.Key("munich-ost-bf"))

	// A completely foreign key still terminates.
	assert.NotPanics(t, func() { ix.Nearest("zzz", 3) })
}

func TestNearestSuggestionsUseKeyOrder(t *testing.T) {
	ix := build(t, "line.10", "line.2", "line.3")

	nearest := ix.Nearest("line.5", 3)
	assert.Equal(t, []types.Key{"line.2", "line.3", "line.10"}, nearest)
}

func TestInsertAfterFreezePanics(t *testing.T) {
	ix := build(t, "a")
	assert.Panics(t, func() {
		_ = ix.Insert("b", 1, types.Origin{})
	})
}
