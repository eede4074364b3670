package cache_test

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/cache"
	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/resolve"
	"github.com/railwayhistory/raildata/internal/store"
	"github.com/railwayhistory/raildata/internal/testutil"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s := testutil.Load(t,
		testutil.SimplePoint("pt.a"),
		testutil.Point("key: pt.b\nsubtype: halt\nposition: {lat: 52.5, lon: 13.4}\n"),
		testutil.Org("key: org.db\nsubtype: company\nevents:\n  - date: \"1994-01-01\"\n    name: Deutsche Bahn AG\n"),
		testutil.Line("key: de.1\ncode: de.1\npoints: [pt.a, pt.b]\nevents:\n  - date: \"1900\"\n    status: open\n    operator: org.db\n"),
	)
	require.Empty(t, resolve.Resolve(s))
	return s
}

func TestRoundTrip(t *testing.T) {
	s := testStore(t)
	data, err := cache.Encode(s)
	require.NoError(t, err)

	got, err := cache.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, s.Snapshot(), got.Snapshot())
	assert.Equal(t, s.Len(), got.Len())
	assert.True(t, got.Resolved())

	// Field-for-field equality over every document.
	for id, want := range s.Documents() {
		assert.Equal(t, docJSON(t, want), docJSON(t, got.Get(id)))
	}

	// The rebuilt index answers the same lookups.
	id, ok := got.ID("de.1")
	require.True(t, ok)
	line := got.Get(id)
	require.Len(t, line.Line.Points, 2)
	assert.True(t, line.Line.Points[0].Resolved())
	assert.Equal(t, "pt.a", string(got.Get(line.Line.Points[0].ID).Key))
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := cache.Encode(testStore(t))
	require.NoError(t, err)
	b, err := cache.Encode(testStore(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeFailsClosed(t *testing.T) {
	valid, err := cache.Encode(testStore(t))
	require.NoError(t, err)

	tests := []struct {
		name    string
		mangle  func([]byte) []byte
		wantMsg string
	}{
		{
			name:    "truncated header",
			mangle:  func(b []byte) []byte { return b[:10] },
			wantMsg: "truncated header",
		},
		{
			name: "bad magic",
			mangle: func(b []byte) []byte {
				b[0] = 'X'
				return b
			},
			wantMsg: "bad magic",
		},
		{
			name: "unknown version",
			mangle: func(b []byte) []byte {
				binary.BigEndian.PutUint16(b[4:6], cache.FormatVersion+1)
				return b
			},
			wantMsg: "format version",
		},
		{
			name: "flipped payload bit",
			mangle: func(b []byte) []byte {
				b[len(b)-1] ^= 0x01
				return b
			},
			wantMsg: "checksum mismatch",
		},
		{
			name: "truncated payload",
			mangle: func(b []byte) []byte {
				return b[:len(b)-4]
			},
			wantMsg: "checksum mismatch",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mangle(append([]byte(nil), valid...))
			s, err := cache.Decode(data)
			assert.Nil(t, s)
			var corrupt *cache.CorruptError
			require.ErrorAs(t, err, &corrupt)
			assert.Contains(t, corrupt.Error(), tt.wantMsg)
		})
	}
}

func TestDecodeRejectsOutOfRangeLinks(t *testing.T) {
	// Negative identifiers other than the unresolved marker still count as
	// resolved and must not survive into a store the resolver will walk.
	for _, id := range []document.DocID{40, -5} {
		t.Run(fmt.Sprintf("id %d", id), func(t *testing.T) {
			s := testutil.Load(t,
				testutil.SimplePoint("pt.a"),
				testutil.Line("key: de.1\ncode: de.1\npoints: [pt.a, pt.a]\n"),
			)
			resolve.Resolve(s)
			line, _ := s.ByKey("de.1")
			line.Line.Points[1].ID = id

			data, err := cache.Encode(s)
			require.NoError(t, err)

			_, err = cache.Decode(data)
			var corrupt *cache.CorruptError
			require.ErrorAs(t, err, &corrupt)
			assert.Equal(t, "invalid link", corrupt.Reason)
		})
	}
}

func docJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
