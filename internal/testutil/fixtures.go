// Package testutil holds fixture builders shared by the package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/parse"
	"github.com/railwayhistory/raildata/internal/store"
)

// Fixture is one raw record for a test dataset.
type Fixture struct {
	Kind document.Kind
	YAML string
}

// Line, Point, Org, Source, and Structure wrap a YAML body with its kind.
func Line(yaml string) Fixture      { return Fixture{Kind: document.KindLine, YAML: yaml} }
func Point(yaml string) Fixture     { return Fixture{Kind: document.KindPoint, YAML: yaml} }
func Org(yaml string) Fixture       { return Fixture{Kind: document.KindOrganization, YAML: yaml} }
func Source(yaml string) Fixture    { return Fixture{Kind: document.KindSource, YAML: yaml} }
func Structure(yaml string) Fixture { return Fixture{Kind: document.KindStructure, YAML: yaml} }

// Records decodes fixtures into parse records, failing the test on invalid
// YAML.
func Records(t *testing.T, fixtures ...Fixture) []parse.Record {
	t.Helper()
	records := make([]parse.Record, 0, len(fixtures))
	for i, f := range fixtures {
		rec, err := parse.DecodeRecord(f.Kind, []byte(f.YAML), "fixture.yaml")
		require.NoError(t, err, "fixture %d", i)
		records = append(records, rec)
	}
	return records
}

// Load builds a store from fixtures, failing the test on any load error.
func Load(t *testing.T, fixtures ...Fixture) *store.Store {
	t.Helper()
	s, err := store.Load(Records(t, fixtures...), store.LoadOptions{})
	require.NoError(t, err)
	return s
}

// SimplePoint returns a minimal valid point record for the given key.
func SimplePoint(key string) Fixture {
	return Point("key: " + key + "\nsubtype: station\n")
}
