package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/schema"
	"github.com/railwayhistory/raildata/internal/types"
)

func validator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidRecordsPass(t *testing.T) {
	v := validator(t)
	origin := types.Origin{Path: "test.yaml"}

	tests := []struct {
		name string
		kind document.Kind
		yaml string
	}{
		{
			name: "minimal point",
			kind: document.KindPoint,
			yaml: "key: pt.a\nsubtype: station\n",
		},
		{
			name: "line with events",
			kind: document.KindLine,
			yaml: "key: de.1\ncode: de.1\npoints: [pt.a, pt.b]\n" +
				"events:\n  - date: \"1900-05-01\"\n    status: open\n    operator: org.db\n",
		},
		{
			name: "organization",
			kind: document.KindOrganization,
			yaml: "key: org.db\nsubtype: company\nevents:\n  - name: Deutsche Bahn AG\n",
		},
		{
			name: "source",
			kind: document.KindSource,
			yaml: "key: src.a\nsubtype: book\ntitle: A Title\nauthor: org.someone\n",
		},
		{
			name: "structure",
			kind: document.KindStructure,
			yaml: "key: str.a\nsubtype: bridge\nlength: 120.5\nline: de.1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, v.ValidateYAML(tt.kind, []byte(tt.yaml), origin))
		})
	}
}

func TestInvalidRecordsFail(t *testing.T) {
	v := validator(t)
	origin := types.Origin{Path: "test.yaml"}

	tests := []struct {
		name string
		kind document.Kind
		yaml string
	}{
		{
			name: "unknown field",
			kind: document.KindPoint,
			yaml: "key: pt.a\nsubtype: station\nbogus: 1\n",
		},
		{
			name: "bad subtype",
			kind: document.KindPoint,
			yaml: "key: pt.a\nsubtype: castle\n",
		},
		{
			name: "bad progress",
			kind: document.KindPoint,
			yaml: "key: pt.a\nsubtype: station\nprogress: done\n",
		},
		{
			name: "non-string key",
			kind: document.KindPoint,
			yaml: "key: [1, 2]\nsubtype: station\n",
		},
		{
			name: "bad status in event",
			kind: document.KindLine,
			yaml: "key: de.1\ncode: de.1\nevents:\n  - status: demolished\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateYAML(tt.kind, []byte(tt.yaml), origin)
			require.NotEmpty(t, errs)
			for _, err := range errs {
				assert.ErrorContains(t, err, "STRUCTURAL_PARSE")
			}
		})
	}
}

func TestUnknownKind(t *testing.T) {
	v := validator(t)
	errs := v.Validate("castle", map[string]any{"key": "x"}, types.Origin{})
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "unknown document kind")
}

func TestBadYAML(t *testing.T) {
	v := validator(t)
	errs := v.ValidateYAML(document.KindPoint, []byte("key: [unclosed\n"), types.Origin{})
	require.NotEmpty(t, errs)
	assert.ErrorContains(t, errs[0], "invalid YAML")
}
