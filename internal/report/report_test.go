package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/types"
)

func TestFindingString(t *testing.T) {
	tests := []struct {
		name    string
		finding report.Finding
		want    string
	}{
		{
			name: "key and field",
			finding: report.Finding{
				Severity: report.SeverityError,
				Check:    "resolve",
				Key:      "de.1",
				Field:    "points[1]",
				Origin:   types.Origin{Path: "lines/de.yaml", Line: 12, Col: 5},
				Message:  `unresolved reference to "pt.x"`,
			},
			want: `lines/de.yaml:12:5: error: [resolve] de.1: points[1]: unresolved reference to "pt.x"`,
		},
		{
			name: "key only",
			finding: report.Finding{
				Severity: report.SeverityWarning,
				Check:    "progress",
				Key:      "de.1",
				Origin:   types.Origin{Path: "lines/de.yaml"},
				Message:  "complete line without events",
			},
			want: "lines/de.yaml: warning: [progress] de.1: complete line without events",
		},
		{
			name: "no key",
			finding: report.Finding{
				Severity: report.SeverityError,
				Check:    "explodes",
				Code:     report.CodeCheckInternal,
				Message:  "check failed internally: boom",
			},
			want: "<unknown>: error: [explodes] check failed internally: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.finding.String())
		})
	}
}

func TestWriteText(t *testing.T) {
	var r report.Report
	r.Add(
		report.Finding{Severity: report.SeverityError, Check: "resolve", Key: "a", Message: "m1"},
		report.Finding{Severity: report.SeverityWarning, Check: "dates", Key: "b", Message: "m2"},
		report.Finding{Severity: report.SeverityWarning, Check: "dates", Key: "c", Message: "m3"},
	)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), "3 finding(s): 1 error(s), 2 warning(s)\n")
	assert.False(t, r.Clean())
	assert.Equal(t, 1, r.Count(report.SeverityError))
	assert.Equal(t, 2, r.Count(report.SeverityWarning))
}

func TestWriteTextClean(t *testing.T) {
	var r report.Report
	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Equal(t, "ok: no findings\n", buf.String())
	assert.True(t, r.Clean())
}

func TestWriteJSON(t *testing.T) {
	var r report.Report
	r.Add(report.Finding{
		Severity: report.SeverityError,
		Check:    "resolve",
		Code:     report.CodeBrokenReference,
		Key:      "de.1",
		Field:    "points[0]",
		Message:  "gone",
	})

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Findings, 1)
	assert.Equal(t, report.CodeBrokenReference, decoded.Findings[0].Code)
	assert.Equal(t, types.Key("de.1"), decoded.Findings[0].Key)
}
