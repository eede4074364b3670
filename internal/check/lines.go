package check

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// LineEndpoints verifies line topology basics: a line needs at least two
// points to have endpoints, and consecutive point references must not repeat.
type LineEndpoints struct{}

func (LineEndpoints) Name() string { return "line-endpoints" }

func (LineEndpoints) Run(s *store.Store) []report.Finding {
	var findings []report.Finding
	for _, doc := range s.Documents() {
		if doc.Kind != document.KindLine {
			continue
		}
		line := doc.Line
		if len(line.Points) < 2 {
			findings = append(findings, report.Finding{
				Severity: report.SeverityWarning,
				Key:      doc.Key,
				Field:    "points",
				Origin:   doc.Origin,
				Message:  fmt.Sprintf("line has %d point(s), need at least 2", len(line.Points)),
			})
			continue
		}
		for i := 1; i < len(line.Points); i++ {
			if line.Points[i].Key == line.Points[i-1].Key {
				findings = append(findings, report.Finding{
					Severity: report.SeverityWarning,
					Key:      doc.Key,
					Field:    fmt.Sprintf("points[%d]", i),
					Origin:   line.Points[i].Origin,
					Message:  fmt.Sprintf("point %q repeats its predecessor", line.Points[i].Key),
				})
			}
		}
	}
	return findings
}
