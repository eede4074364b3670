package check

import (
	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// Progress flags documents the maintainers marked complete that still lack
// the substance a complete document needs.
type Progress struct{}

func (Progress) Name() string { return "progress" }

func (Progress) Run(s *store.Store) []report.Finding {
	var findings []report.Finding
	flag := func(doc *document.Document, field, message string) {
		findings = append(findings, report.Finding{
			Severity: report.SeverityWarning,
			Key:      doc.Key,
			Field:    field,
			Origin:   doc.Origin,
			Message:  message,
		})
	}

	for _, doc := range s.Documents() {
		if doc.Progress != document.ProgressComplete {
			continue
		}
		switch doc.Kind {
		case document.KindLine:
			if len(doc.Line.Points) == 0 {
				flag(doc, "points", "complete line without points")
			}
			if len(doc.Line.Events) == 0 {
				flag(doc, "events", "complete line without events")
			}
		case document.KindPoint:
			if len(doc.Point.Events) == 0 {
				flag(doc, "events", "complete point without events")
			}
		case document.KindOrganization:
			if doc.Organization.CurrentName() == nil {
				flag(doc, "events", "complete organization without a name")
			}
		case document.KindSource:
			if doc.Source.Title == "" {
				flag(doc, "title", "complete source without a title")
			}
		case document.KindStructure:
			if doc.Structure.Line == nil {
				flag(doc, "line", "complete structure without a line")
			}
			if len(doc.Structure.Events) == 0 {
				flag(doc, "events", "complete structure without events")
			}
		}
	}
	return findings
}
