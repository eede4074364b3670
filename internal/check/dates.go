package check

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
	"github.com/railwayhistory/raildata/internal/types"
)

// DateOrder verifies that every document's event list is sorted by date.
// Undated events are allowed anywhere; only dated events must not move
// backwards in time.
type DateOrder struct{}

func (DateOrder) Name() string { return "date-order" }

func (DateOrder) Run(s *store.Store) []report.Finding {
	var findings []report.Finding
	for _, doc := range s.Documents() {
		dates := eventDates(doc)
		last := types.Date{}
		for i, d := range dates {
			if d.IsZero() {
				continue
			}
			if !last.IsZero() && d.Compare(last) < 0 {
				findings = append(findings, report.Finding{
					Severity: report.SeverityWarning,
					Key:      doc.Key,
					Field:    fmt.Sprintf("events[%d].date", i),
					Origin:   doc.Origin,
					Message:  fmt.Sprintf("event date %s precedes earlier event date %s", d, last),
				})
			}
			last = d
		}
	}
	return findings
}

func eventDates(doc *document.Document) []types.Date {
	switch doc.Kind {
	case document.KindLine:
		return collectDates(doc.Line.Events, func(e document.LineEvent) types.Date { return e.Date })
	case document.KindPoint:
		return collectDates(doc.Point.Events, func(e document.PointEvent) types.Date { return e.Date })
	case document.KindOrganization:
		return collectDates(doc.Organization.Events, func(e document.OrgEvent) types.Date { return e.Date })
	case document.KindStructure:
		return collectDates(doc.Structure.Events, func(e document.StructureEvent) types.Date { return e.Date })
	}
	return nil
}

func collectDates[E any](events []E, date func(E) types.Date) []types.Date {
	dates := make([]types.Date, len(events))
	for i, e := range events {
		dates[i] = date(e)
	}
	return dates
}
