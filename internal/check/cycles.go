package check

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// OrgCycles verifies that organization superior and successor chains are
// acyclic. The reference graph at large may contain cycles; these two
// relations are hierarchies and must not.
type OrgCycles struct{}

func (OrgCycles) Name() string { return "org-cycles" }

func (OrgCycles) Run(s *store.Store) []report.Finding {
	succ := func(doc *document.Document) []document.DocID {
		org := doc.Organization
		var out []document.DocID
		if org.Superior != nil && org.Superior.Resolved() {
			out = append(out, org.Superior.ID)
		}
		for i := range org.Events {
			if r := org.Events[i].Successor; r != nil && r.Resolved() {
				out = append(out, r.ID)
			}
		}
		return out
	}
	return findCycles(s, document.KindOrganization, "superior/successor", succ)
}

// SourceLoops verifies that source collection chains are acyclic: following
// a source's containing collection must terminate.
type SourceLoops struct{}

func (SourceLoops) Name() string { return "source-loops" }

func (SourceLoops) Run(s *store.Store) []report.Finding {
	succ := func(doc *document.Document) []document.DocID {
		if r := doc.Source.Collection; r != nil && r.Resolved() {
			return []document.DocID{r.ID}
		}
		return nil
	}
	return findCycles(s, document.KindSource, "collection", succ)
}

// findCycles runs a three-color depth-first search over the sub-graph of
// one kind. One finding is reported per back edge, attributed to the
// document the edge leaves from; iteration in identifier order keeps the
// output deterministic.
func findCycles(
	s *store.Store,
	kind document.Kind,
	relation string,
	succ func(*document.Document) []document.DocID,
) []report.Finding {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, s.Len())
	var findings []report.Finding

	var visit func(id document.DocID)
	visit = func(id document.DocID) {
		color[id] = gray
		doc := s.Get(id)
		for _, next := range succ(doc) {
			target := s.Get(next)
			if target.Kind != kind {
				continue // wrong-kind links are the link-targets check's business
			}
			switch color[next] {
			case gray:
				findings = append(findings, report.Finding{
					Severity: report.SeverityError,
					Key:      doc.Key,
					Field:    relation,
					Origin:   doc.Origin,
					Message: fmt.Sprintf("%s chain through %q loops back to %q",
						relation, doc.Key, target.Key),
				})
			case white:
				visit(next)
			}
		}
		color[id] = black
	}

	for id, doc := range s.Documents() {
		if doc.Kind == kind && color[id] == white {
			visit(id)
		}
	}
	return findings
}
