// Package resolve rewrites symbolic references into direct links.
//
// Resolution is a single pass over already-loaded data; it never re-reads
// input. Every unresolved reference is looked up in the key index exactly
// once and either rewritten to the target's identifier or reported as a
// broken-reference finding. References that resolve to a document of the
// wrong kind are linked anyway and reported as type mismatches, so that the
// check engine's own kind check sees the same graph the resolver saw.
//
// Self-references and cycles are permitted: the resolver validates existence
// only, never paths. Cycle detection belongs to the check engine.
//
// Running Resolve over an already-resolved store leaves every link as it is
// and rebuilds only the derived back-links, so resolution is idempotent.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// CheckName tags resolver findings in the report.
const CheckName = "resolve"

// maxSuggestions bounds the nearest-key hints on a broken reference.
const maxSuggestions = 3

// Resolve links every symbolic reference in every document of s and returns
// the broken-reference and type-mismatch findings, in document identifier
// order. On return the store is marked resolved.
func Resolve(s *store.Store) []report.Finding {
	var findings []report.Finding
	for id, doc := range s.Documents() {
		findings = append(findings, resolveDocument(s, id, doc)...)
	}
	crosslink(s)
	s.MarkResolved()
	return findings
}

func resolveDocument(s *store.Store, id document.DocID, doc *document.Document) []report.Finding {
	var findings []report.Finding
	doc.EachReference(func(slot document.Slot) {
		ref := slot.Ref
		if !ref.Resolved() {
			target, ok := s.ID(ref.Key)
			if !ok {
				findings = append(findings, brokenReference(s, doc, slot))
				return
			}
			ref.ID = target
		}
		if got := s.Get(ref.ID).Kind; got != slot.Want {
			findings = append(findings, report.Finding{
				Severity: report.SeverityError,
				Check:    CheckName,
				Code:     report.CodeTypeMismatch,
				Key:      doc.Key,
				Field:    slot.Field,
				Origin:   ref.Origin,
				Message: fmt.Sprintf("reference %q resolves to a %s document, want %s",
					ref.Key, got, slot.Want),
			})
		}
	})
	return findings
}

func brokenReference(s *store.Store, doc *document.Document, slot document.Slot) report.Finding {
	msg := fmt.Sprintf("unresolved reference to %q", slot.Ref.Key)
	if nearest := s.Index().Nearest(slot.Ref.Key, maxSuggestions); len(nearest) > 0 {
		quoted := make([]string, len(nearest))
		for i, key := range nearest {
			quoted[i] = fmt.Sprintf("%q", key)
		}
		msg += fmt.Sprintf(" (nearest keys: %s)", strings.Join(quoted, ", "))
	}
	return report.Finding{
		Severity: report.SeverityError,
		Check:    CheckName,
		Code:     report.CodeBrokenReference,
		Key:      doc.Key,
		Field:    slot.Field,
		Origin:   slot.Ref.Origin,
		Message:  msg,
	}
}

// crosslink rebuilds the derived back-links from scratch: the lines serving
// each point and the point-to-point connection sets. Rebuilding rather than
// appending keeps repeated resolution runs convergent.
func crosslink(s *store.Store) {
	lines := make(map[document.DocID][]document.DocID)
	connections := make(map[document.DocID]map[document.DocID]bool)
	connect := func(a, b document.DocID) {
		if connections[a] == nil {
			connections[a] = make(map[document.DocID]bool)
		}
		connections[a][b] = true
	}

	for id, doc := range s.Documents() {
		switch doc.Kind {
		case document.KindLine:
			for i := range doc.Line.Points {
				ref := &doc.Line.Points[i]
				if ref.Resolved() && s.Get(ref.ID).Kind == document.KindPoint {
					lines[ref.ID] = appendUnique(lines[ref.ID], id)
				}
			}
		case document.KindPoint:
			for i := range doc.Point.Events {
				for j := range doc.Point.Events[i].Connections {
					ref := &doc.Point.Events[i].Connections[j]
					if ref.Resolved() && s.Get(ref.ID).Kind == document.KindPoint {
						connect(id, ref.ID)
						connect(ref.ID, id)
					}
				}
			}
		}
	}

	for id, doc := range s.Documents() {
		if doc.Kind != document.KindPoint {
			continue
		}
		doc.Point.Lines = lines[id]
		doc.Point.Connections = sortedIDs(connections[id])
	}
}

func appendUnique(ids []document.DocID, id document.DocID) []document.DocID {
	for _, have := range ids {
		if have == id {
			return ids
		}
	}
	return append(ids, id)
}

func sortedIDs(set map[document.DocID]bool) []document.DocID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]document.DocID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
