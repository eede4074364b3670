package check

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// LinkTargets verifies every resolved link: the target identifier must
// point at a live document of the expected kind. Links also arrive via
// decoded cache artifacts, so they are verified here independently of the
// resolver.
type LinkTargets struct{}

func (LinkTargets) Name() string { return "link-targets" }

func (LinkTargets) Run(s *store.Store) []report.Finding {
	var findings []report.Finding
	for _, doc := range s.Documents() {
		doc.EachReference(func(slot document.Slot) {
			ref := slot.Ref
			if !ref.Resolved() {
				return
			}
			if int(ref.ID) < 0 || int(ref.ID) >= s.Len() {
				findings = append(findings, report.Finding{
					Severity: report.SeverityError,
					Code:     report.CodeBrokenReference,
					Key:      doc.Key,
					Field:    slot.Field,
					Origin:   ref.Origin,
					Message:  fmt.Sprintf("link to %q has dangling identifier %d", ref.Key, ref.ID),
				})
				return
			}
			target := s.Get(ref.ID)
			if target.Kind != slot.Want {
				findings = append(findings, report.Finding{
					Severity: report.SeverityError,
					Code:     report.CodeTypeMismatch,
					Key:      doc.Key,
					Field:    slot.Field,
					Origin:   ref.Origin,
					Message: fmt.Sprintf("link to %q is a %s document, want %s",
						ref.Key, target.Kind, slot.Want),
				})
			}
		})
	}
	return findings
}
