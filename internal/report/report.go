// Package report defines check findings and the ordered report built from
// them. Findings never mutate the store; they are the tool's entire output.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/railwayhistory/raildata/internal/types"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding codes. Broken references and type mismatches come from the
// resolver, the rest from individual checks.
const (
	CodeBrokenReference = "BROKEN_REFERENCE"
	CodeTypeMismatch    = "TYPE_MISMATCH"
	CodeCheckInternal   = "CHECK_INTERNAL"
)

// Finding is one reported data-quality issue.
type Finding struct {
	Severity Severity     `json:"severity"`
	Check    string       `json:"check"`
	Code     string       `json:"code,omitempty"`
	Key      types.Key    `json:"key,omitempty"`
	Field    string       `json:"field,omitempty"`
	Origin   types.Origin `json:"origin,omitzero"`
	Message  string       `json:"message"`
}

func (f Finding) String() string {
	loc := f.Origin.String()
	if f.Key.IsEmpty() {
		return fmt.Sprintf("%s: %s: [%s] %s", loc, f.Severity, f.Check, f.Message)
	}
	if f.Field != "" {
		return fmt.Sprintf("%s: %s: [%s] %s: %s: %s", loc, f.Severity, f.Check, f.Key, f.Field, f.Message)
	}
	return fmt.Sprintf("%s: %s: [%s] %s: %s", loc, f.Severity, f.Check, f.Key, f.Message)
}

// Report is the ordered finding list for one run.
type Report struct {
	Snapshot uuid.UUID `json:"snapshot"`
	Findings []Finding `json:"findings"`
}

// Add appends findings in order.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Clean reports whether the run produced no findings at all.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0
}

// Count returns the number of findings with the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// WriteText renders the report as one finding per line plus a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	if r.Clean() {
		_, err := fmt.Fprintln(w, "ok: no findings")
		return err
	}
	_, err := fmt.Fprintf(w, "%d finding(s): %d error(s), %d warning(s)\n",
		len(r.Findings), r.Count(SeverityError), r.Count(SeverityWarning))
	return err
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
