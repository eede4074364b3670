package document

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// Kind tags the variant of a document.
type Kind string

const (
	KindLine         Kind = "line"
	KindPoint        Kind = "point"
	KindOrganization Kind = "organization"
	KindSource       Kind = "source"
	KindStructure    Kind = "structure"
)

// Kinds lists all document kinds in canonical order.
var Kinds = []Kind{KindLine, KindPoint, KindOrganization, KindSource, KindStructure}

// ValidKinds defines the allowed kind tags.
var ValidKinds = map[Kind]bool{
	KindLine:         true,
	KindPoint:        true,
	KindOrganization: true,
	KindSource:       true,
	KindStructure:    true,
}

// Progress records how far along the maintainers consider a document.
type Progress string

const (
	ProgressStub       Progress = "stub"
	ProgressInProgress Progress = "in-progress"
	ProgressComplete   Progress = "complete"
)

// ValidProgress defines the allowed progress values.
var ValidProgress = map[Progress]bool{
	ProgressStub:       true,
	ProgressInProgress: true,
	ProgressComplete:   true,
}

// Status is the operational state a line, point, or structure event assigns.
type Status string

const (
	StatusPlanned      Status = "planned"
	StatusConstruction Status = "construction"
	StatusOpen         Status = "open"
	StatusSuspended    Status = "suspended"
	StatusReopened     Status = "reopened"
	StatusClosed       Status = "closed"
	StatusRemoved      Status = "removed"
)

// ValidStatus defines the allowed status values.
var ValidStatus = map[Status]bool{
	StatusPlanned:      true,
	StatusConstruction: true,
	StatusOpen:         true,
	StatusSuspended:    true,
	StatusReopened:     true,
	StatusClosed:       true,
	StatusRemoved:      true,
}

// Common holds the fields every document carries regardless of kind.
type Common struct {
	Key      types.Key    `json:"key"`
	Progress Progress     `json:"progress"`
	Origin   types.Origin `json:"origin,omitzero"`
	Sources  []Ref        `json:"sources,omitempty"`
	Note     string       `json:"note,omitempty"`
}

// Document is the closed tagged union over all record kinds. Exactly one
// payload pointer is non-nil and it matches Kind. Documents are created by
// the parser and never mutated after link resolution completes.
type Document struct {
	Common
	Kind Kind `json:"kind"`

	Line         *Line         `json:"line,omitempty"`
	Point        *Point        `json:"point,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	Source       *Source       `json:"source,omitempty"`
	Structure    *Structure    `json:"structure,omitempty"`
}

// payload is implemented by every kind-specific payload type.
type payload interface {
	refs(slots *refSlots)
}

func (d *Document) payload() payload {
	switch d.Kind {
	case KindLine:
		return d.Line
	case KindPoint:
		return d.Point
	case KindOrganization:
		return d.Organization
	case KindSource:
		return d.Source
	case KindStructure:
		return d.Structure
	}
	return nil
}

// Validate checks that the union is well formed: the kind tag is known and
// names the one non-nil payload.
func (d *Document) Validate() error {
	if !ValidKinds[d.Kind] {
		return fmt.Errorf("document %q: unknown kind %q", d.Key, d.Kind)
	}
	set := 0
	for _, p := range []bool{
		d.Line != nil, d.Point != nil, d.Organization != nil,
		d.Source != nil, d.Structure != nil,
	} {
		if p {
			set++
		}
	}
	if set != 1 || d.payload() == nil {
		return fmt.Errorf("document %q: kind %q does not match payload", d.Key, d.Kind)
	}
	return nil
}

// References enumerates every reference slot in the document, common fields
// first, then payload fields in declaration order. Enumeration order is
// deterministic so that resolution findings and cache bytes are reproducible.
// The yield function may mutate the slot's Ref; returning false stops early.
func (d *Document) References(yield func(Slot) bool) {
	slots := &refSlots{yield: yield}
	slots.list(d.Sources, "source", KindSource)
	if p := d.payload(); p != nil {
		p.refs(slots)
	}
}

// EachReference enumerates all reference slots without early exit.
func (d *Document) EachReference(f func(Slot)) {
	d.References(func(s Slot) bool {
		f(s)
		return true
	})
}
