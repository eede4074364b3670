package document

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// DocID is a process-local dense handle for a document within one loaded
// store. IDs are assigned in input order during load and are never persisted
// across runs except inside the cache, where they are re-validated on decode.
type DocID int32

// NoID marks an unresolved or absent document handle.
const NoID DocID = -1

// Ref is a reference from one document to another. Before resolution only
// Key is set; after resolution ID points at the target document. Role
// carries reference context such as "operator" or "owner" on organization
// references and survives resolution unchanged.
type Ref struct {
	Key    types.Key    `json:"key"`
	ID     DocID        `json:"id"`
	Role   string       `json:"role,omitempty"`
	Origin types.Origin `json:"origin,omitzero"`
}

// NewRef returns an unresolved reference to key.
func NewRef(key types.Key, origin types.Origin) Ref {
	return Ref{Key: key, ID: NoID, Origin: origin}
}

// NewRoleRef returns an unresolved reference carrying a role context.
func NewRoleRef(key types.Key, role string, origin types.Origin) Ref {
	return Ref{Key: key, ID: NoID, Role: role, Origin: origin}
}

// Resolved reports whether the reference has been rewritten into a link.
func (r *Ref) Resolved() bool { return r.ID != NoID }

func (r *Ref) String() string {
	if r.Role != "" {
		return fmt.Sprintf("%s (%s)", r.Key, r.Role)
	}
	return r.Key.String()
}

// Slot is one reference location inside a document, as produced by reference
// enumeration. Field is the dotted path of the holding field for diagnostics;
// Want is the document kind the reference must resolve to.
type Slot struct {
	Ref   *Ref
	Field string
	Want  Kind
}

// refSlots collects enumeration boilerplate shared by the payload types.
// yield follows the iterator convention: returning false stops enumeration.
type refSlots struct {
	yield func(Slot) bool
	done  bool
}

func (s *refSlots) one(ref *Ref, field string, want Kind) {
	if s.done || ref == nil {
		return
	}
	if !s.yield(Slot{Ref: ref, Field: field, Want: want}) {
		s.done = true
	}
}

func (s *refSlots) list(refs []Ref, field string, want Kind) {
	for i := range refs {
		if s.done {
			return
		}
		s.one(&refs[i], fmt.Sprintf("%s[%d]", field, i), want)
	}
}
