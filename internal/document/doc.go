// Package document defines the typed model for railway-history records.
//
// A Document is a closed tagged union over the five record kinds the dataset
// knows: lines, points, organizations, sources, and structures. The union is
// a struct with a Kind tag and exactly one non-nil payload pointer; there is
// no interface hierarchy, so the set of kinds is fixed at compile time and a
// dense []*Document array can hold a whole store.
//
// References between documents start out symbolic (a Key naming the target)
// and become direct links (a DocID into the owning store) during resolution.
// Both states live in the same Ref value, so resolving is an in-place rewrite
// and running it twice is a no-op. Every payload knows how to enumerate its
// own reference slots; nothing in this package or its consumers reflects over
// struct fields to find them.
package document
