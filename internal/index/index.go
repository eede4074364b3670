// Package index maps document keys to dense document identifiers.
//
// The index is built once, single-threaded, during the load phase and then
// frozen. After Freeze it supports exact lookup and lazy in-order prefix
// iteration; both are safe for concurrent readers because nothing mutates a
// frozen index.
package index

import (
	"fmt"
	"iter"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/types"
)

// Index maps keys to document identifiers.
type Index struct {
	entries map[types.Key]entry
	sorted  []types.Key
	frozen  bool
}

type entry struct {
	id     document.DocID
	origin types.Origin
}

// New returns an empty, unfrozen index.
func New() *Index {
	return &Index{entries: make(map[types.Key]entry)}
}

// Insert adds a key. A key that is already present is rejected with a
// *DuplicateError naming both definitions. Insert panics if the index has
// been frozen; population is strictly a load-phase activity.
func (ix *Index) Insert(key types.Key, id document.DocID, origin types.Origin) error {
	if ix.frozen {
		panic("index: insert after freeze")
	}
	if prev, ok := ix.entries[key]; ok {
		return &DuplicateError{Key: key, First: prev.origin, Second: origin}
	}
	ix.entries[key] = entry{id: id, origin: origin}
	return nil
}

// Freeze sorts the key set and closes the index for mutation. Idempotent.
func (ix *Index) Freeze() {
	if ix.frozen {
		return
	}
	ix.sorted = make([]types.Key, 0, len(ix.entries))
	for key := range ix.entries {
		ix.sorted = append(ix.sorted, key)
	}
	sort.Slice(ix.sorted, func(i, j int) bool {
		return ix.sorted[i] < ix.sorted[j]
	})
	ix.frozen = true
}

// Get returns the identifier for key.
func (ix *Index) Get(key types.Key) (document.DocID, bool) {
	e, ok := ix.entries[key]
	return e.id, ok
}

// Len returns the number of keys.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// ByPrefix iterates all (key, id) pairs whose key starts with prefix, in
// lexical key order. The prefix is NFC-normalized first. The sequence is
// lazy: breaking out of the range loop stops the scan. Requires Freeze.
func (ix *Index) ByPrefix(prefix string) iter.Seq2[types.Key, document.DocID] {
	if !ix.frozen {
		panic("index: prefix lookup before freeze")
	}
	p := norm.NFC.String(prefix)
	return func(yield func(types.Key, document.DocID) bool) {
		start := sort.Search(len(ix.sorted), func(i int) bool {
			return string(ix.sorted[i]) >= p
		})
		for _, key := range ix.sorted[start:] {
			if !key.HasPrefix(p) {
				return
			}
			if !yield(key, ix.entries[key].id) {
				return
			}
		}
	}
}

// Nearest suggests up to max existing keys close to a missing one, for
// broken-reference diagnostics. It walks progressively shorter prefixes of
// the missing key until something matches. Suggestions come back in the
// dataset's key order, so "line.2" precedes "line.10".
func (ix *Index) Nearest(missing types.Key, max int) []types.Key {
	if max <= 0 {
		return nil
	}
	prefix := string(missing)
	for len(prefix) > 0 {
		var found []types.Key
		for key := range ix.ByPrefix(prefix) {
			if key == missing {
				continue
			}
			found = append(found, key)
			if len(found) == max {
				break
			}
		}
		if len(found) > 0 {
			sort.Slice(found, func(i, j int) bool {
				return found[i].Less(found[j])
			})
			return found
		}
		prefix = prefix[:len(prefix)-1]
	}
	return nil
}

// DuplicateError reports two documents claiming the same key.
type DuplicateError struct {
	Key    types.Key
	First  types.Origin
	Second types.Origin
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: DUPLICATE_KEY: duplicate document %q, first defined at %s",
		e.Second, e.Key, e.First)
}
