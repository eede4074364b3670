package store

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/index"
	"github.com/railwayhistory/raildata/internal/types"
)

// Store is the complete set of documents of one loaded dataset snapshot,
// plus the key index over them.
type Store struct {
	snapshot uuid.UUID
	docs     []*document.Document
	index    *index.Index
	resolved bool
}

// Snapshot returns the identity of this load. It is stamped into the cache
// header and the check report so runs can be correlated.
func (s *Store) Snapshot() uuid.UUID { return s.snapshot }

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.docs) }

// Get returns the document for a dense identifier. Identifiers handed out
// by this store are always valid; an out-of-range identifier is a caller
// bug and panics.
func (s *Store) Get(id document.DocID) *document.Document {
	if id < 0 || int(id) >= len(s.docs) {
		panic(fmt.Sprintf("store: document id %d out of range [0,%d)", id, len(s.docs)))
	}
	return s.docs[id]
}

// ByKey returns the document with the given key, if any.
func (s *Store) ByKey(key types.Key) (*document.Document, bool) {
	id, ok := s.index.Get(key)
	if !ok {
		return nil, false
	}
	return s.docs[id], true
}

// ID returns the identifier for a key, if any.
func (s *Store) ID(key types.Key) (document.DocID, bool) {
	return s.index.Get(key)
}

// Index exposes the frozen key index.
func (s *Store) Index() *index.Index { return s.index }

// Documents iterates all documents in identifier order.
func (s *Store) Documents() iter.Seq2[document.DocID, *document.Document] {
	return func(yield func(document.DocID, *document.Document) bool) {
		for i, doc := range s.docs {
			if !yield(document.DocID(i), doc) {
				return
			}
		}
	}
}

// Resolved reports whether link resolution has run over this store.
func (s *Store) Resolved() bool { return s.resolved }

// MarkResolved is called by the resolver once its pass completes. From that
// point on the store is immutable.
func (s *Store) MarkResolved() { s.resolved = true }

// FromDocuments rebuilds a store from an already materialized document
// slice, re-deriving the key index. The cache codec uses this on decode;
// identifiers embedded in the documents' links are the slice positions and
// key uniqueness is re-validated rather than trusted.
func FromDocuments(snapshot uuid.UUID, docs []*document.Document, resolved bool) (*Store, error) {
	ix := index.New()
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if err := ix.Insert(doc.Key, document.DocID(i), doc.Origin); err != nil {
			return nil, err
		}
	}
	ix.Freeze()
	return &Store{snapshot: snapshot, docs: docs, index: ix, resolved: resolved}, nil
}
