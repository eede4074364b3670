package store

import (
	"iter"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/types"
)

// Reader is the read-only query facade over one store. It is the only
// surface the network lookup service and the report renderer see, so a
// narrow handle can be passed around while the store type itself stays
// internal to the load pipeline. Copies share the same immutable store.
type Reader struct {
	s *Store
}

// Reader returns the query facade for the store.
func (s *Store) Reader() Reader {
	return Reader{s: s}
}

// GetByKey returns the document with the given key, if any. The key is
// normalized before lookup.
func (r Reader) GetByKey(key string) (*document.Document, bool) {
	return r.s.ByKey(types.MakeKey(key))
}

// GetByID returns the document for a dense identifier.
func (r Reader) GetByID(id document.DocID) *document.Document {
	return r.s.Get(id)
}

// FindByPrefix iterates (key, id) pairs with the given key prefix in key
// order.
func (r Reader) FindByPrefix(prefix string) iter.Seq2[types.Key, document.DocID] {
	return r.s.Index().ByPrefix(prefix)
}

// Len returns the number of documents in the snapshot.
func (r Reader) Len() int {
	return r.s.Len()
}
