package store

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/index"
	"github.com/railwayhistory/raildata/internal/parse"
)

// LoadOptions tunes the load phase.
type LoadOptions struct {
	// Workers is the parse worker pool size; 0 means GOMAXPROCS.
	Workers int
}

type parsed struct {
	doc  *document.Document
	errs []error
}

// Load parses all records and builds a store. The returned error, if any,
// is a *LoadError aggregating every structural parse error and duplicate-key
// error found across the whole input; on error no store is built.
func Load(records []parse.Record, opts LoadOptions) (*Store, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(records) && len(records) > 0 {
		workers = len(records)
	}

	// Parse in parallel. Results land in a slice indexed by input position,
	// so identifier assignment below is independent of worker scheduling.
	results := make([]parsed, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				doc, errs := parse.ParseRecord(records[i])
				results[i] = parsed{doc: doc, errs: errs}
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Collect: assign identifiers in input order and populate the index.
	// Any error anywhere rejects the whole load.
	var loadErrs []error
	docs := make([]*document.Document, 0, len(records))
	ix := index.New()
	for _, res := range results {
		loadErrs = append(loadErrs, res.errs...)
		if res.doc == nil || len(res.errs) > 0 {
			continue
		}
		id := document.DocID(len(docs))
		if err := ix.Insert(res.doc.Key, id, res.doc.Origin); err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		docs = append(docs, res.doc)
	}
	if len(loadErrs) > 0 {
		return nil, &LoadError{Errs: loadErrs}
	}
	ix.Freeze()

	return &Store{snapshot: snapshotID(docs), docs: docs, index: ix}, nil
}

// snapshotID derives the snapshot's identity from the parsed content, so
// loading the same input twice yields the same identity and byte-identical
// cache artifacts regardless of worker count.
func snapshotID(docs []*document.Document) uuid.UUID {
	h := blake3.New(32, nil)
	enc := json.NewEncoder(h)
	for _, doc := range docs {
		// Documents marshal deterministically: fixed field order, sorted
		// map keys. Encoding errors cannot happen for our types.
		_ = enc.Encode(doc)
	}
	var sum [32]byte
	h.Sum(sum[:0])
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		panic(err)
	}
	return id
}

// LoadError aggregates everything that went wrong during one load.
type LoadError struct {
	Errs []error
}

// Error implements the error interface. It lists every underlying error,
// one per line, after a summary count.
func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load failed with %d error(s):", len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Duplicates returns the duplicate-key errors within the aggregate.
func (e *LoadError) Duplicates() []*index.DuplicateError {
	var dups []*index.DuplicateError
	for _, err := range e.Errs {
		if dup, ok := err.(*index.DuplicateError); ok {
			dups = append(dups, dup)
		}
	}
	return dups
}
