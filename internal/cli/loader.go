package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/railwayhistory/raildata/internal/cache"
	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/parse"
	"github.com/railwayhistory/raildata/internal/schema"
	"github.com/railwayhistory/raildata/internal/store"
	"github.com/railwayhistory/raildata/internal/types"
)

// kindDirs maps the dataset's type-named directories to document kinds.
var kindDirs = []struct {
	dir  string
	kind document.Kind
}{
	{"lines", document.KindLine},
	{"points", document.KindPoint},
	{"organizations", document.KindOrganization},
	{"sources", document.KindSource},
	{"structures", document.KindStructure},
}

// LoaderOptions tunes dataset loading.
type LoaderOptions struct {
	Workers    int
	CachePath  string // "" disables the cache
	SkipSchema bool   // skip CUE schema pre-validation
}

// LoadResult is a loaded dataset snapshot plus how it was obtained.
type LoadResult struct {
	Store     *store.Store
	FromCache bool
	FileCount int
}

// LoadDataset discovers the records under dir, consults the cache, and
// builds the store. A usable, fresh cache short-circuits parsing entirely;
// a corrupt or stale one silently falls back to the full parse. Load-fatal
// problems (structural errors, duplicate keys) come back as a
// *store.LoadError.
func LoadDataset(dir string, opts LoaderOptions, formatter *OutputFormatter) (*LoadResult, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("dataset directory %s not found", dir))
	}

	files, err := discover(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("no records found under %s", dir))
	}

	if opts.CachePath != "" {
		if s := tryCache(opts.CachePath, files, formatter); s != nil {
			return &LoadResult{Store: s, FromCache: true, FileCount: len(files)}, nil
		}
	}

	var validator *schema.Validator
	if !opts.SkipSchema {
		validator, err = schema.NewValidator()
		if err != nil {
			return nil, err
		}
	}

	var records []parse.Record
	var loadErrs []error
	for _, f := range files {
		raw, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		origin := types.Origin{Path: f.path}
		if validator != nil {
			loadErrs = append(loadErrs, validator.ValidateYAML(f.kind, raw, origin)...)
		}
		rec, err := parse.DecodeRecord(f.kind, raw, f.path)
		if err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		records = append(records, rec)
	}
	if len(loadErrs) > 0 {
		return nil, &store.LoadError{Errs: loadErrs}
	}

	s, err := store.Load(records, store.LoadOptions{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}
	formatter.VerboseLog("loaded %d document(s) from %d file(s)", s.Len(), len(files))
	return &LoadResult{Store: s, FileCount: len(files)}, nil
}

// SaveCache writes the resolved store's cache artifact. Failures are
// reported but never fatal; the cache is an optimization.
func SaveCache(s *store.Store, path string, formatter *OutputFormatter) {
	data, err := cache.Encode(s)
	if err != nil {
		formatter.VerboseLog("cache: encode failed: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		formatter.VerboseLog("cache: write failed: %v", err)
		return
	}
	formatter.VerboseLog("cache: wrote %s (%d bytes)", path, len(data))
}

type datasetFile struct {
	path string
	kind document.Kind
}

// discover lists every record file grouped by its type directory, in sorted
// path order so document identifiers are reproducible.
func discover(dir string) ([]datasetFile, error) {
	var files []datasetFile
	for _, kd := range kindDirs {
		pattern := filepath.Join(dir, kd.dir, "**", "*.yaml")
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			files = append(files, datasetFile{path: m, kind: kd.kind})
		}
	}
	return files, nil
}

// tryCache returns a store decoded from a fresh cache artifact, or nil when
// the cache is absent, stale, or corrupt.
func tryCache(path string, files []datasetFile, formatter *OutputFormatter) *store.Store {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if staleCache(info.ModTime(), files) {
		formatter.VerboseLog("cache: %s is stale", path)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		formatter.VerboseLog("cache: read failed: %v", err)
		return nil
	}
	s, err := cache.Decode(data)
	if err != nil {
		var corrupt *cache.CorruptError
		if errors.As(err, &corrupt) {
			formatter.VerboseLog("cache: %v; falling back to full parse", corrupt)
		}
		return nil
	}
	formatter.VerboseLog("cache: loaded %d document(s) from %s", s.Len(), path)
	return s
}

func staleCache(cacheTime time.Time, files []datasetFile) bool {
	for _, f := range files {
		info, err := os.Stat(f.path)
		if err != nil || info.ModTime().After(cacheTime) {
			return true
		}
	}
	return false
}
