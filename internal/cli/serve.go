package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/resolve"
	"github.com/railwayhistory/raildata/internal/store"
)

// NewServeCommand creates the serve command: a minimal read-only HTTP JSON
// lookup over the query facade. The facade is the contract; everything
// here is just request framing.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		addr      string
		cachePath string
	)

	cmd := &cobra.Command{
		Use:           "serve <dataset-dir>",
		Short:         "Serve read-only key/id/prefix lookups over HTTP",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, args[0], addr, cachePath, cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8071", "listen address")
	cmd.Flags().StringVar(&cachePath, "cache", "", "cache file path (empty disables caching)")

	return cmd
}

func runServe(opts *RootOptions, dir, addr, cachePath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := LoadDataset(dir, LoaderOptions{
		Workers:   opts.Workers,
		CachePath: cachePath,
	}, formatter)
	if err != nil {
		return err
	}
	s := result.Store
	if !s.Resolved() {
		resolve.Resolve(s)
	}

	formatter.VerboseLog("serving %d document(s) on %s", s.Len(), addr)
	return http.ListenAndServe(addr, NewHandler(s.Reader()))
}

// NewHandler builds the lookup routes over a store reader.
func NewHandler(reader store.Reader) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /key/{key}", func(w http.ResponseWriter, r *http.Request) {
		doc, ok := reader.GetByKey(r.PathValue("key"))
		if !ok {
			writeError(w, http.StatusNotFound, "no such key")
			return
		}
		writeJSON(w, doc)
	})

	mux.HandleFunc("GET /id/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id < 0 || id >= reader.Len() {
			writeError(w, http.StatusNotFound, "no such id")
			return
		}
		writeJSON(w, reader.GetByID(document.DocID(id)))
	})

	mux.HandleFunc("GET /prefix/{prefix}", func(w http.ResponseWriter, r *http.Request) {
		type match struct {
			Key string `json:"key"`
			ID  int    `json:"id"`
		}
		matches := []match{}
		for k, id := range reader.FindByPrefix(r.PathValue("prefix")) {
			matches = append(matches, match{Key: k.String(), ID: int(id)})
		}
		writeJSON(w, matches)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
