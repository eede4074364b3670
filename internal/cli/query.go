package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railwayhistory/raildata/internal/resolve"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		cachePath string
		prefix    bool
	)

	cmd := &cobra.Command{
		Use:           "query <dataset-dir> <key>",
		Short:         "Look up a document by key or list keys by prefix",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], args[1], cachePath, prefix, cmd)
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "cache file path (empty disables caching)")
	cmd.Flags().BoolVar(&prefix, "prefix", false, "treat the key as a prefix and list matches")

	return cmd
}

func runQuery(opts *RootOptions, dir, key, cachePath string, prefix bool, cmd *cobra.Command) error {
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
	reader := s.Reader()

	if prefix {
		type match struct {
			Key string `json:"key"`
			ID  int    `json:"id"`
		}
		var matches []match
		for k, id := range reader.FindByPrefix(key) {
			matches = append(matches, match{Key: k.String(), ID: int(id)})
		}
		if opts.Format == "json" {
			return formatter.Success(matches)
		}
		for _, m := range matches {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", m.Key, m.ID)
		}
		return nil
	}

	doc, ok := reader.GetByKey(key)
	if !ok {
		formatter.Error("NOT_FOUND", fmt.Sprintf("no document with key %q", key), nil)
		return NewExitError(ExitFindings, "not found")
	}
	if opts.Format == "json" {
		return formatter.Success(doc)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
