package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/railwayhistory/raildata/internal/check"
	"github.com/railwayhistory/raildata/internal/overlay"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/resolve"
	"github.com/railwayhistory/raildata/internal/store"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		cachePath   string
		overlayPath string
		skipSchema  bool
	)

	cmd := &cobra.Command{
		Use:   "check <dataset-dir>",
		Short: "Load the dataset and report data-quality findings",
		Long: `Load the dataset, resolve all cross-references, and run the full check
battery. Exit status is 0 for a clean run, 1 when findings were reported,
and 2 when the load itself failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cachePath, overlayPath, skipSchema, cmd)
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "cache file path (empty disables caching)")
	cmd.Flags().StringVar(&overlayPath, "overlay", "", "geographic overlay database")
	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "skip CUE schema pre-validation")

	return cmd
}

func runCheck(opts *RootOptions, dir, cachePath, overlayPath string, skipSchema bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := LoadDataset(dir, LoaderOptions{
		Workers:    opts.Workers,
		CachePath:  cachePath,
		SkipSchema: skipSchema,
	}, formatter)
	if err != nil {
		var loadErr *store.LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErrorCode(loadErr), loadErr.Error(), len(loadErr.Errs))
			return NewExitError(ExitCommandError, "load failed")
		}
		return err
	}
	s := result.Store

	rep := &report.Report{Snapshot: s.Snapshot()}
	rep.Add(resolve.Resolve(s)...)

	var ov *overlay.Overlay
	if overlayPath != "" {
		ov, err = overlay.Open(overlayPath)
		if err != nil {
			// A missing or unreadable overlay only degrades the geometry
			// check to coordinate-only mode.
			formatter.VerboseLog("overlay: %v; continuing without", err)
			ov = nil
		} else {
			formatter.VerboseLog("overlay: %d position(s)", ov.Len())
		}
	}

	engine := check.NewEngine(opts.Workers)
	engine.Register(check.DefaultChecks(ov)...)
	rep.Add(engine.Run(s)...)

	if cachePath != "" && !result.FromCache {
		SaveCache(s, cachePath, formatter)
	}

	if opts.Format == "json" {
		if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		if err := rep.WriteText(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if !rep.Clean() {
		return NewExitError(ExitFindings, "findings reported")
	}
	return nil
}

// loadErrorCode picks the dominant error code for a failed load: duplicate
// keys outrank structural errors in the summary.
func loadErrorCode(err *store.LoadError) string {
	if len(err.Duplicates()) > 0 {
		return "DUPLICATE_KEY"
	}
	return "STRUCTURAL_PARSE"
}
