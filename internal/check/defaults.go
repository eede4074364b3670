package check

import "github.com/railwayhistory/raildata/internal/overlay"

// DefaultChecks returns the built-in battery in canonical order. ov may be
// nil, in which case the geometry check skips its overlay cross-check.
func DefaultChecks(ov *overlay.Overlay) []Check {
	return []Check{
		LinkTargets{},
		DateOrder{},
		LineEndpoints{},
		NewPointGeometry(ov),
		OrgCycles{},
		SourceLoops{},
		Progress{},
	}
}
