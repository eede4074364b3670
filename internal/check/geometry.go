package check

import (
	"fmt"
	"math"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/overlay"
	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// DefaultTolerance is the coordinate tolerance in degrees within which two
// points count as duplicates, roughly ten meters at the equator.
const DefaultTolerance = 1e-4

// PointGeometry validates point coordinates: no two points may sit within
// tolerance of each other, and points carrying an external geometry
// identifier are cross-checked against the overlay when one was loaded.
// Without an overlay the check degrades to coordinate-only mode.
type PointGeometry struct {
	Overlay   *overlay.Overlay
	Tolerance float64
}

// NewPointGeometry returns the check with the default tolerance. ov may be
// nil.
func NewPointGeometry(ov *overlay.Overlay) *PointGeometry {
	return &PointGeometry{Overlay: ov, Tolerance: DefaultTolerance}
}

func (*PointGeometry) Name() string { return "point-geometry" }

func (c *PointGeometry) Run(s *store.Store) []report.Finding {
	tolerance := c.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	type placed struct {
		id  document.DocID
		pos document.Coordinates
	}
	// Bucket by tolerance-sized grid cell; near-duplicates are always in
	// the same or an adjacent cell.
	cells := make(map[[2]int64][]placed)
	cellOf := func(pos document.Coordinates) [2]int64 {
		return [2]int64{
			int64(math.Floor(pos.Lat / tolerance)),
			int64(math.Floor(pos.Lon / tolerance)),
		}
	}

	var findings []report.Finding
	for id, doc := range s.Documents() {
		if doc.Kind != document.KindPoint || doc.Point.Position == nil {
			continue
		}
		pos := *doc.Point.Position
		cell := cellOf(pos)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, other := range cells[[2]int64{cell[0] + dx, cell[1] + dy}] {
					if math.Abs(other.pos.Lat-pos.Lat) <= tolerance &&
						math.Abs(other.pos.Lon-pos.Lon) <= tolerance {
						findings = append(findings, report.Finding{
							Severity: report.SeverityWarning,
							Key:      doc.Key,
							Field:    "position",
							Origin:   doc.Origin,
							Message: fmt.Sprintf("position within tolerance of point %q",
								s.Get(other.id).Key),
						})
					}
				}
			}
		}
		cells[cell] = append(cells[cell], placed{id: id, pos: pos})
	}

	if c.Overlay != nil {
		findings = append(findings, c.crossCheck(s, tolerance)...)
	}
	return findings
}

func (c *PointGeometry) crossCheck(s *store.Store, tolerance float64) []report.Finding {
	var findings []report.Finding
	for _, doc := range s.Documents() {
		if doc.Kind != document.KindPoint || doc.Point.GeometryID == "" {
			continue
		}
		entry, ok := c.Overlay.Position(doc.Point.GeometryID)
		if !ok {
			findings = append(findings, report.Finding{
				Severity: report.SeverityWarning,
				Key:      doc.Key,
				Field:    "geometry",
				Origin:   doc.Origin,
				Message:  fmt.Sprintf("geometry id %q not present in overlay", doc.Point.GeometryID),
			})
			continue
		}
		if pos := doc.Point.Position; pos != nil {
			if math.Abs(pos.Lat-entry.Lat) > tolerance || math.Abs(pos.Lon-entry.Lon) > tolerance {
				findings = append(findings, report.Finding{
					Severity: report.SeverityWarning,
					Key:      doc.Key,
					Field:    "position",
					Origin:   doc.Origin,
					Message: fmt.Sprintf("position (%g, %g) disagrees with overlay (%g, %g)",
						pos.Lat, pos.Lon, entry.Lat, entry.Lon),
				})
			}
		}
	}
	return findings
}
