package document

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// PointType classifies a point document.
type PointType string

const (
	PointStation   PointType = "station"
	PointHalt      PointType = "halt"
	PointJunction  PointType = "junction"
	PointBorder    PointType = "border"
	PointPost      PointType = "post"
	PointReference PointType = "reference"
)

// ValidPointTypes defines the allowed point subtypes.
var ValidPointTypes = map[PointType]bool{
	PointStation:   true,
	PointHalt:      true,
	PointJunction:  true,
	PointBorder:    true,
	PointPost:      true,
	PointReference: true,
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point is the payload of a point document: an operational location on the
// network, such as a station or a junction.
type Point struct {
	Subtype    PointType         `json:"subtype"`
	Junction   *bool             `json:"junction,omitempty"`
	Position   *Coordinates      `json:"position,omitempty"`
	GeometryID string            `json:"geometry_id,omitempty"`
	Codes      map[string]string `json:"codes,omitempty"`
	Events     []PointEvent      `json:"events,omitempty"`

	// Filled during resolution from the lines that list the point.
	Lines       []DocID `json:"lines,omitempty"`
	Connections []DocID `json:"connections,omitempty"`
}

// PointEvent is one dated change in a point's history.
type PointEvent struct {
	Date        types.Date      `json:"date,omitzero"`
	Status      Status          `json:"status,omitempty"`
	Name        types.LocalText `json:"name,omitempty"`
	ShortName   types.LocalText `json:"short_name,omitempty"`
	PublicName  types.LocalText `json:"public_name,omitempty"`
	Category    string          `json:"category,omitempty"`
	Connections []Ref           `json:"connections,omitempty"`
	MergedInto  *Ref            `json:"merged_into,omitempty"`
	SplitFrom   *Ref            `json:"split_from,omitempty"`
	Sources     []Ref           `json:"sources,omitempty"`
	Note        string          `json:"note,omitempty"`
}

func (p *Point) refs(slots *refSlots) {
	for i := range p.Events {
		ev := &p.Events[i]
		prefix := fmt.Sprintf("events[%d]", i)
		slots.list(ev.Connections, prefix+".connection", KindPoint)
		slots.one(ev.MergedInto, prefix+".merged_into", KindPoint)
		slots.one(ev.SplitFrom, prefix+".split_from", KindPoint)
		slots.list(ev.Sources, prefix+".source", KindSource)
	}
}

// IsJunction reports whether the point is a junction. An explicit junction
// attribute wins; otherwise a point is a junction when more than one line
// serves it or it has crosslinked connections. Only meaningful after
// resolution has filled Lines and Connections.
func (p *Point) IsJunction() bool {
	if p.Junction != nil {
		return *p.Junction
	}
	return len(p.Lines) > 1 || len(p.Connections) > 0
}
