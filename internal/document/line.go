package document

import (
	"fmt"
	"strings"

	"github.com/railwayhistory/raildata/internal/types"
)

// LineCode is the dataset-wide code of a line: a lowercase region prefix and
// a region-local number, joined by a dot in the textual form.
type LineCode struct {
	Region string `json:"region"`
	Number string `json:"number"`
}

// ParseLineCode splits "region.number".
func ParseLineCode(s string) (LineCode, error) {
	region, number, ok := strings.Cut(s, ".")
	if !ok || region == "" || number == "" {
		return LineCode{}, fmt.Errorf("invalid line code %q: want region.number", s)
	}
	return LineCode{Region: region, Number: number}, nil
}

func (c LineCode) String() string {
	return c.Region + "." + c.Number
}

// Line is the payload of a line document: one named stretch of railway and
// the dated history of its operation.
type Line struct {
	Code         LineCode          `json:"code"`
	Name         types.LocalText   `json:"name,omitempty"`
	Jurisdiction types.CountryCode `json:"jurisdiction,omitempty"`
	Gauge        uint16            `json:"gauge,omitempty"`
	Category     string            `json:"category,omitempty"`
	Points       []Ref             `json:"points"`
	Events       []LineEvent       `json:"events,omitempty"`
	Reused       []Ref             `json:"reused,omitempty"`
	Superseded   *Ref              `json:"superseded,omitempty"`
}

// LineEvent is one dated change in a line's history.
type LineEvent struct {
	Date        types.Date      `json:"date,omitzero"`
	Status      Status          `json:"status,omitempty"`
	Name        types.LocalText `json:"name,omitempty"`
	Operators   []Ref           `json:"operators,omitempty"`
	Owners      []Ref           `json:"owners,omitempty"`
	Gauge       uint16          `json:"gauge,omitempty"`
	Electrified string          `json:"electrified,omitempty"`
	Sources     []Ref           `json:"sources,omitempty"`
	Note        string          `json:"note,omitempty"`
}

func (l *Line) refs(slots *refSlots) {
	slots.list(l.Points, "points", KindPoint)
	for i := range l.Events {
		ev := &l.Events[i]
		prefix := fmt.Sprintf("events[%d]", i)
		slots.list(ev.Operators, prefix+".operator", KindOrganization)
		slots.list(ev.Owners, prefix+".owner", KindOrganization)
		slots.list(ev.Sources, prefix+".source", KindSource)
	}
	slots.list(l.Reused, "reused", KindLine)
	slots.one(l.Superseded, "superseded", KindLine)
}

// FirstPoint and LastPoint return the line's endpoint references, or nil for
// a line with no points.
func (l *Line) FirstPoint() *Ref {
	if len(l.Points) == 0 {
		return nil
	}
	return &l.Points[0]
}

func (l *Line) LastPoint() *Ref {
	if len(l.Points) == 0 {
		return nil
	}
	return &l.Points[len(l.Points)-1]
}
