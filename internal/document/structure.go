package document

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// StructureType classifies a structure document.
type StructureType string

const (
	StructureBridge StructureType = "bridge"
	StructureTunnel StructureType = "tunnel"
)

// ValidStructureTypes defines the allowed structure subtypes.
var ValidStructureTypes = map[StructureType]bool{
	StructureBridge: true,
	StructureTunnel: true,
}

// Structure is the payload of a structure document: a major engineering
// structure such as a bridge or a tunnel on one line.
type Structure struct {
	Subtype StructureType    `json:"subtype"`
	Name    types.LocalText  `json:"name,omitempty"`
	Length  float64          `json:"length,omitempty"`
	Line    *Ref             `json:"line,omitempty"`
	Events  []StructureEvent `json:"events,omitempty"`
}

// StructureEvent is one dated change in a structure's history.
type StructureEvent struct {
	Date    types.Date      `json:"date,omitzero"`
	Status  Status          `json:"status,omitempty"`
	Name    types.LocalText `json:"name,omitempty"`
	Sources []Ref           `json:"sources,omitempty"`
	Note    string          `json:"note,omitempty"`
}

func (s *Structure) refs(slots *refSlots) {
	slots.one(s.Line, "line", KindLine)
	for i := range s.Events {
		ev := &s.Events[i]
		slots.list(ev.Sources, fmt.Sprintf("events[%d].source", i), KindSource)
	}
}
