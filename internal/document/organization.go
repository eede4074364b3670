package document

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// OrgType classifies an organization document.
type OrgType string

const (
	OrgCompany OrgType = "company"
	OrgCountry OrgType = "country"
	OrgRegion  OrgType = "region"
	OrgAgency  OrgType = "agency"
	OrgPerson  OrgType = "person"
	OrgMisc    OrgType = "misc"
)

// ValidOrgTypes defines the allowed organization subtypes.
var ValidOrgTypes = map[OrgType]bool{
	OrgCompany: true,
	OrgCountry: true,
	OrgRegion:  true,
	OrgAgency:  true,
	OrgPerson:  true,
	OrgMisc:    true,
}

// Organization is the payload of an organization document: a company,
// authority, region, or person appearing in the network's history.
type Organization struct {
	Subtype  OrgType    `json:"subtype"`
	Superior *Ref       `json:"superior,omitempty"`
	Events   []OrgEvent `json:"events,omitempty"`
}

// OrgEvent is one dated change in an organization's history.
type OrgEvent struct {
	Date      types.Date      `json:"date,omitzero"`
	Status    Status          `json:"status,omitempty"`
	Name      types.LocalText `json:"name,omitempty"`
	ShortName types.LocalText `json:"short_name,omitempty"`
	Successor *Ref            `json:"successor,omitempty"`
	Sources   []Ref           `json:"sources,omitempty"`
	Note      string          `json:"note,omitempty"`
}

func (o *Organization) refs(slots *refSlots) {
	slots.one(o.Superior, "superior", KindOrganization)
	for i := range o.Events {
		ev := &o.Events[i]
		prefix := fmt.Sprintf("events[%d]", i)
		slots.one(ev.Successor, prefix+".successor", KindOrganization)
		slots.list(ev.Sources, prefix+".source", KindSource)
	}
}

// CurrentName returns the name given by the latest event carrying one.
func (o *Organization) CurrentName() types.LocalText {
	for i := len(o.Events) - 1; i >= 0; i-- {
		if len(o.Events[i].Name) != 0 {
			return o.Events[i].Name
		}
	}
	return nil
}
