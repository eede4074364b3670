package document

import "github.com/railwayhistory/raildata/internal/types"

// SourceType classifies a source document.
type SourceType string

const (
	SourceBook    SourceType = "book"
	SourceArticle SourceType = "article"
	SourceJournal SourceType = "journal"
	SourceMap     SourceType = "map"
	SourceOnline  SourceType = "online"
	SourceMisc    SourceType = "misc"
)

// ValidSourceTypes defines the allowed source subtypes.
var ValidSourceTypes = map[SourceType]bool{
	SourceBook:    true,
	SourceArticle: true,
	SourceJournal: true,
	SourceMap:     true,
	SourceOnline:  true,
	SourceMisc:    true,
}

// Source is the payload of a source document: a published work that other
// documents cite as provenance.
type Source struct {
	Subtype    SourceType `json:"subtype"`
	Title      string     `json:"title,omitempty"`
	Authors    []Ref      `json:"authors,omitempty"`
	Editors    []Ref      `json:"editors,omitempty"`
	Publisher  *Ref       `json:"publisher,omitempty"`
	Collection *Ref       `json:"collection,omitempty"`
	Date       types.Date `json:"date,omitzero"`
	Pages      string     `json:"pages,omitempty"`
	URL        string     `json:"url,omitempty"`
	Digital    []string   `json:"digital,omitempty"`
}

func (s *Source) refs(slots *refSlots) {
	slots.list(s.Authors, "author", KindOrganization)
	slots.list(s.Editors, "editor", KindOrganization)
	slots.one(s.Publisher, "publisher", KindOrganization)
	slots.one(s.Collection, "collection", KindSource)
}
