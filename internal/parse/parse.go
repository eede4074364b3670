package parse

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/types"
)

// Record is one raw input record: its declared kind, its YAML body, and
// where it was read from. Discovery and file reading are the caller's
// business; the parser only ever sees records.
type Record struct {
	Kind   document.Kind
	Body   *yaml.Node
	Origin types.Origin
}

// DecodeRecord parses raw YAML bytes into a Record for the given kind.
// Only decoding errors are reported here; structural problems inside the
// record surface later, from ParseRecord.
func DecodeRecord(kind document.Kind, raw []byte, path string) (Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return Record{}, &Error{
			Code:    ErrCodeStructural,
			Message: fmt.Sprintf("invalid YAML: %v", err),
			Origin:  types.Origin{Path: path},
		}
	}
	return Record{Kind: kind, Body: &node, Origin: types.Origin{Path: path, Line: 1, Col: 1}}, nil
}

// ParseRecord turns one record into a document. It always returns the
// best-effort document alongside the full list of structural errors, so a
// caller can keep diagnosing a record after its first problem; a record
// whose errors are non-empty must not be committed to a store.
func ParseRecord(rec Record) (*document.Document, []error) {
	p := &recordParser{path: rec.Origin.Path, errs: &errorList{}}

	doc := &document.Document{Kind: rec.Kind}
	if !document.ValidKinds[rec.Kind] {
		p.errs.structural(rec.Origin, "", "", "unknown document kind %q", rec.Kind)
		return nil, p.errs.errs
	}

	m := p.asMapping(rec.Body, "")
	if m == nil {
		return nil, p.errs.errs
	}

	doc.Key = types.MakeKey(m.reqString("key"))
	doc.Origin = rec.Origin
	if node := m.node; node != nil && node.Line != 0 {
		doc.Origin = types.Origin{Path: rec.Origin.Path, Line: node.Line, Col: node.Column}
	}
	doc.Progress = parseProgress(m)
	doc.Note = m.optString("note")
	doc.Sources = m.refList("source")

	switch rec.Kind {
	case document.KindLine:
		doc.Line = parseLine(m)
	case document.KindPoint:
		doc.Point = parsePoint(m)
	case document.KindOrganization:
		doc.Organization = parseOrganization(m)
	case document.KindSource:
		doc.Source = parseSource(m)
	case document.KindStructure:
		doc.Structure = parseStructure(m)
	}
	m.finish()

	p.errs.stamp(doc.Key)
	if doc.Key.IsEmpty() {
		return nil, p.errs.errs
	}
	return doc, p.errs.errs
}

func parseProgress(m *mapping) document.Progress {
	s := m.optString("progress")
	if s == "" {
		return document.ProgressInProgress
	}
	progress := document.Progress(s)
	if !document.ValidProgress[progress] {
		m.p.errs.structural(m.p.origin(m.node), m.field("progress"),
			"stub, in-progress, or complete", "unknown progress %q", s)
		return document.ProgressInProgress
	}
	return progress
}

func parseLine(m *mapping) *document.Line {
	line := &document.Line{
		Name:         m.localText("name"),
		Jurisdiction: types.CountryCode(m.optString("jurisdiction")),
		Gauge:        m.optUint16("gauge"),
		Category:     m.optString("category"),
		Points:       m.refList("points"),
		Reused:       m.refList("reused"),
		Superseded:   m.optRef("superseded"),
	}
	if code := m.reqString("code"); code != "" {
		parsed, err := document.ParseLineCode(code)
		if err != nil {
			m.p.errs.structural(m.p.origin(m.node), m.field("code"),
				"region.number", "%v", err)
		}
		line.Code = parsed
	}
	m.mappings("events", func(i int, ev *mapping) {
		line.Events = append(line.Events, document.LineEvent{
			Date:        ev.optDate("date"),
			Status:      parseStatus(ev),
			Name:        ev.localText("name"),
			Operators:   ev.roleRefList("operator", "operator"),
			Owners:      ev.roleRefList("owner", "owner"),
			Gauge:       ev.optUint16("gauge"),
			Electrified: ev.optString("electrified"),
			Sources:     ev.refList("source"),
			Note:        ev.optString("note"),
		})
	})
	return line
}

func parsePoint(m *mapping) *document.Point {
	point := &document.Point{
		Subtype:    enumField(m, "subtype", document.ValidPointTypes, document.PointStation),
		Junction:   m.optBool("junction"),
		GeometryID: m.optString("geometry"),
		Codes:      m.stringMap("codes"),
	}
	if node := m.value("position"); node != nil {
		pos := m.p.asMapping(node, m.field("position"))
		if pos != nil {
			point.Position = &document.Coordinates{
				Lat: pos.optFloat("lat"),
				Lon: pos.optFloat("lon"),
			}
			pos.finish()
		}
	}
	m.mappings("events", func(i int, ev *mapping) {
		point.Events = append(point.Events, document.PointEvent{
			Date:        ev.optDate("date"),
			Status:      parseStatus(ev),
			Name:        ev.localText("name"),
			ShortName:   ev.localText("short_name"),
			PublicName:  ev.localText("public_name"),
			Category:    ev.optString("category"),
			Connections: ev.refList("connection"),
			MergedInto:  ev.optRef("merged_into"),
			SplitFrom:   ev.optRef("split_from"),
			Sources:     ev.refList("source"),
			Note:        ev.optString("note"),
		})
	})
	return point
}

func parseOrganization(m *mapping) *document.Organization {
	org := &document.Organization{
		Subtype:  enumField(m, "subtype", document.ValidOrgTypes, document.OrgMisc),
		Superior: m.optRef("superior"),
	}
	m.mappings("events", func(i int, ev *mapping) {
		org.Events = append(org.Events, document.OrgEvent{
			Date:      ev.optDate("date"),
			Status:    parseStatus(ev),
			Name:      ev.localText("name"),
			ShortName: ev.localText("short_name"),
			Successor: ev.optRef("successor"),
			Sources:   ev.refList("source"),
			Note:      ev.optString("note"),
		})
	})
	return org
}

func parseSource(m *mapping) *document.Source {
	return &document.Source{
		Subtype:    enumField(m, "subtype", document.ValidSourceTypes, document.SourceMisc),
		Title:      m.optString("title"),
		Authors:    m.roleRefList("author", "author"),
		Editors:    m.roleRefList("editor", "editor"),
		Publisher:  m.optRef("publisher"),
		Collection: m.optRef("collection"),
		Date:       m.optDate("date"),
		Pages:      m.optString("pages"),
		URL:        m.optString("url"),
		Digital:    m.stringList("digital"),
	}
}

func parseStructure(m *mapping) *document.Structure {
	structure := &document.Structure{
		Subtype: enumField(m, "subtype", document.ValidStructureTypes, document.StructureBridge),
		Name:    m.localText("name"),
		Length:  m.optFloat("length"),
		Line:    m.optRef("line"),
	}
	m.mappings("events", func(i int, ev *mapping) {
		structure.Events = append(structure.Events, document.StructureEvent{
			Date:    ev.optDate("date"),
			Status:  parseStatus(ev),
			Name:    ev.localText("name"),
			Sources: ev.refList("source"),
			Note:    ev.optString("note"),
		})
	})
	return structure
}

func parseStatus(m *mapping) document.Status {
	s := m.optString("status")
	if s == "" {
		return ""
	}
	status := document.Status(s)
	if !document.ValidStatus[status] {
		m.p.errs.structural(m.p.origin(m.node), m.field("status"),
			"a known status", "unknown status %q", s)
		return ""
	}
	return status
}

// enumField parses a required enum-valued field, substituting fallback when
// the field is missing or invalid so parsing can continue.
func enumField[T ~string](m *mapping, name string, valid map[T]bool, fallback T) T {
	s := m.reqString(name)
	if s == "" {
		return fallback
	}
	v := T(s)
	if !valid[v] {
		m.p.errs.structural(m.p.origin(m.node), m.field(name),
			"a known subtype", "unknown value %q", s)
		return fallback
	}
	return v
}
