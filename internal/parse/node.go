package parse

import (
	"strconv"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/railwayhistory/raildata/internal/types"
)

// recordParser carries per-record context through the node walkers.
type recordParser struct {
	path string
	errs *errorList
}

func (p *recordParser) origin(node *yaml.Node) types.Origin {
	if node == nil {
		return types.Origin{Path: p.path}
	}
	return types.Origin{Path: p.path, Line: node.Line, Col: node.Column}
}

// deref follows alias nodes and unwraps a document node to its root.
func deref(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		case node.Kind == yaml.DocumentNode && len(node.Content) == 1:
			node = node.Content[0]
		default:
			return node
		}
	}
	return nil
}

// mapping walks one YAML mapping, tracking which fields were consumed so
// that leftovers can be reported as unknown fields.
type mapping struct {
	p      *recordParser
	node   *yaml.Node
	prefix string
	taken  map[string]bool
}

// asMapping wraps node as a mapping walker, or reports a structural error
// and returns nil if the node is not a YAML mapping.
func (p *recordParser) asMapping(node *yaml.Node, prefix string) *mapping {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		p.errs.structural(p.origin(node), prefix, "mapping", "record body is not a mapping")
		return nil
	}
	return &mapping{p: p, node: node, prefix: prefix, taken: make(map[string]bool)}
}

func (m *mapping) field(name string) string {
	if m.prefix == "" {
		return name
	}
	return m.prefix + "." + name
}

// value returns the value node for name and marks the field consumed.
func (m *mapping) value(name string) *yaml.Node {
	for i := 0; i+1 < len(m.node.Content); i += 2 {
		key := m.node.Content[i]
		if key.Value == name {
			m.taken[name] = true
			return deref(m.node.Content[i+1])
		}
	}
	return nil
}

// finish reports every field that no extractor consumed.
func (m *mapping) finish() {
	for i := 0; i+1 < len(m.node.Content); i += 2 {
		key := m.node.Content[i]
		if !m.taken[key.Value] {
			m.p.errs.structural(m.p.origin(key), m.field(key.Value), "",
				"unknown field %q", key.Value)
		}
	}
}

func (m *mapping) scalar(name string, node *yaml.Node) (string, bool) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		m.p.errs.structural(m.p.origin(node), m.field(name), "scalar",
			"not a scalar value")
		return "", false
	}
	return norm.NFC.String(node.Value), true
}

// optString returns the NFC-normalized text of an optional scalar field.
func (m *mapping) optString(name string) string {
	node := m.value(name)
	if node == nil {
		return ""
	}
	s, _ := m.scalar(name, node)
	return s
}

// reqString is optString for a required field.
func (m *mapping) reqString(name string) string {
	node := m.value(name)
	if node == nil {
		m.p.errs.structural(m.p.origin(m.node), m.field(name), "scalar",
			"missing required field")
		return ""
	}
	s, _ := m.scalar(name, node)
	return s
}

// optUint16 parses an optional non-negative integer field such as a gauge.
func (m *mapping) optUint16(name string) uint16 {
	node := m.value(name)
	if node == nil {
		return 0
	}
	s, ok := m.scalar(name, node)
	if !ok {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		m.p.errs.structural(m.p.origin(node), m.field(name), "integer",
			"invalid integer %q", s)
		return 0
	}
	return uint16(v)
}

// optFloat parses an optional floating-point field such as a length.
func (m *mapping) optFloat(name string) float64 {
	node := m.value(name)
	if node == nil {
		return 0
	}
	s, ok := m.scalar(name, node)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m.p.errs.structural(m.p.origin(node), m.field(name), "number",
			"invalid number %q", s)
		return 0
	}
	return v
}

// optBool parses an optional boolean field, keeping absence distinct from
// false.
func (m *mapping) optBool(name string) *bool {
	node := m.value(name)
	if node == nil {
		return nil
	}
	s, ok := m.scalar(name, node)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		m.p.errs.structural(m.p.origin(node), m.field(name), "boolean",
			"invalid boolean %q", s)
		return nil
	}
	return &v
}

// optDate parses an optional partial date field.
func (m *mapping) optDate(name string) types.Date {
	node := m.value(name)
	if node == nil {
		return types.Date{}
	}
	s, ok := m.scalar(name, node)
	if !ok {
		return types.Date{}
	}
	d, err := types.ParseDate(s)
	if err != nil {
		m.p.errs.structural(m.p.origin(node), m.field(name), "date", "%v", err)
		return types.Date{}
	}
	return d
}

// localText parses an optional field that is either a bare string or a
// language-code to text mapping.
func (m *mapping) localText(name string) types.LocalText {
	node := m.value(name)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return types.LocalText{"": norm.NFC.String(node.Value)}
	case yaml.MappingNode:
		text := make(types.LocalText, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			lang := node.Content[i].Value
			val := deref(node.Content[i+1])
			if val.Kind != yaml.ScalarNode {
				m.p.errs.structural(m.p.origin(val), m.field(name)+"."+lang,
					"string", "not a string")
				continue
			}
			text[lang] = norm.NFC.String(val.Value)
		}
		return text
	default:
		m.p.errs.structural(m.p.origin(node), m.field(name),
			"string or language mapping", "unsupported node kind")
		return nil
	}
}

// stringList parses an optional field that is a single string or a sequence
// of strings.
func (m *mapping) stringList(name string) []string {
	node := m.value(name)
	if node == nil {
		return nil
	}
	nodes := m.sequenceOf(name, node)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			m.p.errs.structural(m.p.origin(n), m.field(name), "string",
				"not a string")
			continue
		}
		out = append(out, norm.NFC.String(n.Value))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// stringMap parses an optional string-to-string mapping such as national
// code registries.
func (m *mapping) stringMap(name string) map[string]string {
	node := m.value(name)
	if node == nil {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		m.p.errs.structural(m.p.origin(node), m.field(name), "mapping",
			"not a mapping")
		return nil
	}
	out := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := deref(node.Content[i+1])
		if val.Kind != yaml.ScalarNode {
			m.p.errs.structural(m.p.origin(val), m.field(name)+"."+key,
				"string", "not a string")
			continue
		}
		out[key] = norm.NFC.String(val.Value)
	}
	return out
}

// sequenceOf treats node as a sequence, accepting a lone item as a
// one-element sequence the way the dataset format does.
func (m *mapping) sequenceOf(name string, node *yaml.Node) []*yaml.Node {
	if node.Kind == yaml.SequenceNode {
		out := make([]*yaml.Node, 0, len(node.Content))
		for _, n := range node.Content {
			out = append(out, deref(n))
		}
		return out
	}
	return []*yaml.Node{node}
}

// mappings parses an optional field that is a sequence of mappings, such as
// an event list. The callback receives a walker per element; finish runs on
// each element after the callback returns.
func (m *mapping) mappings(name string, each func(i int, elem *mapping)) {
	node := m.value(name)
	if node == nil {
		return
	}
	for i, n := range m.sequenceOf(name, node) {
		elem := m.p.asMapping(n, indexed(m.field(name), i))
		if elem == nil {
			continue
		}
		each(i, elem)
		elem.finish()
	}
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
