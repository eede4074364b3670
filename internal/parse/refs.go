package parse

import (
	"gopkg.in/yaml.v3"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/types"
)

// optRef parses an optional field holding one reference key.
func (m *mapping) optRef(name string) *document.Ref {
	node := m.value(name)
	if node == nil {
		return nil
	}
	ref, ok := m.refFrom(name, node, "")
	if !ok {
		return nil
	}
	return &ref
}

// refList parses an optional field holding one reference key or a sequence
// of them.
func (m *mapping) refList(name string) []document.Ref {
	return m.roleRefList(name, "")
}

// roleRefList is refList with a role context stamped onto every reference.
func (m *mapping) roleRefList(name, role string) []document.Ref {
	node := m.value(name)
	if node == nil {
		return nil
	}
	nodes := m.sequenceOf(name, node)
	refs := make([]document.Ref, 0, len(nodes))
	for i, n := range nodes {
		ref, ok := m.refFrom(indexed(m.field(name), i), n, role)
		if ok {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return refs
}

func (m *mapping) refFrom(field string, node *yaml.Node, role string) (document.Ref, bool) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" || node.Value == "" {
		m.p.errs.structural(m.p.origin(node), field, "document key",
			"not a key")
		return document.Ref{}, false
	}
	key := types.MakeKey(node.Value)
	if role != "" {
		return document.NewRoleRef(key, role, m.p.origin(node)), true
	}
	return document.NewRef(key, m.p.origin(node)), true
}
