// Package schema validates raw record shapes against CUE definitions.
//
// This is the first line of defense the checker runs before typed parsing:
// it catches wrong field shapes and unknown fields with CUE's constraint
// language instead of hand-written code. The typed parser in internal/parse
// stays authoritative; schema validation only fails earlier and with the
// constraint spelled out in the message.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/parse"
	"github.com/railwayhistory/raildata/internal/types"
)

//go:embed schema.cue
var schemaSource []byte

var kindDefs = map[document.Kind]string{
	document.KindLine:         "#Line",
	document.KindPoint:        "#Point",
	document.KindOrganization: "#Organization",
	document.KindSource:       "#Source",
	document.KindStructure:    "#Structure",
}

// Validator holds the compiled record schemas.
type Validator struct {
	ctx  *cue.Context
	defs map[document.Kind]cue.Value
}

// NewValidator compiles the embedded schemas once.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	defs := make(map[document.Kind]cue.Value, len(kindDefs))
	for kind, name := range kindDefs {
		def := root.LookupPath(cue.ParsePath(name))
		if err := def.Err(); err != nil {
			return nil, fmt.Errorf("schema: missing definition %s: %w", name, err)
		}
		defs[kind] = def
	}
	return &Validator{ctx: ctx, defs: defs}, nil
}

// ValidateYAML decodes raw YAML and validates its shape against the schema
// for kind. Returned errors are structural parse errors carrying the field
// path and the violated constraint.
func (v *Validator) ValidateYAML(kind document.Kind, raw []byte, origin types.Origin) []error {
	var decoded map[string]any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return []error{&parse.Error{
			Code:    parse.ErrCodeStructural,
			Message: fmt.Sprintf("invalid YAML: %v", err),
			Origin:  origin,
		}}
	}
	return v.Validate(kind, decoded, origin)
}

// Validate checks an already decoded record shape.
func (v *Validator) Validate(kind document.Kind, record any, origin types.Origin) []error {
	def, ok := v.defs[kind]
	if !ok {
		return []error{&parse.Error{
			Code:    parse.ErrCodeStructural,
			Message: fmt.Sprintf("unknown document kind %q", kind),
			Origin:  origin,
		}}
	}

	val := v.ctx.Encode(record)
	if err := val.Err(); err != nil {
		return []error{&parse.Error{
			Code:    parse.ErrCodeStructural,
			Message: fmt.Sprintf("unencodable record: %v", err),
			Origin:  origin,
		}}
	}

	unified := def.Unify(val)
	err := unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil
	}

	var out []error
	for _, e := range cueerrors.Errors(err) {
		out = append(out, &parse.Error{
			Code:    parse.ErrCodeStructural,
			Field:   fieldPath(e.Path()),
			Message: e.Error(),
			Origin:  origin,
		})
	}
	return out
}

func fieldPath(path []string) string {
	return strings.Join(path, ".")
}
