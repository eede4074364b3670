package types

import "fmt"

// Origin names the place in the input dataset a document or field came from.
// Line and column are 1-based; zero means unknown.
type Origin struct {
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
}

func (o Origin) String() string {
	switch {
	case o.Path == "":
		return "<unknown>"
	case o.Line == 0:
		return o.Path
	default:
		return fmt.Sprintf("%s:%d:%d", o.Path, o.Line, o.Col)
	}
}

// IsZero reports whether the origin is unset.
func (o Origin) IsZero() bool { return o == Origin{} }
