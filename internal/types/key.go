package types

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key is the human-assigned, globally unique identifier of a document.
//
// Keys are compared in Unicode NFC form. Two spellings that normalize to the
// same composed form denote the same document; the store rejects the second
// one as a duplicate. Construct keys through MakeKey so that every Key held
// anywhere in the process is already normalized.
type Key string

// MakeKey normalizes s to NFC and returns it as a Key.
func MakeKey(s string) Key {
	return Key(norm.NFC.String(s))
}

// String returns the key's text.
func (k Key) String() string { return string(k) }

// IsEmpty reports whether the key is empty.
func (k Key) IsEmpty() bool { return k == "" }

// Compare orders keys segment-wise on their dot-separated parts. Segments
// that both parse as unsigned integers compare numerically, so "line.2"
// sorts before "line.10". All other segments compare as plain strings.
// Returns -1, 0, or +1.
func (k Key) Compare(other Key) int {
	left := strings.Split(string(k), ".")
	right := strings.Split(string(other), ".")
	for i := 0; ; i++ {
		switch {
		case i >= len(left) && i >= len(right):
			return 0
		case i >= len(left):
			return -1
		case i >= len(right):
			return 1
		}
		if c := compareSegment(left[i], right[i]); c != 0 {
			return c
		}
	}
}

// Less reports whether k orders before other under Compare.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// HasPrefix reports whether the key's text starts with prefix. The prefix is
// normalized before comparison so that callers may pass raw user input.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(k), norm.NFC.String(prefix))
}

func compareSegment(left, right string) int {
	ln, lerr := strconv.ParseUint(left, 10, 64)
	rn, rerr := strconv.ParseUint(right, 10, 64)
	if lerr == nil && rerr == nil {
		switch {
		case ln < rn:
			return -1
		case ln > rn:
			return 1
		}
		return 0
	}
	return strings.Compare(left, right)
}
