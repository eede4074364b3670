package types

import "sort"

// LocalText is text in one or more languages, keyed by lowercase language
// code. A record may give a bare string (stored under the empty code) or a
// code→text mapping.
type LocalText map[string]string

// ForLanguage returns the text for lang, falling back to the untagged entry
// and then to any entry in code order. Returns "" for an empty LocalText.
func (t LocalText) ForLanguage(lang string) string {
	if s, ok := t[lang]; ok {
		return s
	}
	if s, ok := t[""]; ok {
		return s
	}
	for _, code := range t.codes() {
		return t[code]
	}
	return ""
}

// First returns the untagged or first text entry.
func (t LocalText) First() string { return t.ForLanguage("") }

func (t LocalText) codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CountryCode is an uppercase ISO 3166 alpha-2 code.
type CountryCode string
