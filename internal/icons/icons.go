// Package icons holds the icon identifier to glyph table used when labelling windows.
package icons

import (
	"sort"
	"strings"
)

// Table maps an icon identifier to the literal glyph text it expands to.
// Lookups are case-sensitive.
type Table map[string]string

// Default returns a copy of the built-in Font Awesome table.
func Default() Table {
	t := make(Table, len(fontAwesome))
	for name, glyph := range fontAwesome {
		t[name] = glyph
	}
	return t
}

// Lookup returns the glyph registered for name.
func (t Table) Lookup(name string) (string, bool) {
	glyph, ok := t[name]
	return glyph, ok
}

// Has reports whether name is a known icon identifier.
func (t Table) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Names returns the sorted icon identifiers, optionally filtered by substring.
func (t Table) Names(filter string) []string {
	filter = strings.ToLower(filter)
	names := make([]string, 0, len(t))
	for name := range t {
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMarkup reports whether ref is verbatim markup or a literal glyph rather
// than an identifier to look up.
func IsMarkup(ref string) bool {
	return strings.HasPrefix(ref, "<")
}

// Resolve expands an icon reference. Markup passes through unchanged; anything
// else must be a key of the table.
func (t Table) Resolve(ref string) (string, bool) {
	if IsMarkup(ref) {
		return ref, true
	}
	return t.Lookup(ref)
}
