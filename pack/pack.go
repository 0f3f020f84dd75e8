// Package pack implements the Pack wire format used by the Pack/Unpack
// functions (spec §6): a flat string encoding of a string array with two
// escapes, so that arbitrary separator characters can appear in values.
package pack

import "strings"

// DefaultSeparator is the separator used when none is supplied.
const DefaultSeparator = ","

// EscapeChar is escaped to EscapeChar+"1", and the separator to
// EscapeChar+"0", inside a value so it is never mistaken for a field boundary.
const EscapeChar = "$"

// Pack concatenates items using sep (DefaultSeparator if empty), escaping
// occurrences of the escape character and the separator within each item.
func Pack(items []string, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	escaped := make([]string, len(items))
	for i, it := range items {
		e := strings.ReplaceAll(it, EscapeChar, EscapeChar+"1")
		e = strings.ReplaceAll(e, sep, EscapeChar+"0")
		escaped[i] = e
	}
	return strings.Join(escaped, sep)
}

// Unpack reverses Pack. unpack(pack(xs)) == xs for every string array xs.
func Unpack(s string, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, sep)
	out := make([]string, len(parts))
	for i, p := range parts {
		p = strings.ReplaceAll(p, EscapeChar+"0", sep)
		p = strings.ReplaceAll(p, EscapeChar+"1", EscapeChar)
		out[i] = p
	}
	return out
}
