package core

import "strings"

// CleanString trims surrounding whitespace from s, lowering it too when
// lower is set. Request structs run their free-text fields through it
// before validation.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
