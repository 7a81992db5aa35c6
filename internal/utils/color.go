// Package utils holds small helpers shared across controllers.
package utils

import "regexp"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsValidHexColor reports whether s is a CSS hex color like "#2563eb"
// or "#fff". The empty string is valid; categories and tags may have
// no color.
func IsValidHexColor(s string) bool {
	if s == "" {
		return true
	}
	return hexColorPattern.MatchString(s)
}
