// Package sanitize provides value sanitization utilities: detection of
// "absent" values so optional fields are omitted instead of sent as blanks,
// and HTML stripping for user-provided free text.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
)

// Clean trims the value and reports whether anything remains.
// A whitespace-only string is absent.
func Clean(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// IsAbsent reports whether a string value should be treated as missing.
func IsAbsent(s string) bool {
	return strings.TrimSpace(s) == ""
}

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// This is a defense-in-depth measure; the CRM also escapes on render.
func StripHTML(s string) string {
	// Remove HTML tags
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a user-provided free-text field before it leaves the
// process: strips HTML and trims. Use for fields like observaciones and
// aclaraciones_domicilio.
func Text(s string) string {
	return StripHTML(s)
}
