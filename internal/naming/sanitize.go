// Package naming derives filesystem-safe invoice filenames from extracted
// metadata. Everything here is pure string work; collisions and I/O are the
// caller's concern.
package naming

import (
	"regexp"
	"strings"
)

// reInvalidChars matches characters rejected by at least one of the common
// filesystems (NTFS is the strictest).
var reInvalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// reWhitespace matches any run of whitespace, including tabs and newlines.
var reWhitespace = regexp.MustCompile(`\s+`)

// Sanitize turns model-extracted free text into a filename-safe token:
// invalid characters are removed, whitespace runs collapse to a single
// underscore, and leading/trailing spaces and dots are trimmed. Empty input
// yields empty output.
func Sanitize(text string) string {
	s := reInvalidChars.ReplaceAllString(text, "")
	s = reWhitespace.ReplaceAllString(s, "_")
	return strings.Trim(s, " .")
}
