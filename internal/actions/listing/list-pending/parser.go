// internal/actions/listing/list-pending/parser.go
package listpending

import (
	"regexp"
	"strings"
)

var photoMarker = regexp.MustCompile(`\[Photo:\s*([^\s\]]+)\]`)

// ParseChangeDetails splits the first "[Photo: <url>]" marker out of a
// submission's free-text details. Every copy of that exact marker is removed
// from the description. Without a marker it returns "" and text unchanged.
func ParseChangeDetails(text string) (photoURL, description string) {
	match := photoMarker.FindStringSubmatch(text)
	if match == nil {
		return "", text
	}
	return match[1], strings.TrimSpace(strings.ReplaceAll(text, match[0], ""))
}
