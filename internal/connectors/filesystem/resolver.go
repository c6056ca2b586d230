package filesystem

import (
	"net/url"
	"strings"
)

// ResolvePath converts a file:// URI to a local path. Bare paths pass
// through unchanged.
func ResolvePath(location string) string {
	if !strings.HasPrefix(location, "file://") {
		return location
	}
	trimmed := strings.TrimPrefix(location, "file://")
	if decoded, err := url.PathUnescape(trimmed); err == nil {
		return decoded
	}
	return trimmed
}
