package utils

import (
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeFilename normalizes a client-supplied original filename before it
// is persisted and later echoed back in listings. Path segments are dropped
// and any markup is stripped so the stored name is plain text.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strictPolicy.Sanitize(name)
	return strings.TrimSpace(name)
}
