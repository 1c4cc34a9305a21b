package output

import (
	"path/filepath"
	"strings"
	"time"
)

// Filename stamping decorates the export destination with a timestamp so
// repeated runs do not silently overwrite each other. The pattern uses
// user-facing tokens (YYYY, MM, DD, hh, mm, ss); everything else in the
// pattern, including brackets and edge whitespace, is kept as-is.

const (
	StampPrefix = "prefix"
	StampSuffix = "suffix"
)

var stampTokens = []string{"YYYY", "MM", "DD", "hh", "mm", "ss"}

var stampLayouts = map[string]string{
	"YYYY": "2006",
	"MM":   "01",
	"DD":   "02",
	"hh":   "15",
	"mm":   "04",
	"ss":   "05",
}

// RenderStamp replaces the timestamp tokens in pattern with values from dt.
func RenderStamp(pattern string, dt time.Time) string {
	out := pattern
	for _, tok := range stampTokens {
		out = strings.ReplaceAll(out, tok, dt.Format(stampLayouts[tok]))
	}
	return out
}

// SanitizeStamp strips characters that are invalid in Windows filenames
// plus ASCII control characters. Spaces survive so patterns can carry
// their own separators.
func SanitizeStamp(stamp string) string {
	var b strings.Builder
	b.Grow(len(stamp))
	for _, r := range stamp {
		if r < 0x20 || r == 0x7f {
			continue
		}
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ApplyStamp inserts the rendered, sanitized stamp into the filename part
// of path, leaving any directory component untouched. With place ==
// StampPrefix the stamp goes before the name; with StampSuffix it goes
// between the base name and the extension. Disabled stamping returns the
// path unchanged.
func ApplyStamp(path string, enabled bool, pattern, place string, dt time.Time) string {
	if !enabled || strings.TrimSpace(pattern) == "" {
		return path
	}

	stamp := SanitizeStamp(RenderStamp(pattern, dt))
	dir, name := filepath.Split(path)

	if place == StampPrefix {
		return dir + stamp + name
	}

	ext := filepath.Ext(name)
	return dir + strings.TrimSuffix(name, ext) + stamp + ext
}
