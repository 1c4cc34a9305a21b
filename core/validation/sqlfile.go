package validation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// SQL files arrive from all kinds of editors, so the reader accepts UTF-8
// (with or without BOM) and UTF-16 (with BOM, or BOM-less little-endian),
// while refusing files that are plainly not SQL text: spreadsheets, ZIP
// archives, SQLite databases, arbitrary binaries.

var blockedExtensions = map[string]bool{
	".xlsx":   true,
	".xls":    true,
	".xlsm":   true,
	".db":     true,
	".sqlite": true,
}

var (
	zipMagic    = []byte("PK\x03\x04")
	sqliteMagic = []byte("SQLite format 3\x00")
	bomUTF8     = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE  = []byte{0xFF, 0xFE}
	bomUTF16BE  = []byte{0xFE, 0xFF}
)

// ReadSQLFile validates and decodes a SQL text file into a query string.
func ReadSQLFile(path string) (string, error) {
	if ext := strings.ToLower(filepath.Ext(path)); blockedExtensions[ext] {
		return "", fmt.Errorf("%q does not look like a SQL text file (extension %s)", filepath.Base(path), ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read file: %w", err)
	}

	if bytes.HasPrefix(raw, zipMagic) {
		return "", fmt.Errorf("%q is a ZIP-based file, not SQL text", filepath.Base(path))
	}
	if bytes.HasPrefix(raw, sqliteMagic) {
		return "", fmt.Errorf("%q is a SQLite database, not SQL text", filepath.Base(path))
	}

	text, err := decodeSQLText(raw)
	if err != nil {
		return "", fmt.Errorf("%q: %w", filepath.Base(path), err)
	}

	if looksBinary(text) {
		return "", fmt.Errorf("%q contains binary data, not SQL text", filepath.Base(path))
	}

	return text, nil
}

func decodeSQLText(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil

	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("invalid UTF-16 content: %w", err)
		}
		return string(out), nil

	case looksUTF16LE(raw):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("invalid UTF-16 content: %w", err)
		}
		return string(out), nil

	default:
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("content is neither valid UTF-8 nor UTF-16")
		}
		return string(raw), nil
	}
}

// looksUTF16LE detects BOM-less little-endian UTF-16: ASCII-heavy SQL in
// that encoding has a NUL in nearly every odd byte position.
func looksUTF16LE(raw []byte) bool {
	if len(raw) < 4 || len(raw)%2 != 0 {
		return false
	}
	oddNuls := 0
	pairs := len(raw) / 2
	for i := 1; i < len(raw); i += 2 {
		if raw[i] == 0 {
			oddNuls++
		}
	}
	return oddNuls*2 >= pairs // at least half of the odd bytes are NUL
}

// looksBinary flags decoded text that still carries NULs or is dominated
// by control characters.
func looksBinary(text string) bool {
	if strings.ContainsRune(text, 0) {
		return true
	}
	control := 0
	for _, r := range text {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			control++
		}
	}
	return len(text) > 0 && control*10 > len(text)
}
