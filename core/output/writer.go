package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	None = "none"
	GZIP = "gzip"
	ZIP  = "zip"
	ZSTD = "zstd"
	LZ4  = "lz4"
)

// OutputConfig holds configuration for output file creation. Path is the
// file actually opened (the guard's staging path); DestName is the
// human-facing destination filename, used only to name the entry inside a
// zip archive.
type OutputConfig struct {
	Path        string
	DestName    string
	Compression string
	Format      string
}

// CreateWriter opens the configured output file, wrapping it with the
// requested compression. The path is used exactly as given: compressed
// filename suffixes are the caller's concern (see ResolvePath).
func CreateWriter(cfg OutputConfig) (io.WriteCloser, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Compression)) {
	case None, "":
		return newFileWriter(cfg.Path)
	case GZIP:
		return newGzipWriter(cfg.Path)
	case ZIP:
		return newZipWriter(cfg.Path, cfg.DestName, cfg.Format)
	case ZSTD:
		return newZstdWriter(cfg.Path)
	case LZ4:
		return newLz4Writer(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported compression type %q", cfg.Compression)
	}
}

// ResolvePath returns the destination path with the filename suffix the
// chosen compression implies. Called once, before the guard captures the
// destination's pre-existing state, so the guard and the writers agree on
// the final name.
func ResolvePath(path, compression string) string {
	switch strings.ToLower(strings.TrimSpace(compression)) {
	case GZIP:
		if !strings.HasSuffix(strings.ToLower(path), ".gz") {
			path += ".gz"
		}
	case ZSTD:
		if !strings.HasSuffix(strings.ToLower(path), ".zst") {
			path += ".zst"
		}
	case LZ4:
		if !strings.HasSuffix(strings.ToLower(path), ".lz4") {
			path += ".lz4"
		}
	case ZIP:
		path = fixExtension(path, ".zip")
	}
	return path
}

func fixExtension(path, extension string) string {
	ext := filepath.Ext(path)
	if strings.ToLower(ext) != extension {
		path = path[:len(path)-len(ext)] + extension
	}
	return path
}
