package output

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbz-tec/pgxjob/internal/logger"
)

func newZipWriter(path, destName, format string) (io.WriteCloser, error) {
	logger.Debug("Creating zip-compressed output file: %s", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	zipWriter := zip.NewWriter(file)
	entryName := determineZipEntryName(destName, format)
	logger.Debug("Creating zip entry: %s", entryName)
	entryWriter, err := zipWriter.Create(entryName)
	if err != nil {
		zipWriter.Close()
		file.Close()
		return nil, fmt.Errorf("error creating zip entry: %w", err)
	}
	return &compositeWriteCloser{
		Writer: entryWriter,
		closeFunc: func() error {
			var err error
			if cerr := zipWriter.Close(); cerr != nil {
				err = cerr
			}
			if ferr := file.Close(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}, nil
}

func determineZipEntryName(destName, format string) string {
	base := filepath.Base(destName)
	lowerBase := strings.ToLower(base)

	name := strings.TrimSuffix(lowerBase, ".zip")

	if name == "" || name == "." {
		name = "export"
	}

	if !strings.HasSuffix(name, "."+format) {
		name = fmt.Sprintf("%s.%s", name, format)
	}

	return name
}
