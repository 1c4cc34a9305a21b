package output

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/fbz-tec/pgxjob/internal/logger"
)

func newGzipWriter(path string) (io.WriteCloser, error) {
	logger.Debug("Creating gzip-compressed output file: %s", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	gzipWriter := gzip.NewWriter(file)
	return &compositeWriteCloser{
		Writer: gzipWriter,
		closeFunc: func() error {
			var err error
			if cerr := gzipWriter.Close(); cerr != nil {
				err = cerr
			}
			if ferr := file.Close(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}, nil
}
