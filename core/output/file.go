package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fbz-tec/pgxjob/internal/logger"
)

func newFileWriter(path string) (io.WriteCloser, error) {
	logger.Debug("Creating uncompressed output file: %s", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	// 256KB buffer keeps throughput high for large exports
	return newBufferedWriteCloser(file, 256*1024), nil
}
