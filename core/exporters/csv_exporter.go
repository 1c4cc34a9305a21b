package exporters

import (
	"encoding/csv"
	"fmt"
	"time"

	"github.com/fbz-tec/pgxjob/core/engine"
	"github.com/fbz-tec/pgxjob/core/formatters"
	"github.com/fbz-tec/pgxjob/core/output"
	"github.com/fbz-tec/pgxjob/internal/logger"
	"github.com/fbz-tec/pgxjob/internal/ui"
)

type csvExporter struct{}

// Export streams materialized rows to a delimited-text file, observing the
// cancel flag and the export clock every engine.CheckStride rows.
func (e *csvExporter) Export(res *engine.FetchResult, destPath string, options ExportOptions) (int, error) {
	if err := options.Cancel.Err(); err != nil {
		return 0, err
	}
	if err := options.Clock.Check(); err != nil {
		return 0, err
	}

	start := time.Now()
	logger.Debug("Preparing CSV export (delimiter=%q, noHeader=%v, encoding=%s, compression=%s)",
		string(options.Delimiter), options.NoHeader, options.Encoding, options.Compression)

	writerCloser, err := output.CreateWriter(output.OutputConfig{
		Path:        destPath,
		DestName:    options.DestName,
		Compression: options.Compression,
		Format:      options.Format,
	})
	if err != nil {
		return 0, err
	}

	encoded, err := output.WrapEncoding(writerCloser, options.Encoding)
	if err != nil {
		writerCloser.Close()
		return 0, err
	}

	writer := csv.NewWriter(encoded)
	writer.Comma = options.Delimiter

	var bar *ui.ProgressBar
	if options.ProgressBar {
		bar = ui.NewProgressBar()
		defer bar.Finish()
	}

	if !options.NoHeader {
		if err := writer.Write(res.Columns); err != nil {
			encoded.Close()
			return 0, fmt.Errorf("error writing headers: %w", err)
		}
		logger.Debug("CSV headers written: %d columns", len(res.Columns))
	}

	rowCount := 0
	record := make([]string, len(res.Columns))

	for _, values := range res.Rows {
		for i, v := range values {
			record[i] = formatters.FormatCSVValue(v, res.OIDs[i], options.TimeFormat, options.TimeZone)
		}

		if err := writer.Write(record); err != nil {
			encoded.Close()
			return rowCount, fmt.Errorf("error writing row %d: %w", rowCount+1, err)
		}

		rowCount++
		bar.Advance(rowCount)

		if rowCount%engine.CheckStride == 0 {
			if err := options.Cancel.Err(); err != nil {
				encoded.Close()
				return rowCount, err
			}
			if err := options.Clock.Check(); err != nil {
				encoded.Close()
				return rowCount, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		encoded.Close()
		return rowCount, fmt.Errorf("error flushing CSV: %w", err)
	}

	if err := encoded.Close(); err != nil {
		return rowCount, fmt.Errorf("error closing output: %w", err)
	}

	elapsed := time.Since(start)
	logger.Debug("CSV export completed: %d rows written in %v",
		rowCount, elapsed.Round(time.Millisecond))

	return rowCount, nil
}

func init() {
	MustRegister(FormatCSV, func() Exporter { return &csvExporter{} })
}
