package exporters

import (
	"fmt"
	"time"

	"github.com/fbz-tec/pgxjob/core/engine"
	"github.com/fbz-tec/pgxjob/core/formatters"
	"github.com/fbz-tec/pgxjob/core/output"
	"github.com/fbz-tec/pgxjob/internal/logger"
	"github.com/fbz-tec/pgxjob/internal/ui"
	"github.com/xuri/excelize/v2"
)

type xlsxExporter struct{}

// Export writes materialized rows to a fresh XLSX workbook. Sheets roll
// over automatically when the row count exceeds Excel's per-sheet maximum
// (1,048,576 rows).
func (e *xlsxExporter) Export(res *engine.FetchResult, destPath string, options ExportOptions) (int, error) {
	if err := options.Cancel.Err(); err != nil {
		return 0, err
	}
	if err := options.Clock.Check(); err != nil {
		return 0, err
	}

	const maxRows = 1_048_576

	start := time.Now()
	logger.Debug("Preparing XLSX export (compression=%s)", options.Compression)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Error closing Excel file: %v", err)
		}
	}()

	// Remove default sheet to avoid duplication
	f.DeleteSheet("Sheet1")

	var headerStyleID int
	if !options.NoHeader {
		styleID, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:  true,
				Color: "000000",
			},
		})
		if err != nil {
			logger.Warn("Failed to create header style: %v", err)
		} else {
			headerStyleID = styleID
		}
	}

	var sp *ui.Spinner
	if options.ProgressBar {
		sp = ui.NewSpinner()
		sp.Start()
		defer sp.Stop("")
	}

	rowCount := 0
	sheetIndex := 1

	sw, currentRow, err := initSheet(res.Columns, options.NoHeader, headerStyleID, f, sheetIndex)
	if err != nil {
		return 0, err
	}

	excelValues := make([]interface{}, len(res.Columns))

	for _, values := range res.Rows {
		for i, v := range values {
			excelValues[i] = formatters.FormatXLSXValue(v, res.OIDs[i], options.TimeFormat, options.TimeZone)
		}

		if currentRow > maxRows {
			if err := sw.Flush(); err != nil {
				return rowCount, fmt.Errorf("error flushing sheet %d: %w", sheetIndex, err)
			}

			sheetIndex++
			logger.Debug("Created new sheet Sheet%d (row limit reached)", sheetIndex)

			sw, currentRow, err = initSheet(res.Columns, options.NoHeader, headerStyleID, f, sheetIndex)
			if err != nil {
				return rowCount, err
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, currentRow)
		if err := sw.SetRow(cell, excelValues); err != nil {
			return rowCount, fmt.Errorf("error writing row %d: %w", currentRow, err)
		}

		rowCount++
		currentRow++

		sp.Update(fmt.Sprintf("Processing rows... %d rows [%ds]",
			rowCount, int(time.Since(start).Seconds())))

		if rowCount%engine.CheckStride == 0 {
			if err := options.Cancel.Err(); err != nil {
				return rowCount, err
			}
			if err := options.Clock.Check(); err != nil {
				return rowCount, err
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return rowCount, fmt.Errorf("error flushing stream: %w", err)
	}

	// The save is one non-preemptible chunk; observe both signals once
	// more before starting it.
	if err := options.Cancel.Err(); err != nil {
		return rowCount, err
	}
	if err := options.Clock.Check(); err != nil {
		return rowCount, err
	}

	writerCloser, err := output.CreateWriter(output.OutputConfig{
		Path:        destPath,
		DestName:    options.DestName,
		Compression: options.Compression,
		Format:      options.Format,
	})
	if err != nil {
		return rowCount, err
	}

	if err := f.Write(writerCloser); err != nil {
		writerCloser.Close()
		return rowCount, fmt.Errorf("error writing Excel file: %w", err)
	}
	if err := writerCloser.Close(); err != nil {
		return rowCount, fmt.Errorf("error closing output: %w", err)
	}

	elapsed := time.Since(start)
	logger.Debug("XLSX export completed: %d rows in %.2fs", rowCount, elapsed.Seconds())

	return rowCount, nil
}

// initSheet initializes a new Excel sheet with optional headers. Returns a
// stream writer and the first data row number.
func initSheet(columns []string, noHeader bool, headerStyleID int, f *excelize.File, sheetIndex int) (*excelize.StreamWriter, int, error) {

	sheetName := fmt.Sprintf("Sheet%d", sheetIndex)
	currentRow := 1
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, currentRow, fmt.Errorf("failed to create new sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, currentRow, fmt.Errorf("error creating stream writer: %w", err)
	}

	if !noHeader {
		headerCells := make([]interface{}, len(columns))
		for i, col := range columns {
			headerCells[i] = excelize.Cell{
				Value:   col,
				StyleID: headerStyleID,
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, currentRow)
		if err := sw.SetRow(cell, headerCells); err != nil {
			return nil, currentRow, fmt.Errorf("error writing headers: %w", err)
		}

		currentRow++
	}

	return sw, currentRow, nil
}

func init() {
	MustRegister(FormatXLSX, func() Exporter { return &xlsxExporter{} })
}
