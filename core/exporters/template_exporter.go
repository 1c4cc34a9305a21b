package exporters

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fbz-tec/pgxjob/core/engine"
	"github.com/fbz-tec/pgxjob/core/formatters"
	"github.com/fbz-tec/pgxjob/internal/logger"
	"github.com/xuri/excelize/v2"
)

// templateExporter fills a pre-styled XLSX template with the fetched rows.
//
// The zero-row case is deliberately special: the template bytes are copied
// verbatim and the workbook is never opened, so neither the sheet name nor
// the start cell is validated. Sheet validation only means something once
// there is data to place.
type templateExporter struct{}

func (e *templateExporter) Export(res *engine.FetchResult, destPath string, options ExportOptions) (int, error) {
	if err := options.Cancel.Err(); err != nil {
		return 0, err
	}
	if err := options.Clock.Check(); err != nil {
		return 0, err
	}

	start := time.Now()
	logger.Debug("Preparing template export (template=%s, sheet=%s, startCell=%s)",
		options.TemplatePath, options.SheetName, options.StartCell)

	if err := copyTemplate(options.TemplatePath, destPath); err != nil {
		return 0, fmt.Errorf("error copying template: %w", err)
	}

	// The copy itself can be long; both signals are observed again before
	// the workbook is touched.
	if err := options.Cancel.Err(); err != nil {
		return 0, err
	}
	if err := options.Clock.Check(); err != nil {
		return 0, err
	}

	if len(res.Rows) == 0 {
		logger.Debug("Template export: 0 rows, destination is a byte copy of the template")
		return 0, nil
	}

	f, err := excelize.OpenFile(destPath)
	if err != nil {
		return 0, &engine.TemplateError{Reason: "template is not readable as a spreadsheet", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Error closing template workbook: %v", err)
		}
	}()

	idx, err := f.GetSheetIndex(options.SheetName)
	if err != nil || idx < 0 {
		return 0, &engine.TemplateError{
			Reason: fmt.Sprintf("sheet %q not found in template", options.SheetName),
			Err:    err,
		}
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(options.StartCell)
	if err != nil {
		return 0, &engine.TemplateError{
			Reason: fmt.Sprintf("invalid start cell %q", options.StartCell),
			Err:    err,
		}
	}

	currentRow := startRow

	if options.IncludeHeader {
		for i, col := range res.Columns {
			cell, _ := excelize.CoordinatesToCellName(startCol+i, currentRow)
			if err := f.SetCellValue(options.SheetName, cell, col); err != nil {
				return 0, fmt.Errorf("error writing header cell %s: %w", cell, err)
			}
		}
		currentRow++
	}

	rowCount := 0
	for _, values := range res.Rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(startCol+i, currentRow)
			val := formatters.FormatXLSXValue(v, res.OIDs[i], options.TimeFormat, options.TimeZone)
			if err := f.SetCellValue(options.SheetName, cell, val); err != nil {
				return rowCount, fmt.Errorf("error writing cell %s: %w", cell, err)
			}
		}

		rowCount++
		currentRow++

		if rowCount%engine.CheckStride == 0 {
			if err := options.Cancel.Err(); err != nil {
				return rowCount, err
			}
			if err := options.Clock.Check(); err != nil {
				return rowCount, err
			}
		}
	}

	// One check after the placement pass and one after the save: the save
	// is the last non-preemptible chunk of the export phase.
	if err := options.Cancel.Err(); err != nil {
		return rowCount, err
	}
	if err := options.Clock.Check(); err != nil {
		return rowCount, err
	}

	if err := f.Save(); err != nil {
		return rowCount, fmt.Errorf("error saving workbook: %w", err)
	}

	if err := options.Clock.Check(); err != nil {
		return rowCount, err
	}

	logger.Debug("Template export completed: %d rows in %.2fs", rowCount, time.Since(start).Seconds())
	return rowCount, nil
}

// copyTemplate is swappable so tests can fire a stop request while the
// copy is still in flight.
var copyTemplate = copyFile

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func init() {
	MustRegister(FormatTemplate, func() Exporter { return &templateExporter{} })
}
