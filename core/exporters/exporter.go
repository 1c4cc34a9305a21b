package exporters

import (
	"github.com/fbz-tec/pgxjob/core/engine"
)

const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatTemplate = "template"
)

// ExportOptions holds export configuration shared by the strategies.
type ExportOptions struct {
	Format      string
	DestName    string // final destination filename, used for zip entry naming
	Delimiter   rune
	NoHeader    bool
	Encoding    string
	Compression string
	TimeFormat  string
	TimeZone    string
	ProgressBar bool

	// Template strategy
	TemplatePath  string
	SheetName     string
	StartCell     string
	IncludeHeader bool

	// Control inputs shared with the fetch phase (the cancel flag) and
	// scoped to the export phase (the clock).
	Cancel *engine.CancelFlag
	Clock  *engine.DeadlineClock
}

// Exporter is the shared contract of the writer strategies. destPath is
// the staging path provided by the output guard; strategies must write
// there and nowhere else. Every strategy checks the cancel flag once
// before doing any destination-directed work, and observes the flag and
// the clock periodically while writing.
type Exporter interface {
	Export(res *engine.FetchResult, destPath string, options ExportOptions) (int, error)
}
