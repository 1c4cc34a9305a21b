package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fbz-tec/pgxjob/core/db"
	"github.com/fbz-tec/pgxjob/core/engine"
	"github.com/fbz-tec/pgxjob/core/exporters"
	"github.com/fbz-tec/pgxjob/core/output"
	"github.com/fbz-tec/pgxjob/internal/logger"
)

// Job describes one query-then-export invocation. The cancel flag is
// supplied by the caller (UI stop button, CLI signal handler) and may be
// fired asynchronously at any point in the job's life; timeouts of zero
// mean unbounded.
type Job struct {
	Query         string
	OutputPath    string
	Format        string
	Cancel        *engine.CancelFlag
	FetchTimeout  time.Duration
	ExportTimeout time.Duration

	// Delimited-text options
	Delimiter   rune
	NoHeader    bool
	Encoding    string
	Compression string

	// Template options
	TemplatePath  string
	SheetName     string
	StartCell     string
	IncludeHeader bool

	TimeFormat  string
	TimeZone    string
	SkipEmpty   bool
	ProgressBar bool
}

// Report is the aggregate timing and outcome summary returned to the
// caller. NothingWritten distinguishes "no file was produced" (skip-empty
// policy) from "an empty file was written"; both are deterministic,
// reportable outcomes.
type Report struct {
	FetchDuration    time.Duration
	ExportDuration   time.Duration
	TotalDuration    time.Duration
	RowsWritten      int
	NothingWritten   bool
	ReplacedExisting bool
	OutputPath       string
}

// Run executes the job synchronously end to end: fetch phase (watchdog
// protected), inter-phase cancellation check, export phase (cooperatively
// preemptible), atomic placement of the artifact. Every failure surfaces
// as one of the engine's taxonomy kinds, never as a raw driver error, and
// never leaves a stray or half-written destination behind.
func Run(ctx context.Context, src db.Source, job Job) (Report, error) {
	var report Report

	if job.Cancel == nil {
		job.Cancel = engine.NewCancelFlag()
	}

	start := time.Now()

	res, err := engine.Fetch(ctx, src, job.Query, job.Cancel, job.FetchTimeout)
	if err != nil {
		report.TotalDuration = time.Since(start)
		return report, err
	}
	report.FetchDuration = res.FetchDuration

	// A cancellation landing between the phases must never begin writing.
	if err := job.Cancel.Err(); err != nil {
		report.TotalDuration = time.Since(start)
		return report, err
	}

	clock := engine.NewDeadlineClock(engine.PhaseExport, job.ExportTimeout)
	exportStart := time.Now()

	if len(res.Rows) == 0 && job.SkipEmpty && job.Format != exporters.FormatTemplate {
		logger.Debug("Query returned 0 rows and skip-empty is set: nothing written")
		report.NothingWritten = true
		report.ExportDuration = time.Since(exportStart)
		report.TotalDuration = time.Since(start)
		return report, nil
	}

	exporter, err := exporters.Get(job.Format)
	if err != nil {
		report.TotalDuration = time.Since(start)
		return report, err
	}

	// The template artifact must stay a byte-true workbook: with zero rows
	// it is a verbatim copy of the template, with rows it is re-opened and
	// saved in place. Wrapping it in a compression stream would break both.
	if job.Format == exporters.FormatTemplate && job.Compression != "" && job.Compression != output.None {
		report.TotalDuration = time.Since(start)
		return report, fmt.Errorf("compression is not supported with the template format")
	}

	dest := output.ResolvePath(job.OutputPath, job.Compression)

	guard, err := output.NewGuard(dest)
	if err != nil {
		report.TotalDuration = time.Since(start)
		return report, &engine.WriteError{Err: err}
	}
	defer guard.Close()

	options := exporters.ExportOptions{
		Format:        job.Format,
		DestName:      filepath.Base(dest),
		Delimiter:     job.Delimiter,
		NoHeader:      job.NoHeader,
		Encoding:      job.Encoding,
		Compression:   job.Compression,
		TimeFormat:    job.TimeFormat,
		TimeZone:      job.TimeZone,
		ProgressBar:   job.ProgressBar,
		TemplatePath:  job.TemplatePath,
		SheetName:     job.SheetName,
		StartCell:     job.StartCell,
		IncludeHeader: job.IncludeHeader,
		Cancel:        job.Cancel,
		Clock:         clock,
	}

	rowsWritten, err := exporter.Export(res, guard.StagingPath(), options)
	if err != nil {
		report.TotalDuration = time.Since(start)
		return report, translateExportErr(err)
	}

	if err := guard.Commit(); err != nil {
		report.TotalDuration = time.Since(start)
		return report, &engine.WriteError{Err: err}
	}

	report.RowsWritten = rowsWritten
	report.ReplacedExisting = guard.PreExisting()
	report.OutputPath = dest
	report.ExportDuration = time.Since(exportStart)
	report.TotalDuration = time.Since(start)
	return report, nil
}

// translateExportErr maps a strategy failure onto the error taxonomy.
// Cancellation, deadline and template conditions pass through unchanged;
// anything else is an I/O failure of the write phase.
func translateExportErr(err error) error {
	var (
		te  *engine.TimeoutError
		tpl *engine.TemplateError
		we  *engine.WriteError
	)
	if errors.Is(err, engine.ErrCancelled) || errors.As(err, &te) || errors.As(err, &tpl) || errors.As(err, &we) {
		return err
	}
	return &engine.WriteError{Err: err}
}
