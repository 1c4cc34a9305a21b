package exporters

import (
	"testing"
	"time"

	"github.com/fbz-tec/pgxjob/core/engine"
)

const textOID = 25

func sampleResult(rows ...[]any) *engine.FetchResult {
	return &engine.FetchResult{
		Columns: []string{"id", "name"},
		OIDs:    []uint32{textOID, textOID},
		Rows:    rows,
	}
}

func baseOptions(format string) ExportOptions {
	return ExportOptions{
		Format:    format,
		Delimiter: ',',
		Encoding:  "utf-8",
		Cancel:    engine.NewCancelFlag(),
		Clock:     engine.NewDeadlineClock(engine.PhaseExport, 0),
	}
}

func expiredClock() *engine.DeadlineClock {
	clock := engine.NewDeadlineClock(engine.PhaseExport, time.Nanosecond)
	time.Sleep(time.Millisecond)
	return clock
}

func TestRegistry_KnownFormats(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatXLSX, FormatTemplate} {
		exp, err := Get(format)
		if err != nil {
			t.Errorf("Get(%q) error = %v", format, err)
			continue
		}
		if exp == nil {
			t.Errorf("Get(%q) returned nil exporter", format)
		}
	}
}

func TestRegistry_UnknownFormat(t *testing.T) {
	if _, err := Get("parquet"); err == nil {
		t.Fatal("unknown format must fail")
	}
}
