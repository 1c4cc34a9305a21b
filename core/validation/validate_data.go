package validation

import (
	"fmt"
	"time"

	"github.com/fbz-tec/pgxjob/core/formatters"
)

// ValidateTimeZone checks that a timezone string can be loaded. Empty is
// valid (local time).
func ValidateTimeZone(timezone string) error {
	if timezone == "" {
		return nil
	}

	_, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return nil
}

// ValidateTimeFormat validates a user time format by round-tripping a
// known instant through it.
func ValidateTimeFormat(format string) error {
	if format == "" {
		return fmt.Errorf("time format cannot be empty")
	}

	testTime := time.Date(2006, 1, 2, 15, 4, 5, 123456789, time.UTC)
	layout := formatters.ConvertUserTimeFormat(format)

	formatted := testTime.Format(layout)
	if _, err := time.Parse(layout, formatted); err != nil {
		return fmt.Errorf("invalid time format %q: %w", format, err)
	}

	return nil
}

// ValidateStartCell checks an A1-style cell reference without opening any
// workbook.
func ValidateStartCell(cell string) error {
	if cell == "" {
		return fmt.Errorf("start cell cannot be empty")
	}
	col, row := 0, 0
	i := 0
	for ; i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z'; i++ {
		col = col*26 + int(cell[i]-'A'+1)
	}
	for ; i < len(cell) && cell[i] >= '0' && cell[i] <= '9'; i++ {
		row = row*10 + int(cell[i]-'0')
	}
	if i != len(cell) || col == 0 || row == 0 {
		return fmt.Errorf("invalid start cell %q (expected e.g. A1, B2)", cell)
	}
	return nil
}
