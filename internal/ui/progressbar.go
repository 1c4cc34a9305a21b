package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar is a nil-safe wrapper around an indeterminate row counter so
// exporters can call it unconditionally.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

func NewProgressBar() *ProgressBar {
	return &ProgressBar{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Exporting rows"),
			progressbar.OptionEnableColorCodes(false),
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionShowBytes(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetWidth(15),
		),
	}
}

// Advance bumps the bar and refreshes its row counter.
func (p *ProgressBar) Advance(rows int) {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("Exporting rows... %d rows", rows))
	p.bar.Add(1)
}

// Finish clears the bar from the terminal.
func (p *ProgressBar) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Clear()
}
