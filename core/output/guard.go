package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fbz-tec/pgxjob/internal/logger"
)

// Guard owns the lifecycle of one destination path for the duration of an
// export. Strategies never write the destination directly: they write a
// staging file in the same directory, and the finished artifact is placed
// atomically on Commit. Until then the destination keeps whatever bytes it
// had before the job, and a job that fails or is aborted leaves no trace.
//
// Whether the destination pre-existed is captured once, at construction,
// rather than inferred at failure time.
type Guard struct {
	dest        string
	staging     string
	preExisting bool
	committed   bool
	discarded   bool
}

// NewGuard prepares a staging file next to dest and records whether dest
// already exists.
func NewGuard(dest string) (*Guard, error) {
	_, err := os.Stat(dest)
	preExisting := err == nil

	dir := filepath.Dir(dest)
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".part-*")
	if err != nil {
		return nil, fmt.Errorf("error creating staging file: %w", err)
	}
	staging := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return nil, fmt.Errorf("error preparing staging file: %w", err)
	}

	logger.Debug("Output guard armed: dest=%s staging=%s preExisting=%v",
		dest, filepath.Base(staging), preExisting)

	return &Guard{
		dest:        dest,
		staging:     staging,
		preExisting: preExisting,
	}, nil
}

// StagingPath is the path strategies must write to.
func (g *Guard) StagingPath() string {
	return g.staging
}

// Dest is the final destination path.
func (g *Guard) Dest() string {
	return g.dest
}

// PreExisting reports whether the destination existed before the job.
func (g *Guard) PreExisting() bool {
	return g.preExisting
}

// Commit places the finished artifact at the destination with a rename and
// disarms the guard. Only call after the strategy reports success.
func (g *Guard) Commit() error {
	if g.committed || g.discarded {
		return fmt.Errorf("output guard already finalized")
	}
	if err := os.Rename(g.staging, g.dest); err != nil {
		return fmt.Errorf("error placing output file: %w", err)
	}
	g.committed = true
	logger.Debug("Output committed: %s", g.dest)
	return nil
}

// Discard removes the staging file without touching the destination. Used
// when the job completes but produces nothing (skip-empty policy).
func (g *Guard) Discard() error {
	if g.committed || g.discarded {
		return nil
	}
	g.discarded = true
	return os.Remove(g.staging)
}

// Close removes the staging file unless Commit disarmed the guard.
// Idempotent; intended for defer so every exit path is covered.
func (g *Guard) Close() error {
	if g.committed || g.discarded {
		return nil
	}
	g.discarded = true
	if err := os.Remove(g.staging); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove staging file %s: %v", g.staging, err)
		return err
	}
	logger.Debug("Staging file removed, destination untouched: %s", g.dest)
	return nil
}
