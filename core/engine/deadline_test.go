package engine

import (
	"errors"
	"testing"
	"time"
)

func TestDeadlineClock_Unbounded(t *testing.T) {
	tests := []struct {
		name   string
		budget time.Duration
	}{
		{"zero budget", 0},
		{"negative budget", -5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewDeadlineClock(PhaseExport, tt.budget)
			if err := clock.Check(); err != nil {
				t.Fatalf("unbounded clock Check() = %v, want nil", err)
			}
			if clock.Expired() {
				t.Fatal("unbounded clock must never expire")
			}
		})
	}
}

func TestDeadlineClock_ExpiresWithPhase(t *testing.T) {
	clock := NewDeadlineClock(PhaseFetch, time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	err := clock.Check()
	if err == nil {
		t.Fatal("Check() after expiry must fail")
	}

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Check() = %T, want *TimeoutError", err)
	}
	if te.Phase != PhaseFetch {
		t.Errorf("timeout phase = %q, want %q", te.Phase, PhaseFetch)
	}
	if te.Budget != time.Millisecond {
		t.Errorf("timeout budget = %v, want %v", te.Budget, time.Millisecond)
	}
	if !clock.Expired() {
		t.Error("Expired() must agree with Check()")
	}
}

func TestDeadlineClock_NotExpiredWithinBudget(t *testing.T) {
	clock := NewDeadlineClock(PhaseExport, time.Hour)

	if err := clock.Check(); err != nil {
		t.Fatalf("Check() within budget = %v, want nil", err)
	}
}

func TestDeadlineClock_NilSafe(t *testing.T) {
	var clock *DeadlineClock
	if err := clock.Check(); err != nil {
		t.Fatalf("nil clock Check() = %v, want nil", err)
	}
	if clock.Expired() {
		t.Fatal("nil clock must never expire")
	}
}

func TestIsTimeoutHelper(t *testing.T) {
	if phase, ok := IsTimeout(&TimeoutError{Phase: PhaseExport}); !ok || phase != PhaseExport {
		t.Fatalf("IsTimeout = (%q, %v), want (export, true)", phase, ok)
	}
	if _, ok := IsTimeout(errors.New("plain")); ok {
		t.Fatal("IsTimeout must not match plain errors")
	}
	if !IsCancelled(ErrCancelled) {
		t.Fatal("IsCancelled must match ErrCancelled")
	}
}
