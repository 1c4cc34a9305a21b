package validation

import "testing"

func TestValidateTimeZone(t *testing.T) {
	valid := []string{"", "UTC", "Europe/Paris", "America/New_York"}
	for _, tz := range valid {
		if err := ValidateTimeZone(tz); err != nil {
			t.Errorf("ValidateTimeZone(%q) = %v, want nil", tz, err)
		}
	}

	invalid := []string{"Mars/Olympus", "not a zone"}
	for _, tz := range invalid {
		if err := ValidateTimeZone(tz); err == nil {
			t.Errorf("ValidateTimeZone(%q) = nil, want error", tz)
		}
	}
}

func TestValidateTimeFormat(t *testing.T) {
	valid := []string{"yyyy-MM-dd", "dd/MM/yyyy HH:mm:ss", "yyyy-MM-dd HH:mm:ss.SSS"}
	for _, f := range valid {
		if err := ValidateTimeFormat(f); err != nil {
			t.Errorf("ValidateTimeFormat(%q) = %v, want nil", f, err)
		}
	}

	if err := ValidateTimeFormat(""); err == nil {
		t.Error("empty time format must be rejected")
	}
}

func TestValidateStartCell(t *testing.T) {
	valid := []string{"A1", "B2", "Z99", "AA10", "XFD1048576"}
	for _, cell := range valid {
		if err := ValidateStartCell(cell); err != nil {
			t.Errorf("ValidateStartCell(%q) = %v, want nil", cell, err)
		}
	}

	invalid := []string{"", "1A", "A", "7", "a1", "A0", "A1B", "A-1"}
	for _, cell := range invalid {
		if err := ValidateStartCell(cell); err == nil {
			t.Errorf("ValidateStartCell(%q) = nil, want error", cell)
		}
	}
}
