package formatters

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestConvertUserTimeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"yyyy-MM-dd", "2006-01-02"},
		{"dd/MM/yyyy HH:mm:ss", "02/01/2006 15:04:05"},
		{"yyyy-MM-dd HH:mm:ss.SSS", "2006-01-02 15:04:05.000"},
		{"yy-MM-dd", "06-01-02"},
	}

	for _, tt := range tests {
		if got := ConvertUserTimeFormat(tt.in); got != tt.want {
			t.Errorf("ConvertUserTimeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractUserDateFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"yyyy-MM-dd HH:mm:ss", "yyyy-MM-dd"},
		{"dd/MM/yyyy HH:mm", "dd/MM/yyyy"},
		{"yyyy-MM-dd", "yyyy-MM-dd"},
		{"HH:mm:ss", "HH:mm:ss"}, // no date tokens, left as is
	}

	for _, tt := range tests {
		if got := extractUserDateFormat(tt.in); got != tt.want {
			t.Errorf("extractUserDateFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCSVValue(t *testing.T) {
	ts := time.Date(2025, 3, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name string
		val  any
		oid  uint32
		want string
	}{
		{"nil", nil, pgtype.TextOID, ""},
		{"text", "hello", pgtype.TextOID, "hello"},
		{"int", int64(42), pgtype.Int8OID, "42"},
		{"bool", true, pgtype.BoolOID, "true"},
		{"timestamp", ts, pgtype.TimestampOID, "2025-03-15 14:30:45"},
		{"date drops time", ts, pgtype.DateOID, "2025-03-15"},
		{"bytea", []byte("raw"), pgtype.ByteaOID, "raw"},
		{"uuid", [16]byte{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00}, pgtype.UUIDOID, "550e8400-e29b-41d4-a716-446655440000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCSVValue(tt.val, tt.oid, "yyyy-MM-dd HH:mm:ss", "")
			if got != tt.want {
				t.Errorf("FormatCSVValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCSVValue_Numeric(t *testing.T) {
	num := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}

	got := FormatCSVValue(num, pgtype.NumericOID, "yyyy-MM-dd", "")
	if got != "123.45" {
		t.Errorf("numeric = %q, want %q", got, "123.45")
	}
}

func TestFormatCSVValue_Array(t *testing.T) {
	got := FormatCSVValue([]any{"a", "b"}, pgtype.TextArrayOID, "yyyy-MM-dd", "")
	if got != "{a,b}" {
		t.Errorf("array = %q, want %q", got, "{a,b}")
	}

	if got := FormatCSVValue([]any{}, pgtype.TextArrayOID, "yyyy-MM-dd", ""); got != "{}" {
		t.Errorf("empty array = %q, want %q", got, "{}")
	}
}

func TestFormatXLSXValue_TemporalPassthrough(t *testing.T) {
	ts := time.Date(2025, 3, 15, 14, 30, 45, 0, time.UTC)

	got := FormatXLSXValue(ts, pgtype.TimestampOID, "yyyy-MM-dd HH:mm:ss", "")
	if v, ok := got.(time.Time); !ok || !v.Equal(ts) {
		t.Errorf("timestamp = %v, want native time.Time passthrough", got)
	}
}

func TestFormatXLSXValue_JSON(t *testing.T) {
	got := FormatXLSXValue(map[string]any{"a": 1}, pgtype.JSONBOID, "yyyy-MM-dd", "")
	if got != `{"a":1}` {
		t.Errorf("jsonb = %v, want %q", got, `{"a":1}`)
	}
}
