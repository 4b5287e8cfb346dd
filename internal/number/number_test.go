package number

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  float64
	}{
		{name: "int", input: int(10), ok: true, want: 10},
		{name: "int64", input: int64(-3), ok: true, want: -3},
		{name: "uint64", input: uint64(9), ok: true, want: 9},
		{name: "float64", input: 12.5, ok: true, want: 12.5},
		{name: "json_number", input: json.Number("42"), ok: true, want: 42},
		{name: "json_number_float", input: json.Number("2.5"), ok: true, want: 2.5},
		{name: "json_number_invalid", input: json.Number("x"), ok: false, want: 0},
		{name: "non_numeric", input: "x", ok: false, want: 0},
		{name: "nil", input: nil, ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) value = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToStrictInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    int
		wantErr bool
	}{
		{name: "int64", input: int64(7), want: 7},
		{name: "uint32", input: uint32(3), want: 3},
		{name: "whole_float", input: float64(5), want: 5},
		{name: "fractional_float", input: 4.2, wantErr: true},
		{name: "json_number", input: json.Number("11"), want: 11},
		{name: "json_number_float", input: json.Number("1.5"), wantErr: true},
		{name: "string", input: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToStrictInt(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToStrictInt(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("ToStrictInt(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
