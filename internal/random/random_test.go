package random

import (
	"regexp"
	"testing"
)

func TestIntBetween(t *testing.T) {
	tests := []struct {
		name string
		min  int
		max  int
		lo   int
		hi   int
	}{
		{name: "ordered", min: 10, max: 20, lo: 10, hi: 20},
		{name: "reversed", min: 20, max: 10, lo: 10, hi: 20},
		{name: "negative", min: -5, max: 5, lo: -5, hi: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 100 {
				got := IntBetween(tt.min, tt.max)
				if got < tt.lo || got > tt.hi {
					t.Fatalf("IntBetween(%d, %d) = %d, want within [%d, %d]", tt.min, tt.max, got, tt.lo, tt.hi)
				}
			}
		})
	}
}

func TestIntBetweenEqualBounds(t *testing.T) {
	if got := IntBetween(7, 7); got != 7 {
		t.Fatalf("IntBetween(7, 7) = %d, want 7", got)
	}
}

func TestString(t *testing.T) {
	got := String(16)
	if len(got) != 16 {
		t.Fatalf("String(16) length = %d, want 16", len(got))
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9]+$`).MatchString(got) {
		t.Fatalf("String(16) = %q, want alphanumeric", got)
	}

	if got := String(0); got != "" {
		t.Fatalf("String(0) = %q, want empty", got)
	}
	if got := String(-3); got != "" {
		t.Fatalf("String(-3) = %q, want empty", got)
	}
}

func TestSetIntNForTest(t *testing.T) {
	restore := SetIntNForTest(func(int) int { return 0 })

	if got := String(4); got != "aaaa" {
		t.Fatalf("String(4) = %q, want %q", got, "aaaa")
	}
	if got := IntBetween(3, 9); got != 3 {
		t.Fatalf("IntBetween(3, 9) = %d, want 3", got)
	}

	restore()
}
