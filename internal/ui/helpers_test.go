package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours", 2*60*60 + 10, "2h"},
		{"days", 50 * 60 * 60, "2d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(time.Duration(tc.in) * time.Second)
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  ", 10); got != "" {
		t.Fatalf("truncate blank = %q, want empty", got)
	}
	if got := truncate("abcd", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
	if got := truncate("Collection Date", 8); got != "Colle..." {
		t.Fatalf("truncate = %q, want Colle...", got)
	}
	if got := truncate("short", 0); got != "short" {
		t.Fatalf("truncate no limit = %q, want short", got)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-1, 0, 5); got != 0 {
		t.Fatalf("clamp low = %d, want 0", got)
	}
	if got := clamp(9, 0, 5); got != 5 {
		t.Fatalf("clamp high = %d, want 5", got)
	}
	if got := clamp(3, 0, 5); got != 3 {
		t.Fatalf("clamp mid = %d, want 3", got)
	}
}
