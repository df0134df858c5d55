package ui

import (
	"testing"
	"time"
)

func TestUnitToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"64", 64},
		{" 64 ", 64},
		{"64B", 64},
		{"1KB", 1000},
		{"1.5k", 1500},
		{"2MB", 2000000},
		{"1G", 1000000000},
		{"0", 0},
		{"-5", 0},
		{"abc", 0},
		{"10XB", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := UnitToNumber(tt.in); got != tt.want {
			t.Errorf("UnitToNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNumberToUnit(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.50K"},
		{64000000, "64M"},
		{2500000000, "2.50G"},
	}
	for _, tt := range tests {
		if got := NumberToUnit(tt.in); got != tt.want {
			t.Errorf("NumberToUnit(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBytesToRate(t *testing.T) {
	if got := BytesToRate(125000); got != "1M" {
		t.Errorf("BytesToRate(125000) = %q, want 1M", got)
	}
}

func TestDurationToString(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500.000ns"},
		{1500 * time.Nanosecond, "1.500us"},
		{25 * time.Millisecond, "25.000ms"},
		{2 * time.Second, "2.000s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := DurationToString(tt.in); got != tt.want {
			t.Errorf("DurationToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
