package tzconvert

import (
	"regexp"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/zoneinfo"
)

func newProvider(t *testing.T) *zoneinfo.Provider {
	t.Helper()
	p, err := zoneinfo.New()
	if err != nil {
		t.Fatalf("zoneinfo.New() error = %v", err)
	}
	return p
}

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "UTC+0"},
		{8 * 3600, "UTC+8"},
		{-4 * 3600, "UTC-4"},
		{5*3600 + 30*60, "UTC+5:30"},
		{5*3600 + 45*60, "UTC+5:45"},
		{-(9*3600 + 30*60), "UTC-9:30"},
		{-(3*3600 + 30*60), "UTC-3:30"},
		{14 * 3600, "UTC+14"},
		{-12 * 3600, "UTC-12"},
		{5*3600 + 30*60 + 17, "UTC+5:30"}, // seconds dropped
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatOffset(tt.seconds); got != tt.want {
				t.Errorf("FormatOffset(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"UTC-4", -4 * 3600, true},
		{"UTC-7", -7 * 3600, true},
		{"UTC+8", 8 * 3600, true},
		{"UTC+0", 0, true},
		{"UTC", 0, true},
		{"GMT", 0, true},
		{"GMT+9", 9 * 3600, true},
		{"UTC-10", -10 * 3600, true},
		{"UTC+12", 12 * 3600, true},
		{"UTC+5:30", 5*3600 + 30*60, true},
		{"UTC+05:45", 5*3600 + 45*60, true},
		{"UTC-9:30", -(9*3600 + 30*60), true},
		{"UTC8", 8 * 3600, true}, // no sign means positive
		{" UTC+1 ", 3600, true},
		{"UTC+0545", 0, false},
		{"UTC+5:3", 0, false},
		{"UTC+5:75", 0, false},
		{"UTC+15", 0, false},
		{"UTC+", 0, false},
		{"UTC+x", 0, false},
		{"America/New_York", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOffset(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseOffset(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for minutes := -12 * 60; minutes <= 14*60; minutes += 15 {
		seconds := minutes * 60
		label := FormatOffset(seconds)
		got, ok := ParseOffset(label)
		if !ok || got != seconds {
			t.Errorf("ParseOffset(FormatOffset(%d)) = %d, %v via %q", seconds, got, ok, label)
		}
	}
}

func TestResolverOffset(t *testing.T) {
	summer := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	winter := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewResolver(newProvider(t))

	tests := []struct {
		id   string
		at   time.Time
		want string
	}{
		{"Asia/Taipei", summer, "UTC+8"},
		{"America/New_York", summer, "UTC-4"},
		{"America/New_York", winter, "UTC-5"},
		{"Europe/London", summer, "UTC+1"},
		{"Europe/London", winter, "UTC+0"},
		{"Asia/Kolkata", summer, "UTC+5:30"},
		{"Asia/Kathmandu", summer, "UTC+5:45"},
		{"America/St_Johns", winter, "UTC-3:30"},
		{"Australia/Sydney", winter, "UTC+11"},
		{"Australia/Sydney", summer, "UTC+10"},
		{"Pacific/Kiritimati", summer, "UTC+14"},
		{"UTC", summer, "UTC+0"},
		{"Not/AZone", summer, FallbackOffset},
		{"", summer, FallbackOffset},
	}

	for _, tt := range tests {
		t.Run(tt.id+"@"+tt.at.Format("Jan"), func(t *testing.T) {
			if got := r.Offset(tt.id, tt.at); got != tt.want {
				t.Errorf("Offset(%q, %v) = %q, want %q", tt.id, tt.at, got, tt.want)
			}
		})
	}
}

func TestResolverZeroInstantUsesClock(t *testing.T) {
	winter := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewResolver(newProvider(t), WithClock(func() time.Time { return winter }))
	if got := r.Offset("America/New_York", time.Time{}); got != "UTC-5" {
		t.Errorf("Offset(zero instant) = %q, want %q", got, "UTC-5")
	}
}

func TestResolverOffsetPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^UTC[+-]\d+(:\d{2})?$`)
	p := newProvider(t)
	r := NewResolver(p)
	for _, at := range []time.Time{
		time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC),
	} {
		for _, id := range p.IDs() {
			if got := r.Offset(id, at); !pattern.MatchString(got) {
				t.Errorf("Offset(%q, %v) = %q, does not match %s", id, at, got, pattern)
			}
		}
	}
}
