// Package tzconvert resolves live UTC offsets for timezone identifiers and
// converts wall-clock date/times between timezones.
//
// Offsets are rendered the way a browser's "shortOffset" formatter does, with
// GMT replaced by UTC: "UTC+8", "UTC-5:30", "UTC+5:45".
package tzconvert

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FallbackOffset is returned whenever an offset cannot be resolved.
const FallbackOffset = "UTC+0"

// LocationSource resolves timezone identifiers to locations.
type LocationSource interface {
	Location(id string) (*time.Location, error)
}

// Option configures a Resolver or a Converter.
type Option func(*optionHolder)

type optionHolder struct {
	logger *slog.Logger
	now    func() time.Time
	host   *time.Location
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(logger *slog.Logger) Option {
	return func(o *optionHolder) {
		o.logger = logger
	}
}

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(o *optionHolder) {
		o.now = now
	}
}

// WithHostLocation sets the zone naive calendar fields are read in
// (the converter's equivalent of a browser's default timezone).
func WithHostLocation(loc *time.Location) Option {
	return func(o *optionHolder) {
		o.host = loc
	}
}

func newOptionHolder(opts []Option) *optionHolder {
	o := &optionHolder{
		logger: slog.Default(),
		now:    time.Now,
		host:   time.Local,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolver reports the current UTC offset of a timezone.
type Resolver struct {
	locations LocationSource
	logger    *slog.Logger
	now       func() time.Time
}

// NewResolver creates a Resolver backed by locations.
func NewResolver(locations LocationSource, opts ...Option) *Resolver {
	o := newOptionHolder(opts)
	return &Resolver{
		locations: locations,
		logger:    o.logger,
		now:       o.now,
	}
}

// Offset returns the offset of id at the given instant as "UTC±H[:MM]".
// A zero instant means now. Unknown identifiers yield FallbackOffset.
func (r *Resolver) Offset(id string, at time.Time) string {
	seconds, ok := r.OffsetSeconds(id, at)
	if !ok {
		return FallbackOffset
	}
	return FormatOffset(seconds)
}

// OffsetSeconds returns the offset of id east of UTC at the given instant.
func (r *Resolver) OffsetSeconds(id string, at time.Time) (int, bool) {
	if at.IsZero() {
		at = r.now()
	}
	loc, err := r.locations.Location(id)
	if err != nil {
		r.logger.Debug("offset unavailable, using fallback", "tz", id, "error", err)
		return 0, false
	}
	_, offset := at.In(loc).Zone()
	return offset, true
}

// FormatOffset renders an offset in seconds east of UTC.
// Example: FormatOffset(28800) returns "UTC+8"
// Example: FormatOffset(-34200) returns "UTC-9:30"
// Zero renders as "UTC+0". Sub-minute remainders are dropped.
func FormatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if minutes == 0 {
		return fmt.Sprintf("UTC%s%d", sign, hours)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, hours, minutes)
}

// ParseOffset extracts the offset in seconds from an offset label.
// Examples:
//   - "UTC-4" returns -14400
//   - "UTC+5:30" returns 19800
//   - "GMT+0545" is rejected; minutes need a colon
//   - "UTC" and "GMT" return 0
//   - "America/New_York" is rejected; use a Resolver for identifiers
func ParseOffset(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "UTC"), strings.HasPrefix(s, "GMT"):
		s = s[3:]
	default:
		return 0, false
	}
	if s == "" {
		return 0, true
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	default:
		// No sign means positive offset
	}

	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hours, ok := parseDigits(hourPart, 1, 2)
	if !ok || hours > 14 {
		return 0, false
	}
	minutes := 0
	if hasMinutes {
		minutes, ok = parseDigits(minutePart, 2, 2)
		if !ok || minutes > 59 {
			return 0, false
		}
	}
	return sign * (hours*3600 + minutes*60), true
}

func parseDigits(s string, minLen, maxLen int) (int, bool) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, false
	}
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}
