// Package constants defines shared constants for worldtz.
package constants

// MaxTargets is the most conversion target rows a dashboard (or a single
// convert request) may hold.
const MaxTargets = 5

// MinTargets is the fewest target rows; the last row can be cleared but not removed.
const MinTargets = 1

// Default conversion time of day.
const (
	DefaultHour   = "12"
	DefaultMinute = "00"
)

// DateLayout is the conversion date format, as produced by an HTML date input.
const DateLayout = "2006-01-02"

// DefaultZones returns the world clocks shown before the user picks any.
func DefaultZones() []string {
	return []string{"Asia/Taipei", "America/New_York", "Europe/London"}
}
