// Package render formats world clocks and conversion results for a terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/dashboard"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
	"github.com/fatih/color"
)

const rule = 50

var (
	headerColor = color.New(color.Bold)
	timeColor   = color.New(color.FgCyan, color.Bold)
	offsetColor = color.New(color.FgHiBlack)
	arrowColor  = color.New(color.FgYellow)
)

// Clocks renders one line per world clock: label, time, offset.
func Clocks(clocks []dashboard.Clock) string {
	var out strings.Builder
	out.WriteString(headerColor.Sprint("🌍 World Clock") + "\n")
	out.WriteString(strings.Repeat("─", rule) + "\n")
	if len(clocks) == 0 {
		out.WriteString("No zones yet. Add one with: worldtz add <zone>\n")
		return out.String()
	}

	width := 0
	for _, c := range clocks {
		width = max(width, len([]rune(c.Label)))
	}
	for _, c := range clocks {
		pad := strings.Repeat(" ", width-len([]rune(c.Label)))
		fmt.Fprintf(&out, "%s%s  %s  %s\n", c.Label, pad, timeColor.Sprint(c.Time), offsetColor.Sprint(c.Offset))
	}
	return out.String()
}

// Conversions renders conversion results, one block per target.
func Conversions(results []tzconvert.Result) string {
	var out strings.Builder
	out.WriteString(headerColor.Sprint("🔄 Conversion") + "\n")
	out.WriteString(strings.Repeat("─", rule) + "\n")
	if len(results) == 0 {
		out.WriteString("No target zones selected\n")
		return out.String()
	}
	for i, r := range results {
		if i > 0 {
			out.WriteString("\n")
		}
		fmt.Fprintf(&out, "%s  %s\n", timeColor.Sprint(r.SourceTime), r.SourceLabel)
		fmt.Fprintf(&out, "%s %s  %s\n", arrowColor.Sprint("→"), timeColor.Sprint(r.TargetTime), r.TargetLabel)
	}
	return out.String()
}

// Day renders a 24-hour strip per clock, one column per UTC hour starting at
// the hour containing now, so zones can be compared side by side. Each cell
// marks the local hour: z for night (22:00-06:59), ^ for working hours
// (09:00-17:59), · otherwise.
func Day(now time.Time, clocks []dashboard.Clock, locations tzconvert.LocationSource) string {
	var out strings.Builder
	out.WriteString(headerColor.Sprint("📊 Next 24 hours") + "\n")
	out.WriteString(strings.Repeat("─", rule) + "\n")

	start := now.UTC().Truncate(time.Hour)
	for _, c := range clocks {
		loc, err := locations.Location(c.ID)
		if err != nil {
			continue
		}
		var strip strings.Builder
		for h := range 24 {
			local := start.Add(time.Duration(h) * time.Hour).In(loc)
			strip.WriteString(hourCell(local.Hour()))
		}
		first := start.In(loc)
		fmt.Fprintf(&out, "%02d:%02d %s %s\n", first.Hour(), first.Minute(), strip.String(), c.Label)
	}
	return out.String()
}

func hourCell(hour int) string {
	switch {
	case hour >= 22 || hour < 7:
		return color.New(color.FgBlue).Sprint("z")
	case hour >= 9 && hour < 18:
		return color.New(color.FgGreen).Sprint("^")
	default:
		return color.New(color.FgHiBlack).Sprint("·")
	}
}
