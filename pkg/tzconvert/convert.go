package tzconvert

import (
	"log/slog"
	"time"
)

// TimeLayout is the wall-clock format of conversion results.
const TimeLayout = "2006/01/02, 15:04:05"

// Labeler maps an identifier to its display label.
type Labeler interface {
	Label(id string) string
}

// Request is a wall-clock date/time in Source to be shown in Target.
type Request struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// Result holds the same instant as read on the source and target wall clocks.
type Result struct {
	SourceLabel string `json:"source_label"`
	TargetLabel string `json:"target_label"`
	SourceTime  string `json:"source_time"`
	TargetTime  string `json:"target_time"`
}

// Converter converts wall-clock times between timezones.
//
// The request fields are first read as a calendar time in the host location,
// and each zone's offset is the difference between that instant's wall clock in
// the zone and in UTC, both read back in the host location. When either wall
// clock lands on the other side of a host DST transition, results can be an
// hour (and so sometimes a calendar day) off. Fields inside a host DST gap are
// moved forward past it.
// With a host location without DST (e.g. UTC) conversions are exact.
type Converter struct {
	locations LocationSource
	labels    Labeler
	logger    *slog.Logger
	host      *time.Location
}

// NewConverter creates a Converter. labels may be nil, in which case results
// carry the raw identifiers.
func NewConverter(locations LocationSource, labels Labeler, opts ...Option) *Converter {
	o := newOptionHolder(opts)
	return &Converter{
		locations: locations,
		labels:    labels,
		logger:    o.logger,
		host:      o.host,
	}
}

// Convert never fails: identifiers that cannot be resolved contribute a zero offset.
func (c *Converter) Convert(req Request) Result {
	instant := c.hostInstant(req)

	delta := c.zoneDelta(req.Target, instant) - c.zoneDelta(req.Source, instant)
	target := instant.Add(delta)

	return Result{
		SourceLabel: c.label(req.Source),
		TargetLabel: c.label(req.Target),
		SourceTime:  instant.In(c.host).Format(TimeLayout),
		TargetTime:  target.In(c.host).Format(TimeLayout),
	}
}

// ConvertAll converts base into every non-empty target, in order.
func (c *Converter) ConvertAll(base Request, targets []string) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if target == "" {
			continue
		}
		req := base
		req.Target = target
		results = append(results, c.Convert(req))
	}
	return results
}

// hostInstant reads the request fields as a host-local time. A time inside a
// host spring-forward gap takes the offset in effect before the gap, so it
// moves forward (02:30 becomes 03:30) rather than back.
func (c *Converter) hostInstant(req Request) time.Time {
	instant := time.Date(req.Year, time.Month(req.Month), req.Day, req.Hour, req.Minute, 0, 0, c.host)
	if instant.Hour() == req.Hour && instant.Minute() == req.Minute {
		return instant
	}
	if req.Hour < 0 || req.Hour > 23 || req.Minute < 0 || req.Minute > 59 {
		// Out-of-range fields normalize; that is not a gap.
		return instant
	}
	_, before := instant.Add(-24 * time.Hour).Zone()
	wall := time.Date(req.Year, time.Month(req.Month), req.Day, req.Hour, req.Minute, 0, 0, time.UTC)
	c.logger.Debug("time falls in a host DST gap", "hour", req.Hour, "minute", req.Minute, "host", c.host.String())
	return wall.Add(-time.Duration(before) * time.Second).In(c.host)
}

func (c *Converter) zoneDelta(id string, instant time.Time) time.Duration {
	loc, err := c.locations.Location(id)
	if err != nil {
		c.logger.Debug("conversion zone unavailable, treating as UTC", "tz", id, "error", err)
		return 0
	}
	return c.wallClock(instant, loc).Sub(c.wallClock(instant, time.UTC))
}

// wallClock reads the wall clock of t in loc back as a host-local calendar time.
func (c *Converter) wallClock(t time.Time, loc *time.Location) time.Time {
	w := t.In(loc)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, c.host)
}

func (c *Converter) label(id string) string {
	if c.labels == nil {
		return id
	}
	return c.labels.Label(id)
}
