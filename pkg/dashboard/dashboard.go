// Package dashboard holds the user's world clocks and conversion form, and
// persists them through a key/value store.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/constants"
	"github.com/codeGROOVE-dev/worldtz/pkg/store"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
)

var (
	// ErrTooManyTargets is returned when adding a row beyond constants.MaxTargets.
	ErrTooManyTargets = errors.New("too many target zones")
	// ErrLastTarget is returned when removing the only remaining row.
	ErrLastTarget = errors.New("cannot remove the last target zone")
	// ErrNoSource is returned when converting without a source zone.
	ErrNoSource = errors.New("no source zone selected")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidTime is returned for hours outside 0-23 or minutes outside 0-59.
	ErrInvalidTime = errors.New("invalid time")
	// ErrUnknownZone is returned when text does not resolve to a zone.
	ErrUnknownZone = errors.New("unknown timezone")
	// ErrNoSuchRow is returned for target row indexes out of range.
	ErrNoSuchRow = errors.New("no such target row")
)

// Catalog is the label lookup and parser the dashboard resolves text with.
type Catalog interface {
	Label(id string) string
	ShortLabel(id string) string
	Parse(text string) (string, bool)
}

// Row is one conversion target: what the user typed and what it resolved to.
// ID stays empty until the text resolves, and keeps its last value when later
// text does not.
type Row struct {
	Search string `json:"search"`
	ID     string `json:"id"`
}

// State is a snapshot of the dashboard.
type State struct {
	Zones        []string `json:"zones"`
	Source       string   `json:"source"`
	SourceSearch string   `json:"source_search"`
	Targets      []Row    `json:"targets"`
	Date         string   `json:"date"`
	Hour         string   `json:"hour"`
	Minute       string   `json:"minute"`
}

func (s State) clone() State {
	s.Zones = slices.Clone(s.Zones)
	s.Targets = slices.Clone(s.Targets)
	return s
}

// Clock is one world clock reading.
type Clock struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Offset string `json:"offset"`
	Time   string `json:"time"`
}

// Option configures a Dashboard.
type Option func(*optionHolder)

type optionHolder struct {
	logger *slog.Logger
	now    func() time.Time
	host   *time.Location
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *optionHolder) {
		o.logger = logger
	}
}

// WithClock overrides the source of "now" (used for the default date).
func WithClock(now func() time.Time) Option {
	return func(o *optionHolder) {
		o.now = now
	}
}

// WithHostLocation sets the zone the conversion form's fields are read in.
func WithHostLocation(loc *time.Location) Option {
	return func(o *optionHolder) {
		o.host = loc
	}
}

// Dashboard is not safe for concurrent use.
type Dashboard struct {
	catalog   Catalog
	locations tzconvert.LocationSource
	converter *tzconvert.Converter
	store     store.Store
	logger    *slog.Logger
	now       func() time.Time
	host      *time.Location
	state     State
}

// New creates a Dashboard with default state. Call Load to restore saved state.
func New(catalog Catalog, locations tzconvert.LocationSource, st store.Store, opts ...Option) *Dashboard {
	o := &optionHolder{
		logger: slog.Default(),
		now:    time.Now,
		host:   time.Local,
	}
	for _, opt := range opts {
		opt(o)
	}
	d := &Dashboard{
		catalog:   catalog,
		locations: locations,
		converter: tzconvert.NewConverter(locations, catalog,
			tzconvert.WithLogger(o.logger), tzconvert.WithHostLocation(o.host)),
		store:  st,
		logger: o.logger,
		now:    o.now,
		host:   o.host,
	}
	d.state = d.defaults()
	return d
}

func (d *Dashboard) defaults() State {
	return State{
		Zones:   constants.DefaultZones(),
		Targets: []Row{{}},
		Date:    d.now().In(d.host).Format(constants.DateLayout),
		Hour:    constants.DefaultHour,
		Minute:  constants.DefaultMinute,
	}
}

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	return d.state.clone()
}

// AddZone resolves text (a label or free text) and appends it to the world
// clocks. It reports false, without error, when the zone is already shown.
func (d *Dashboard) AddZone(ctx context.Context, text string) (string, bool, error) {
	id, ok := d.catalog.Parse(text)
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownZone, text)
	}
	if slices.Contains(d.state.Zones, id) {
		d.logger.Debug("zone already on dashboard", "tz", id)
		return id, false, nil
	}
	d.state.Zones = append(d.state.Zones, id)
	return id, true, d.saveZones(ctx)
}

// RemoveZone removes a world clock by identifier or by any text that resolves to one.
func (d *Dashboard) RemoveZone(ctx context.Context, text string) (string, error) {
	id := strings.TrimSpace(text)
	if !slices.Contains(d.state.Zones, id) {
		parsed, ok := d.catalog.Parse(text)
		if !ok || !slices.Contains(d.state.Zones, parsed) {
			return "", fmt.Errorf("%w: %q is not on the dashboard", ErrUnknownZone, text)
		}
		id = parsed
	}
	d.state.Zones = slices.DeleteFunc(d.state.Zones, func(z string) bool { return z == id })
	return id, d.saveZones(ctx)
}

// Clocks reads every world clock at now, in dashboard order. Zones that can
// no longer be loaded are skipped.
func (d *Dashboard) Clocks(now time.Time) []Clock {
	clocks := make([]Clock, 0, len(d.state.Zones))
	for _, id := range d.state.Zones {
		loc, err := d.locations.Location(id)
		if err != nil {
			d.logger.Warn("skipping clock", "tz", id, "error", err)
			continue
		}
		local := now.In(loc)
		_, offset := local.Zone()
		clocks = append(clocks, Clock{
			ID:     id,
			Label:  d.catalog.ShortLabel(id),
			Offset: tzconvert.FormatOffset(offset),
			Time:   local.Format(time.TimeOnly),
		})
	}
	return clocks
}

// SetSource records the source search text and, when it resolves, the source zone.
// It reports whether the text resolved; unresolved text keeps the previous zone.
func (d *Dashboard) SetSource(ctx context.Context, text string) (bool, error) {
	d.state.SourceSearch = text
	id, ok := d.catalog.Parse(text)
	if !ok {
		return false, nil
	}
	d.state.Source = id
	return true, d.save(ctx, KeySource, id)
}

// SetTarget updates target row i the way SetSource updates the source.
func (d *Dashboard) SetTarget(ctx context.Context, i int, text string) (bool, error) {
	if i < 0 || i >= len(d.state.Targets) {
		return false, fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}
	d.state.Targets[i].Search = text
	id, ok := d.catalog.Parse(text)
	if ok {
		d.state.Targets[i].ID = id
	}
	return ok, d.saveTargets(ctx)
}

// AddTarget appends an empty target row.
func (d *Dashboard) AddTarget(ctx context.Context) error {
	if len(d.state.Targets) >= constants.MaxTargets {
		return ErrTooManyTargets
	}
	d.state.Targets = append(d.state.Targets, Row{})
	return d.saveTargets(ctx)
}

// RemoveTarget removes row i; later rows move up.
func (d *Dashboard) RemoveTarget(ctx context.Context, i int) error {
	if i < 0 || i >= len(d.state.Targets) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}
	if len(d.state.Targets) <= constants.MinTargets {
		return ErrLastTarget
	}
	d.state.Targets = slices.Delete(d.state.Targets, i, i+1)
	return d.saveTargets(ctx)
}

// SetDate sets the conversion date (YYYY-MM-DD).
func (d *Dashboard) SetDate(ctx context.Context, date string) error {
	if _, err := time.Parse(constants.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	d.state.Date = date
	return d.save(ctx, KeyDate, date)
}

// SetTime sets the conversion time of day. Values are stored zero-padded.
func (d *Dashboard) SetTime(ctx context.Context, hour, minute string) error {
	h, m, err := parseClock(hour, minute)
	if err != nil {
		return err
	}
	d.state.Hour = fmt.Sprintf("%02d", h)
	d.state.Minute = fmt.Sprintf("%02d", m)
	return d.save(ctx, KeyTime, storedTime{Hour: d.state.Hour, Minute: d.state.Minute})
}

// Convert converts the form's date and time from the source zone into every
// target row that has a zone.
func (d *Dashboard) Convert() ([]tzconvert.Result, error) {
	if d.state.Source == "" {
		return nil, ErrNoSource
	}
	req, err := Request(d.state.Date, d.state.Hour, d.state.Minute)
	if err != nil {
		return nil, err
	}
	req.Source = d.state.Source
	targets := make([]string, 0, len(d.state.Targets))
	for _, row := range d.state.Targets {
		targets = append(targets, row.ID)
	}
	return d.converter.ConvertAll(req, targets), nil
}

// Request builds a conversion request (without zones) from form values.
func Request(date, hour, minute string) (tzconvert.Request, error) {
	day, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return tzconvert.Request{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	h, m, err := parseClock(hour, minute)
	if err != nil {
		return tzconvert.Request{}, err
	}
	return tzconvert.Request{
		Year:   day.Year(),
		Month:  int(day.Month()),
		Day:    day.Day(),
		Hour:   h,
		Minute: m,
	}, nil
}

func parseClock(hour, minute string) (h, m int, err error) {
	h, herr := strconv.Atoi(strings.TrimSpace(hour))
	m, merr := strconv.Atoi(strings.TrimSpace(minute))
	if herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q:%q", ErrInvalidTime, hour, minute)
	}
	return h, m, nil
}
