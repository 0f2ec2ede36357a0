// Package api exposes the timezone catalog, offsets, parser and converter
// over JSON HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/constants"
	"github.com/codeGROOVE-dev/worldtz/pkg/dashboard"
	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
	"github.com/maypok86/otter/v2"
)

var (
	// ErrNotFound is returned for unknown zones and unresolvable text.
	ErrNotFound = errors.New("not found")
	// ErrMalformed is returned for requests that cannot be served as sent.
	ErrMalformed = errors.New("malformed request")
)

// ZoneDB is the zone database the service reads.
type ZoneDB interface {
	tzconvert.LocationSource
	IDs() []string
	Supported(id string) bool
}

// ZonesPage is a catalog listing computed at one instant.
type ZonesPage struct {
	Instant time.Time        `json:"instant"`
	Zones   []timezone.Entry `json:"zones"`
}

// ConvertRequest converts Date and Time (read in Source) into each target.
// Source and targets are labels or free text.
type ConvertRequest struct {
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// Service is the API's business logic.
type Service interface {
	Zones(ctx context.Context, query string, limit int) (ZonesPage, error)
	Zone(ctx context.Context, id string) (timezone.Entry, error)
	Offset(ctx context.Context, id string, at time.Time) (string, error)
	Parse(ctx context.Context, text string) (string, error)
	Convert(ctx context.Context, req ConvertRequest) ([]tzconvert.Result, error)
}

// Option configures the service.
type Option func(*optionHolder)

type optionHolder struct {
	logger    *slog.Logger
	now       func() time.Time
	host      *time.Location
	overrides map[string]timezone.Place
	cacheTTL  time.Duration
}

// WithLogger sets the logger.
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

// WithHostLocation sets the zone conversion fields are read in. Defaults to UTC.
func WithHostLocation(loc *time.Location) Option {
	return func(o *optionHolder) {
		o.host = loc
	}
}

// WithOverrides adds display overrides to every catalog the service builds.
func WithOverrides(overrides map[string]timezone.Place) Option {
	return func(o *optionHolder) {
		o.overrides = overrides
	}
}

// WithCacheTTL sets how long a per-minute catalog snapshot is kept.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *optionHolder) {
		o.cacheTTL = ttl
	}
}

type service struct {
	zones     ZoneDB
	resolver  *tzconvert.Resolver
	catalogs  *otter.Cache[int64, *timezone.Catalog]
	logger    *slog.Logger
	now       func() time.Time
	host      *time.Location
	overrides map[string]timezone.Place
}

// New creates the service.
func New(zones ZoneDB, opts ...Option) Service {
	o := &optionHolder{
		logger:   slog.Default(),
		now:      time.Now,
		host:     time.UTC,
		cacheTTL: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &service{
		zones:    zones,
		resolver: tzconvert.NewResolver(zones, tzconvert.WithLogger(o.logger), tzconvert.WithClock(o.now)),
		catalogs: otter.Must(&otter.Options[int64, *timezone.Catalog]{
			MaximumSize:      16,
			ExpiryCalculator: otter.ExpiryWriting[int64, *timezone.Catalog](o.cacheTTL),
		}),
		logger:    o.logger,
		now:       o.now,
		host:      o.host,
		overrides: o.overrides,
	}
}

// catalog returns the snapshot for the current minute. Offsets only change on
// whole minutes in practice, so one snapshot serves every request in it.
func (s *service) catalog() *timezone.Catalog {
	at := s.now().UTC().Truncate(time.Minute)
	if c, ok := s.catalogs.GetIfPresent(at.Unix()); ok {
		return c
	}
	c := timezone.Build(s.zones.IDs(), s.resolver, at,
		timezone.WithOverrides(s.overrides), timezone.WithLogger(s.logger))
	s.catalogs.Set(at.Unix(), c)
	s.logger.Debug("built catalog snapshot", "instant", at, "zones", c.Len())
	return c
}

func (s *service) Zones(_ context.Context, query string, limit int) (ZonesPage, error) {
	if limit < 0 {
		return ZonesPage{}, fmt.Errorf("%w: negative limit %d", ErrMalformed, limit)
	}
	c := s.catalog()
	zones := c.Search(query, limit)
	if zones == nil {
		zones = []timezone.Entry{}
	}
	return ZonesPage{Instant: c.Instant(), Zones: zones}, nil
}

func (s *service) Zone(_ context.Context, id string) (timezone.Entry, error) {
	e, ok := s.catalog().Lookup(id)
	if !ok {
		return timezone.Entry{}, fmt.Errorf("%w: zone %q", ErrNotFound, id)
	}
	return e, nil
}

func (s *service) Offset(_ context.Context, id string, at time.Time) (string, error) {
	if !s.zones.Supported(id) {
		return "", fmt.Errorf("%w: zone %q", ErrNotFound, id)
	}
	return s.resolver.Offset(id, at), nil
}

func (s *service) Parse(_ context.Context, text string) (string, error) {
	id, ok := s.catalog().Parse(text)
	if !ok {
		return "", fmt.Errorf("%w: no zone matches %q", ErrNotFound, text)
	}
	return id, nil
}

// Convert skips targets that are empty or do not resolve.
func (s *service) Convert(_ context.Context, req ConvertRequest) ([]tzconvert.Result, error) {
	if len(req.Targets) > constants.MaxTargets {
		return nil, fmt.Errorf("%w: %w (%d > %d)", ErrMalformed, dashboard.ErrTooManyTargets, len(req.Targets), constants.MaxTargets)
	}
	hour, minute, ok := strings.Cut(req.Time, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrMalformed, dashboard.ErrInvalidTime, req.Time)
	}
	base, err := dashboard.Request(req.Date, hour, minute)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c := s.catalog()
	source, ok := c.Parse(req.Source)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrMalformed, dashboard.ErrNoSource, req.Source)
	}
	base.Source = source

	targets := make([]string, 0, len(req.Targets))
	for _, text := range req.Targets {
		id, ok := c.Parse(text)
		if !ok {
			s.logger.Debug("skipping unresolved target", "text", text)
			continue
		}
		targets = append(targets, id)
	}

	conv := tzconvert.NewConverter(s.zones, c, tzconvert.WithLogger(s.logger), tzconvert.WithHostLocation(s.host))
	return conv.ConvertAll(base, targets), nil
}
