package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/constants"
)

// Storage keys. Values are JSON.
const (
	KeyZones    = "timezone-converter-world-zones"
	KeySource   = "timezone-converter-source"
	KeyTargets  = "timezone-converter-targets"
	KeySearches = "timezone-converter-searches"
	KeyDate     = "timezone-converter-date"
	KeyTime     = "timezone-converter-time"
)

// Keys lists every storage key the dashboard writes.
func Keys() []string {
	return []string{KeyZones, KeySource, KeyTargets, KeySearches, KeyDate, KeyTime}
}

type storedTime struct {
	Hour   string `json:"hour"`
	Minute string `json:"minute"`
}

// Load restores saved state. Missing, unreadable or malformed values fall back
// to their defaults with a warning; Load itself never fails.
func (d *Dashboard) Load(ctx context.Context) {
	def := d.defaults()
	st := def

	var zones []string
	if d.load(ctx, KeyZones, &zones) {
		st.Zones = zones
		if st.Zones == nil {
			st.Zones = []string{}
		}
	}

	var source string
	if d.load(ctx, KeySource, &source) && source != "" {
		st.Source = source
		st.SourceSearch = d.catalog.Label(source)
	}

	var targets, searches []string
	d.load(ctx, KeyTargets, &targets)
	d.load(ctx, KeySearches, &searches)
	st.Targets = rows(targets, searches)

	var date string
	if d.load(ctx, KeyDate, &date) {
		if _, err := time.Parse(constants.DateLayout, date); err == nil {
			st.Date = date
		} else {
			d.logger.Warn("ignoring saved date", "date", date)
		}
	}

	var tm storedTime
	if d.load(ctx, KeyTime, &tm) {
		if h, m, err := parseClock(tm.Hour, tm.Minute); err == nil {
			st.Hour = fmt.Sprintf("%02d", h)
			st.Minute = fmt.Sprintf("%02d", m)
		} else {
			d.logger.Warn("ignoring saved time", "hour", tm.Hour, "minute", tm.Minute)
		}
	}

	d.state = st
}

// rows pairs saved target ids with their search texts. The number of rows
// follows the ids, bounded to [MinTargets, MaxTargets].
func rows(targets, searches []string) []Row {
	n := min(max(len(targets), constants.MinTargets), constants.MaxTargets)
	out := make([]Row, n)
	for i := range out {
		if i < len(targets) {
			out[i].ID = targets[i]
		}
		if i < len(searches) {
			out[i].Search = searches[i]
		}
	}
	return out
}

func (d *Dashboard) load(ctx context.Context, key string, v any) bool {
	data, ok, err := d.store.Get(ctx, key)
	if err != nil {
		d.logger.Warn("failed to load saved setting", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		d.logger.Warn("failed to decode saved setting", "key", key, "error", err)
		return false
	}
	return true
}

// Save writes the whole state. The source is only written once one is chosen.
func (d *Dashboard) Save(ctx context.Context) error {
	if err := d.saveZones(ctx); err != nil {
		return err
	}
	if d.state.Source != "" {
		if err := d.save(ctx, KeySource, d.state.Source); err != nil {
			return err
		}
	}
	if err := d.saveTargets(ctx); err != nil {
		return err
	}
	if err := d.save(ctx, KeyDate, d.state.Date); err != nil {
		return err
	}
	return d.save(ctx, KeyTime, storedTime{Hour: d.state.Hour, Minute: d.state.Minute})
}

// Clear removes every saved key and restores the defaults.
func (d *Dashboard) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range Keys() {
		if err := d.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("clearing %s: %w", key, err))
		}
	}
	d.state = d.defaults()
	return errors.Join(errs...)
}

func (d *Dashboard) saveZones(ctx context.Context) error {
	return d.save(ctx, KeyZones, d.state.Zones)
}

func (d *Dashboard) saveTargets(ctx context.Context) error {
	targets := make([]string, len(d.state.Targets))
	searches := make([]string, len(d.state.Targets))
	for i, row := range d.state.Targets {
		targets[i] = row.ID
		searches[i] = row.Search
	}
	if err := d.save(ctx, KeyTargets, targets); err != nil {
		return err
	}
	return d.save(ctx, KeySearches, searches)
}

func (d *Dashboard) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := d.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
