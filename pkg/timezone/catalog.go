// Package timezone builds the catalog of human-readable timezone labels and
// resolves free-text input back to timezone identifiers.
package timezone

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// OffsetResolver reports a zone's UTC offset label at an instant.
type OffsetResolver interface {
	Offset(id string, at time.Time) string
}

// Entry is one catalog row. Label is only valid for the catalog's instant.
type Entry struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Offset string `json:"offset"`
	Place
}

// Catalog is an immutable snapshot of every supported zone labelled at one instant.
// Use At to get labels for another instant.
type Catalog struct {
	at        time.Time
	offsets   OffsetResolver
	overrides map[string]Place
	logger    *slog.Logger
	index     map[string]int
	ids       []string
	entries   []Entry
	folded    []foldedEntry
}

type foldedEntry struct {
	label string
	id    string
}

// Option configures a Catalog.
type Option func(*optionHolder)

type optionHolder struct {
	overrides map[string]Place
	logger    *slog.Logger
}

// WithOverrides layers extra display triples over the built-in table.
func WithOverrides(extra map[string]Place) Option {
	return func(o *optionHolder) {
		maps.Copy(o.overrides, extra)
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *optionHolder) {
		o.logger = logger
	}
}

// Build labels every id at the given instant (now if zero). Order follows ids;
// repeated ids keep their first position.
func Build(ids []string, offsets OffsetResolver, at time.Time, opts ...Option) *Catalog {
	holder := &optionHolder{
		overrides: maps.Clone(overrides),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(holder)
	}
	return build(ids, offsets, at, holder.overrides, holder.logger)
}

func build(ids []string, offsets OffsetResolver, at time.Time, table map[string]Place, logger *slog.Logger) *Catalog {
	if at.IsZero() {
		at = time.Now()
	}
	c := &Catalog{
		at:        at,
		offsets:   offsets,
		overrides: table,
		logger:    logger,
		index:     make(map[string]int, len(ids)),
		ids:       make([]string, 0, len(ids)),
		entries:   make([]Entry, 0, len(ids)),
		folded:    make([]foldedEntry, 0, len(ids)),
	}
	for _, id := range ids {
		if _, dup := c.index[id]; dup {
			logger.Debug("skipping duplicate timezone id", "tz", id)
			continue
		}
		place := describe(id, table)
		offset := offsets.Offset(id, at)
		e := Entry{
			ID:     id,
			Label:  fmt.Sprintf("%s/%s/%s(%s)", place.Region, place.Country, place.City, offset),
			Offset: offset,
			Place:  place,
		}
		c.index[id] = len(c.entries)
		c.ids = append(c.ids, id)
		c.entries = append(c.entries, e)
		c.folded = append(c.folded, foldedEntry{label: fold(e.Label), id: fold(id)})
	}
	return c
}

// At returns a catalog with the same zones labelled at t.
func (c *Catalog) At(t time.Time) *Catalog {
	return build(c.ids, c.offsets, t, c.overrides, c.logger)
}

// Instant is the moment the labels were computed for.
func (c *Catalog) Instant() time.Time {
	return c.at
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// IDs returns the identifiers in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds the entry for id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Label returns the label for id, or id itself when it is not in the catalog.
func (c *Catalog) Label(id string) string {
	if e, ok := c.Lookup(id); ok {
		return e.Label
	}
	return id
}

// ShortLabel is the label without the trailing offset, as shown on clock cards.
func (c *Catalog) ShortLabel(id string) string {
	label := c.Label(id)
	if i := strings.Index(label, "("); i >= 0 {
		return label[:i]
	}
	return label
}

// Search returns entries whose label or id contains query, case-insensitively,
// in catalog order. A limit of zero or less means no limit.
func (c *Catalog) Search(query string, limit int) []Entry {
	needle := fold(strings.TrimSpace(query))
	var out []Entry
	for i := range c.entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		if needle == "" || strings.Contains(c.folded[i].label, needle) || strings.Contains(c.folded[i].id, needle) {
			out = append(out, c.entries[i])
		}
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}
