package timezone

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
)

// structuredLabelRegex matches "Region/Country/City(UTC+8)" and "…(UTC-9:30)".
var structuredLabelRegex = regexp.MustCompile(`^(.+?)/(.+?)/(.+?)\(UTC([+-]\d+(?::\d+)?)\)$`)

// Structured is a label-shaped input split into its parts.
type Structured struct {
	Region  string
	Country string
	City    string
	Offset  string // signed, without the "UTC" prefix, e.g. "+5:30"
}

// OffsetSeconds interprets Offset; false when it is out of range.
func (s Structured) OffsetSeconds() (int, bool) {
	return tzconvert.ParseOffset("UTC" + s.Offset)
}

// ParseStructured splits text shaped like a catalog label.
func ParseStructured(text string) (Structured, bool) {
	m := structuredLabelRegex.FindStringSubmatch(text)
	if m == nil {
		return Structured{}, false
	}
	return Structured{Region: m[1], Country: m[2], City: m[3], Offset: m[4]}, true
}

// Parse resolves free text to a timezone identifier. It tries, in order: an
// exact label, a label-shaped input matched by city and region against the raw
// identifiers, and a case-insensitive substring of any label or identifier.
// It reports false when nothing matches; callers keep their previous selection.
func (c *Catalog) Parse(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	for i := range c.entries {
		if c.entries[i].Label == text {
			return c.entries[i].ID, true
		}
	}

	if s, ok := ParseStructured(text); ok {
		if id, ok := c.matchCity(s); ok {
			c.checkOffset(id, s)
			return id, true
		}
		c.logger.Debug("structured input matched no city", "input", text, "city", s.City, "region", s.Region)
	}

	needle := fold(text)
	for i := range c.entries {
		if strings.Contains(c.folded[i].label, needle) || strings.Contains(c.folded[i].id, needle) {
			return c.entries[i].ID, true
		}
	}
	return "", false
}

// checkOffset notes a label typed or saved under a different offset than the
// zone has at the catalog instant, usually a label from the other side of DST.
func (c *Catalog) checkOffset(id string, s Structured) {
	typed, ok := s.OffsetSeconds()
	if !ok {
		c.logger.Debug("structured input has an out of range offset", "tz", id, "offset", s.Offset)
		return
	}
	e, ok := c.Lookup(id)
	if !ok {
		return
	}
	if live, ok := tzconvert.ParseOffset(e.Offset); ok && live != typed {
		c.logger.Debug("structured input offset differs from the zone's current offset",
			"tz", id, "input_offset", "UTC"+s.Offset, "current_offset", e.Offset)
	}
}

// matchCity finds the first id whose last segment is the city and which
// contains the region. Region matching is case-sensitive.
func (c *Catalog) matchCity(s Structured) (string, bool) {
	city := fold(strings.ReplaceAll(s.City, "_", " "))
	for _, id := range c.ids {
		last := id[strings.LastIndex(id, "/")+1:]
		if fold(strings.ReplaceAll(last, "_", " ")) == city && strings.Contains(id, s.Region) {
			return id, true
		}
	}
	return "", false
}
