// Package zoneinfo supplies the ordered set of supported timezone identifiers
// and resolves them to *time.Location values.
package zoneinfo

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // lookups must work on hosts without system zoneinfo

	"github.com/maypok86/otter/v2"
)

// ErrUnknownZone is returned for identifiers the timezone database does not know.
var ErrUnknownZone = errors.New("unknown timezone")

//go:embed zones.txt
var embeddedZones string

// Provider is the host timezone database: a fixed, ordered list of identifiers
// plus location lookup. It is safe for concurrent use.
type Provider struct {
	logger    *slog.Logger
	locations *otter.Cache[string, *time.Location]
	known     map[string]struct{}
	zoneDir   string
	ids       []string
}

// Option configures a Provider.
type Option func(*optionHolder)

type optionHolder struct {
	logger    *slog.Logger
	zoneDir   string
	cacheSize int
}

// WithLogger sets the logger used for cache and lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *optionHolder) {
		o.logger = logger
	}
}

// WithZoneDir enumerates identifiers from a zoneinfo directory
// (e.g. /usr/share/zoneinfo) instead of the embedded list.
func WithZoneDir(dir string) Option {
	return func(o *optionHolder) {
		o.zoneDir = dir
	}
}

// WithCacheSize bounds the number of cached locations.
func WithCacheSize(n int) Option {
	return func(o *optionHolder) {
		o.cacheSize = n
	}
}

// New reads the identifier list once and returns a Provider.
func New(opts ...Option) (*Provider, error) {
	holder := &optionHolder{
		logger:    slog.Default(),
		cacheSize: 1024,
	}
	for _, opt := range opts {
		opt(holder)
	}

	var ids []string
	var err error
	if holder.zoneDir != "" {
		ids, err = walkZoneDir(holder.zoneDir)
		if err != nil {
			return nil, fmt.Errorf("reading zone directory %s: %w", holder.zoneDir, err)
		}
	} else {
		ids = parseZoneList(embeddedZones)
	}
	if len(ids) == 0 {
		return nil, errors.New("no timezones found")
	}

	p := &Provider{
		logger: holder.logger,
		locations: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize:     holder.cacheSize,
			InitialCapacity: 64,
		}),
		known:   make(map[string]struct{}, len(ids)),
		zoneDir: holder.zoneDir,
	}
	for _, id := range ids {
		if _, dup := p.known[id]; dup {
			continue
		}
		p.known[id] = struct{}{}
		p.ids = append(p.ids, id)
	}
	p.logger.Debug("timezone provider ready", "zones", len(p.ids), "zone_dir", holder.zoneDir)
	return p, nil
}

// IDs returns the supported identifiers in native enumeration order.
func (p *Provider) IDs() []string {
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// Supported reports whether id is in the provider's identifier list.
func (p *Provider) Supported(id string) bool {
	_, ok := p.known[id]
	return ok
}

// Location loads the location for id. With a zone directory, ids in the list
// are read from it. Identifiers outside the list are still accepted when the tz
// database knows them (aliases such as "Asia/Calcutta").
func (p *Provider) Location(id string) (*time.Location, error) {
	if id == "" {
		return nil, fmt.Errorf("empty id: %w", ErrUnknownZone)
	}
	if loc, ok := p.locations.GetIfPresent(id); ok {
		return loc, nil
	}
	// LoadLocation maps "" and "Local" to non-IANA zones; neither is a valid id here.
	if id == "Local" {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownZone)
	}
	loc, err := p.load(id)
	if err != nil {
		p.logger.Debug("location lookup failed", "tz", id, "error", err)
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownZone)
	}
	p.locations.Set(id, loc)
	return loc, nil
}

func (p *Provider) load(id string) (*time.Location, error) {
	if p.zoneDir == "" || !p.Supported(id) {
		return time.LoadLocation(id)
	}
	data, err := os.ReadFile(filepath.Join(p.zoneDir, filepath.FromSlash(id)))
	if err != nil {
		return nil, err
	}
	return time.LoadLocationFromTZData(id, data)
}

func parseZoneList(s string) []string {
	var ids []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids
}

// walkZoneDir lists every file under dir that parses as TZif data.
func walkZoneDir(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	var ids []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			switch rel {
			case "posix", "right", "SystemV":
				return filepath.SkipDir
			}
			return nil
		}
		if strings.Contains(rel, ".") || rel == "localtime" || rel == "posixrules" || rel == "Factory" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := time.LoadLocationFromTZData(rel, data); err != nil {
			return nil //nolint:nilerr // not a zone file
		}
		ids = append(ids, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
