// Package main implements the worldtz CLI: world clocks and timezone conversion.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/dashboard"
	"github.com/codeGROOVE-dev/worldtz/pkg/render"
	"github.com/codeGROOVE-dev/worldtz/pkg/store"
	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
	"github.com/codeGROOVE-dev/worldtz/pkg/zoneinfo"
	"github.com/fatih/color"
)

var (
	statePath = flag.String("state", "", "State file (or set WORLDTZ_STATE)")
	storeKind = flag.String("store", "", "State backend: file, sqlite or memory (or set WORLDTZ_STORE)")
	overrides = flag.String("overrides", "", "YAML file of display name overrides (or set WORLDTZ_OVERRIDES)")
	zoneDir   = flag.String("zone-dir", "", "Read zone ids from this zoneinfo directory (or set WORLDTZ_ZONE_DIR)")
	date      = flag.String("date", "", "Conversion date, YYYY-MM-DD")
	clockTime = flag.String("time", "", "Conversion time, HH:MM")
	watch     = flag.Bool("watch", false, "Keep refreshing the clocks every second")
	noColor   = flag.Bool("no-color", false, "Disable colored output")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	version   = flag.Bool("version", false, "Show version")
)

const usage = `Usage: %s [flags] [command]

Commands:
  clocks                      show world clocks (default)
  add <zone>                  add a world clock
  remove <zone>               remove a world clock
  zones [query]               list or search zones
  convert [<from> <to>...]    convert -date/-time from one zone into up to 5 others
  clear                       forget all saved settings

Zones may be given as a label, e.g. "Asia/Taiwan/Taipei(UTC+8)", an id, or any
part of either.

Flags:
`

type config struct {
	statePath string
	storeKind string
	overrides string
	zoneDir   string
	date      string
	time      string
	watch     bool
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println("worldtz CLI v1.0.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *noColor {
		color.NoColor = true
	}

	if *statePath == "" {
		*statePath = os.Getenv("WORLDTZ_STATE")
	}
	if *storeKind == "" {
		*storeKind = os.Getenv("WORLDTZ_STORE")
	}
	if *overrides == "" {
		*overrides = os.Getenv("WORLDTZ_OVERRIDES")
	}
	if *zoneDir == "" {
		*zoneDir = os.Getenv("WORLDTZ_ZONE_DIR")
	}

	cfg := config{
		statePath: *statePath,
		storeKind: *storeKind,
		overrides: *overrides,
		zoneDir:   *zoneDir,
		date:      *date,
		time:      *clockTime,
		watch:     *watch,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "worldtz: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop() already called
	}
}

func run(ctx context.Context, cfg config, args []string, out io.Writer, logger *slog.Logger) error {
	var zoneOpts []zoneinfo.Option
	zoneOpts = append(zoneOpts, zoneinfo.WithLogger(logger))
	if cfg.zoneDir != "" {
		zoneOpts = append(zoneOpts, zoneinfo.WithZoneDir(cfg.zoneDir))
	}
	zones, err := zoneinfo.New(zoneOpts...)
	if err != nil {
		return fmt.Errorf("loading zone database: %w", err)
	}

	catalogOpts := []timezone.Option{timezone.WithLogger(logger)}
	if cfg.overrides != "" {
		extra, err := loadOverrides(cfg.overrides)
		if err != nil {
			return err
		}
		catalogOpts = append(catalogOpts, timezone.WithOverrides(extra))
	}
	catalog := timezone.Build(zones.IDs(), tzconvert.NewResolver(zones, tzconvert.WithLogger(logger)), time.Now(), catalogOpts...)

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close state store", "error", err)
		}
	}()

	d := dashboard.New(catalog, zones, st, dashboard.WithLogger(logger))
	d.Load(ctx)

	command := "clocks"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "clocks":
		return showClocks(ctx, d, zones, cfg.watch, out)
	case "add":
		if len(args) == 0 {
			return errors.New("add: missing zone")
		}
		id, added, err := d.AddZone(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if !added {
			fmt.Fprintf(out, "%s is already on the dashboard\n", catalog.Label(id))
			return nil
		}
		fmt.Fprintf(out, "Added %s\n", catalog.Label(id))
		return nil
	case "remove":
		if len(args) == 0 {
			return errors.New("remove: missing zone")
		}
		id, err := d.RemoveZone(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		fmt.Fprintf(out, "Removed %s\n", catalog.Label(id))
		return nil
	case "zones":
		for _, e := range catalog.Search(strings.Join(args, " "), 0) {
			fmt.Fprintf(out, "%-34s %s\n", e.ID, e.Label)
		}
		return nil
	case "convert":
		return convert(ctx, d, cfg, args, out)
	case "clear":
		if err := d.Clear(ctx); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		fmt.Fprintln(out, "Cleared all saved settings")
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func showClocks(ctx context.Context, d *dashboard.Dashboard, zones tzconvert.LocationSource, watch bool, out io.Writer) error {
	draw := func(now time.Time) {
		clocks := d.Clocks(now)
		fmt.Fprint(out, render.Clocks(clocks))
		fmt.Fprintln(out)
		fmt.Fprint(out, render.Day(now, clocks, zones))
	}
	if !watch {
		draw(time.Now())
		return nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		fmt.Fprint(out, "\033[H\033[2J")
		draw(time.Now())
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// convert fills the form from args and flags, then converts. With no args the
// saved source and targets are used.
func convert(ctx context.Context, d *dashboard.Dashboard, cfg config, args []string, out io.Writer) error {
	if cfg.date != "" {
		if err := d.SetDate(ctx, cfg.date); err != nil {
			return err
		}
	}
	if cfg.time != "" {
		hour, minute, ok := strings.Cut(cfg.time, ":")
		if !ok {
			return fmt.Errorf("%w: %q, want HH:MM", dashboard.ErrInvalidTime, cfg.time)
		}
		if err := d.SetTime(ctx, hour, minute); err != nil {
			return err
		}
	}

	if len(args) == 1 {
		return errors.New("convert: need a source and at least one target")
	}
	if len(args) > 1 {
		if ok, err := d.SetSource(ctx, args[0]); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %q", dashboard.ErrUnknownZone, args[0])
		}
		if err := setTargets(ctx, d, args[1:]); err != nil {
			return err
		}
	}

	results, err := d.Convert()
	if err != nil {
		return err
	}
	fmt.Fprint(out, render.Conversions(results))
	return nil
}

func setTargets(ctx context.Context, d *dashboard.Dashboard, targets []string) error {
	for len(d.State().Targets) > len(targets) {
		if err := d.RemoveTarget(ctx, len(d.State().Targets)-1); err != nil {
			return err
		}
	}
	for len(d.State().Targets) < len(targets) {
		if err := d.AddTarget(ctx); err != nil {
			return err
		}
	}
	for i, text := range targets {
		ok, err := d.SetTarget(ctx, i, text)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", dashboard.ErrUnknownZone, text)
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg config, logger *slog.Logger) (store.Store, error) {
	kind := cfg.storeKind
	if kind == "" {
		kind = "file"
	}
	path := cfg.statePath
	if path == "" && kind != "memory" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("finding config directory: %w", err)
		}
		name := "state.gob"
		if kind == "sqlite" {
			name = "state.db"
		}
		path = filepath.Join(dir, "worldtz", name)
	}
	logger.Debug("Opening state store", "kind", kind, "path", path)

	switch kind {
	case "file":
		return store.OpenFile(path, logger)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
		return store.OpenSQLite(ctx, path)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store %q (want file, sqlite or memory)", kind)
	}
}

func loadOverrides(path string) (map[string]timezone.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening overrides: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	extra, err := timezone.LoadOverrides(f)
	if err != nil {
		return nil, fmt.Errorf("loading overrides %s: %w", path, err)
	}
	return extra, nil
}
