package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/worldtz/pkg/dashboard"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func runCmd(t *testing.T, cfg config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out, quietLog)
	return out.String(), err
}

func TestRunPersistsAcrossInvocations(t *testing.T) {
	for _, kind := range []string{"file", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			cfg := config{storeKind: kind, statePath: filepath.Join(t.TempDir(), "nested", "state")}

			out, err := runCmd(t, cfg, "add", "kathmandu")
			if err != nil {
				t.Fatalf("add error = %v", err)
			}
			if !strings.HasPrefix(out, "Added Asia/Nepal/Kathmandu(UTC+5:45)") {
				t.Errorf("add output = %q", out)
			}

			out, err = runCmd(t, cfg, "add", "Asia/Kathmandu")
			if err != nil || !strings.Contains(out, "already on the dashboard") {
				t.Errorf("second add = %q, %v", out, err)
			}

			out, err = runCmd(t, cfg)
			if err != nil {
				t.Fatalf("clocks error = %v", err)
			}
			for _, want := range []string{"Asia/Taiwan/Taipei", "Europe/United Kingdom/London", "Asia/Nepal/Kathmandu", "UTC+5:45"} {
				if !strings.Contains(out, want) {
					t.Errorf("clocks output missing %q:\n%s", want, out)
				}
			}

			if _, err := runCmd(t, cfg, "remove", "london"); err != nil {
				t.Fatalf("remove error = %v", err)
			}
			if out, _ := runCmd(t, cfg, "clocks"); strings.Contains(out, "London") {
				t.Errorf("clocks still shows London after remove:\n%s", out)
			}

			if _, err := runCmd(t, cfg, "clear"); err != nil {
				t.Fatalf("clear error = %v", err)
			}
			out, _ = runCmd(t, cfg, "clocks")
			if !strings.Contains(out, "London") || strings.Contains(out, "Kathmandu") {
				t.Errorf("clocks after clear not back to defaults:\n%s", out)
			}
		})
	}
}

func TestRunRecoversFromCorruptState(t *testing.T) {
	cfg := config{storeKind: "file", statePath: filepath.Join(t.TempDir(), "state.gob")}
	if err := os.WriteFile(cfg.statePath, []byte("not gob"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, cfg, "clocks")
	if err != nil {
		t.Fatalf("clocks with corrupt state error = %v", err)
	}
	if !strings.Contains(out, "London") {
		t.Errorf("clocks with corrupt state not defaults:\n%s", out)
	}
	if _, err := runCmd(t, cfg, "clear"); err != nil {
		t.Fatalf("clear with corrupt state error = %v", err)
	}
	if _, err := runCmd(t, cfg, "add", "kathmandu"); err != nil {
		t.Fatal(err)
	}
	if out, _ := runCmd(t, cfg, "clocks"); !strings.Contains(out, "Kathmandu") {
		t.Errorf("state not rewritten after corrupt load:\n%s", out)
	}
}

func TestRunConvert(t *testing.T) {
	cfg := config{
		storeKind: "file",
		statePath: filepath.Join(t.TempDir(), "state.gob"),
		date:      "2024-01-15",
		time:      "09:00",
	}
	out, err := runCmd(t, cfg, "convert", "tokyo", "kolkata", "UTC/UTC/UTC(UTC+0)")
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	for _, want := range []string{
		"2024/01/15, 09:00:00  Asia/Japan/Tokyo(UTC+9)",
		"→ 2024/01/15, 05:30:00  Asia/India/Kolkata(UTC+5:30)",
		"→ 2024/01/15, 00:00:00  UTC/UTC/UTC(UTC+0)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("convert output missing %q:\n%s", want, out)
		}
	}

	// The form is saved: converting again without arguments reuses it.
	cfg.date, cfg.time = "", ""
	again, err := runCmd(t, config{storeKind: cfg.storeKind, statePath: cfg.statePath}, "convert")
	if err != nil {
		t.Fatalf("convert from saved state error = %v", err)
	}
	if again != out {
		t.Errorf("convert from saved state =\n%s\nwant\n%s", again, out)
	}

	// Fewer targets shrink the saved rows.
	out, err = runCmd(t, cfg, "convert", "tokyo", "UTC/UTC/UTC(UTC+0)")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Kolkata") {
		t.Errorf("convert kept a removed target:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	mem := config{storeKind: "memory"}
	tests := []struct {
		name string
		cfg  config
		args []string
		want error
	}{
		{"unknown zone to add", mem, []string{"add", "xyzzy"}, dashboard.ErrUnknownZone},
		{"remove absent zone", mem, []string{"remove", "Asia/Tokyo"}, dashboard.ErrUnknownZone},
		{"convert without source", mem, []string{"convert"}, dashboard.ErrNoSource},
		{"convert unknown source", mem, []string{"convert", "xyzzy", "tokyo"}, dashboard.ErrUnknownZone},
		{"convert unknown target", mem, []string{"convert", "tokyo", "xyzzy"}, dashboard.ErrUnknownZone},
		{"convert six targets", mem, []string{"convert", "london", "tokyo", "paris", "lima", "cairo", "dubai", "seoul"}, dashboard.ErrTooManyTargets},
		{"bad date", config{storeKind: "memory", date: "2024-02-30"}, []string{"convert"}, dashboard.ErrInvalidDate},
		{"bad time", config{storeKind: "memory", time: "9"}, []string{"convert"}, dashboard.ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCmd(t, tt.cfg, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("run(%v) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}

	for _, args := range [][]string{{"frobnicate"}, {"add"}, {"remove"}, {"convert", "tokyo"}} {
		if _, err := runCmd(t, mem, args...); err == nil {
			t.Errorf("run(%v) error = nil, want error", args)
		}
	}
	if _, err := runCmd(t, config{storeKind: "etcd"}); err == nil {
		t.Error("run with unknown store error = nil")
	}
}

func TestRunZones(t *testing.T) {
	out, err := runCmd(t, config{storeKind: "memory"}, "zones", "nepal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Asia/Kathmandu") || strings.Count(out, "\n") != 1 {
		t.Errorf("zones nepal = %q", out)
	}
}

func TestRunOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	yaml := "America/Regina:\n  region: America\n  country: Canada\n  city: Regina\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, config{storeKind: "memory", overrides: path}, "zones", "regina")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "America/Canada/Regina(UTC-6)") {
		t.Errorf("zones regina with overrides = %q", out)
	}

	if _, err := runCmd(t, config{storeKind: "memory", overrides: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("run with missing overrides file error = nil")
	}
}
