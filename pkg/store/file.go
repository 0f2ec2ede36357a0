package store

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// File keeps every key in one gob-encoded file. Each write replaces the file
// atomically; the in-memory copy is updated even when the write fails.
type File struct {
	logger *slog.Logger
	data   map[string][]byte
	path   string
	mu     sync.RWMutex
}

// OpenFile loads path if it exists. The parent directory is created. A file
// that cannot be decoded is logged and ignored; the next write replaces it.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	f := &File{
		logger: logger,
		data:   make(map[string][]byte),
		path:   path,
	}
	if err := f.load(); err != nil {
		logger.Warn("failed to load state from disk, starting empty", "path", path, "error", err)
		clear(f.data)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = slices.Clone(value)
	return f.save(ctx)
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.save(ctx)
}

// Close is a no-op; every write is already on disk.
func (*File) Close() error {
	return nil
}

func (f *File) load() error {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("no existing state file found", "path", f.path)
			return nil
		}
		return fmt.Errorf("opening state file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			f.logger.Debug("failed to close state file", "error", closeErr)
		}
	}()

	var entries map[string][]byte
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding state file %s: %w", f.path, err)
	}
	maps.Copy(f.data, entries)
	f.logger.Debug("loaded state from disk", "path", f.path, "entries", len(entries))
	return nil
}

// save must be called with f.mu held.
func (f *File) save(ctx context.Context) error {
	return retry.Do(
		func() error {
			return f.writeFile()
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(25*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(25*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying state write", "attempt", n+1, "path", f.path, "error", err)
		}),
	)
}

func (f *File) writeFile() error {
	file, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tempPath := file.Name()
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			f.logger.Debug("failed to remove temp file", "error", removeErr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(f.data); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("syncing state file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
