// Package slot stores one opaque value under a fixed key and gives it back
// whole. It is the local replacement for a browser's localStorage entry.
package slot

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("slot empty")

type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the previous value.
	Save(ctx context.Context, data []byte) error
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

type Options struct {
	Driver string
	// Path is the database file for sqlite and the value file for file.
	Path string
	// Key names the row inside the sqlite kv table.
	Key string
}

// Open builds the slot for the configured driver. SQLite slots are migrated
// before being returned.
func Open(ctx context.Context, opts Options) (Slot, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		dsn, err := SQLiteFileDSN(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite dsn: %w", err)
		}
		s, err := NewSQLiteSlot(dsn, opts.Key)
		if err != nil {
			return nil, fmt.Errorf("open sqlite slot: %w", err)
		}
		if err := s.ApplyMigrations(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrate sqlite slot: %w", err)
		}
		return s, nil
	case DriverFile:
		s, err := NewFileSlot(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open file slot: %w", err)
		}
		return s, nil
	case DriverMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
