// Package streak persists the player's consecutive win count between games.
package streak

import (
	"context"
	"fmt"
	"path/filepath"
)

// Store reads and writes the current win streak.
type Store interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, n int) error
}

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend, keeping its files under dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendYAML, "":
		return NewFileStore(filepath.Join(dir, "streak.yaml")), nil
	case BackendSQLite:
		s, err := OpenSQLite(filepath.Join(dir, "party.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown streak backend %q", backend)
	}
}

// Increment adds one win and returns the new streak.
func Increment(ctx context.Context, s Store) (int, error) {
	n, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	n++
	if err := s.Set(ctx, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset clears the streak after a loss.
func Reset(ctx context.Context, s Store) error {
	return s.Set(ctx, 0)
}
