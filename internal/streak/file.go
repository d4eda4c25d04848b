package streak

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type streakFile struct {
	WinStreak int `yaml:"win_streak"`
}

// FileStore keeps the streak in a small YAML file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns 0 when nothing has been saved yet.
func (s *FileStore) Get(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read streak: %w", err)
	}
	var f streakFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse streak file %s: %w", s.path, err)
	}
	return f.WinStreak, nil
}

func (s *FileStore) Set(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	data, err := yaml.Marshal(streakFile{WinStreak: n})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write streak: %w", err)
	}
	return nil
}
