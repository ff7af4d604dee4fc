package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const fileExt = ".json"

// FileStore keeps one <key>.json file per device in Dir. The file's
// modification time is the capture time.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(s.Dir, key+fileExt), nil
}

func (s *FileStore) Read(_ context.Context, key string) ([]byte, time.Time, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, time.Time{}, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// Write replaces the artifact atomically: readers see either the old file
// or the new one, never a partial write.
func (s *FileStore) Write(_ context.Context, key string, data []byte, capturedAt time.Time) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0o775); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir, "."+key+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Chtimes(tmpName, capturedAt, capturedAt); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}
