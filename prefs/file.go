package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// NewFileStore returns a Store backed by the JSON document <dir>/<name>.json.
// The directory is created on the first write.
func NewFileStore(dir string, name string) *FileStore {
	if name == "" {
		name = DefaultName
	}
	return &FileStore{path: filepath.Join(dir, name+".json")}
}

// FileStore keeps every entry of one preference collection in a single file.
// Writes replace the file atomically so a crash never leaves a torn document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) GetInt(_ context.Context, key string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return 0, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) PutInt(_ context.Context, key string, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = v
	return f.write(values)
}

func (f *FileStore) read() (map[string]int, error) {
	values := make(map[string]int)
	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, errors.Wrap(err, "read preferences")
	}
	if len(b) == 0 {
		return values, nil
	}
	if err = json.Unmarshal(b, &values); err != nil {
		return nil, errors.Wrapf(err, "decode %s", f.path)
	}
	return values, nil
}

func (f *FileStore) write(values map[string]int) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode preferences")
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create preferences directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.path), "replace preferences")
}
