package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// FileStore keeps one JSON file per snapshot: dir/<id>.json.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create snapshot dir")
	}
	return &FileStore{dir: dir}, nil
}

// Save writes s through a temporary file so readers never see a partial
// document.
func (f *FileStore) Save(ctx context.Context, s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".snapshot-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	if err := os.Rename(tmp.Name(), f.path(s.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	return nil
}

// Get reads the snapshot with id.
func (f *FileStore) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := errors.ValidateName(id); err != nil {
		return Snapshot{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.read(f.path(id))
}

// List reads every snapshot in the directory. Unreadable files are skipped.
func (f *FileStore) List(ctx context.Context) ([]Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list snapshots")
	}

	snaps := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		s, err := f.read(filepath.Join(f.dir, name))
		if err != nil {
			continue
		}
		snaps = append(snaps, s)
	}
	sortRecent(snaps)
	return snaps, nil
}

// Delete removes the snapshot file.
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateName(id); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot")
	}
	return nil
}

// Dir returns the snapshot directory.
func (f *FileStore) Dir() string { return f.dir }

// Close does nothing for the file store.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

func (f *FileStore) read(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Snapshot{}, notFound(strings.TrimSuffix(filepath.Base(path), ".json"))
	}
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "read snapshot")
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", filepath.Base(path))
	}
	return s, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
