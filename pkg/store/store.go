package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/config"
	"github.com/matzehuels/avlviz/pkg/errors"
)

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot is a named, persisted insertion sequence.
type Snapshot struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Keys      []int     `json:"keys" bson:"keys"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewSnapshot creates a snapshot with a fresh ID.
func NewSnapshot(name string, keys []int) Snapshot {
	now := time.Now().UTC()
	return Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Keys:      slices.Clone(keys),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Tree replays the key sequence into a new tree.
func (s *Snapshot) Tree() *avl.Tree[int] {
	t := avl.New[int]()
	t.InsertAll(s.Keys...)
	return t
}

// Append records more inserted keys and bumps UpdatedAt.
func (s *Snapshot) Append(keys ...int) {
	s.Keys = append(s.Keys, keys...)
	s.UpdatedAt = time.Now().UTC()
}

// Validate checks the fields every backend relies on.
func (s *Snapshot) Validate() error {
	if err := errors.ValidateName(s.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot id")
	}
	if s.Name != "" {
		if err := errors.ValidateName(s.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot name")
		}
	}
	return nil
}

// =============================================================================
// Store
// =============================================================================

// Store persists snapshots.
type Store interface {
	// Save inserts or replaces the snapshot with s.ID.
	Save(ctx context.Context, s Snapshot) error

	// Get returns the snapshot with the given ID, or an error with code
	// SNAPSHOT_NOT_FOUND.
	Get(ctx context.Context, id string) (Snapshot, error)

	// List returns every snapshot, most recently updated first.
	List(ctx context.Context) ([]Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot is an error
	// with code SNAPSHOT_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Open creates the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Kind() {
	case config.StoreMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	case config.StoreLevelDB:
		dir, err := cfg.SnapshotDir()
		if err != nil {
			return nil, err
		}
		return NewLevelDBStore(dir + ".leveldb")
	case config.StoreFile:
		dir, err := cfg.SnapshotDir()
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
}

// Find resolves ref by exact ID, then by name, then by unique ID prefix.
func Find(ctx context.Context, st Store, ref string) (Snapshot, error) {
	if s, err := st.Get(ctx, ref); err == nil {
		return s, nil
	} else if !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		return Snapshot{}, err
	}

	all, err := st.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	for _, s := range all {
		if s.Name == ref {
			return s, nil
		}
	}

	var match []Snapshot
	for _, s := range all {
		if strings.HasPrefix(s.ID, ref) {
			match = append(match, s)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return Snapshot{}, notFound(ref)
	}
	return Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "snapshot reference %q is ambiguous (%d matches)", ref, len(match))
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", id)
}

// sortRecent orders snapshots most recently updated first, then by ID.
func sortRecent(snaps []Snapshot) {
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
