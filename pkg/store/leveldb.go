package store

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// Key layout: a version record plus one "S"-prefixed record per snapshot.
var (
	versionKey     = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}
	snapshotPrefix = []byte{'S'}
)

const currentDBVersion = 1

// LevelDBStore keeps snapshots in an embedded LevelDB database. goleveldb
// handles its own locking; the store adds none.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens or creates the database at path. A database written
// by a newer version is refused.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &ldb_opt.Options{ErrorIfExist: false})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open leveldb %s", path)
	}

	version, err := getVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	switch {
	case version == 0:
		if err := putVersion(db, currentDBVersion); err != nil {
			db.Close()
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "tag database version")
		}
	case version > currentDBVersion:
		db.Close()
		return nil, errors.New(errors.ErrCodeUnsupported, "snapshot database version %d > supported version %d", version, currentDBVersion)
	}
	return &LevelDBStore{db: db}, nil
}

// Save inserts or replaces s.
func (l *LevelDBStore) Save(ctx context.Context, s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	if err := l.db.Put(snapshotKey(s.ID), data, nil); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	return nil
}

// Get returns the snapshot with id.
func (l *LevelDBStore) Get(ctx context.Context, id string) (Snapshot, error) {
	data, err := l.db.Get(snapshotKey(id), nil)
	if err == leveldb.ErrNotFound {
		return Snapshot{}, notFound(id)
	}
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "read snapshot")
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot %s", id)
	}
	return s, nil
}

// List scans the snapshot prefix.
func (l *LevelDBStore) List(ctx context.Context) ([]Snapshot, error) {
	iter := l.db.NewIterator(ldb_util.BytesPrefix(snapshotPrefix), nil)
	defer iter.Release()

	var snaps []Snapshot
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var s Snapshot
		if err := json.Unmarshal(iter.Value(), &s); err != nil {
			continue
		}
		snaps = append(snaps, s)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list snapshots")
	}
	sortRecent(snaps)
	return snaps, nil
}

// Delete removes the snapshot with id.
func (l *LevelDBStore) Delete(ctx context.Context, id string) error {
	key := snapshotKey(id)
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot")
	}
	if !ok {
		return notFound(id)
	}
	if err := l.db.Delete(key, nil); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot")
	}
	return nil
}

// Close closes the database.
func (l *LevelDBStore) Close() error {
	return l.db.Close()
}

func snapshotKey(id string) []byte {
	return append(append([]byte{}, snapshotPrefix...), id...)
}

func getVersion(db *leveldb.DB) (int, error) {
	value, err := db.Get(versionKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read database version")
	}
	if len(value) != 4 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "incompatible database version length: expected: %d  actual: %d", 4, len(value))
	}
	return int(binary.BigEndian.Uint32(value)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, uint32(version))
	return db.Put(versionKey, value, nil)
}

// Ensure LevelDBStore implements Store.
var _ Store = (*LevelDBStore)(nil)
