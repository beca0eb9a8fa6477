package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/avlviz/pkg/config"
	"github.com/matzehuels/avlviz/pkg/errors"
)

func TestNewSnapshot(t *testing.T) {
	keys := []int{30, 20, 10}
	s := NewSnapshot("demo", keys)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", s.ID, err)
	}
	if !s.CreatedAt.Equal(s.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should start equal")
	}
	keys[0] = 99
	if s.Keys[0] != 30 {
		t.Error("NewSnapshot should copy keys")
	}
	if NewSnapshot("", nil).ID == s.ID {
		t.Error("IDs should be unique")
	}
}

func TestSnapshotTree(t *testing.T) {
	s := NewSnapshot("", []int{30, 20, 10, 20})
	tr := s.Tree()
	if tr.Len() != 3 || tr.Root().Key != 20 {
		t.Errorf("Tree() len=%d root=%v, want 3 nodes rooted at 20", tr.Len(), tr.Root().Key)
	}

	before := s.UpdatedAt
	time.Sleep(time.Millisecond)
	s.Append(40, 50)
	if !slices.Equal(s.Keys, []int{30, 20, 10, 20, 40, 50}) {
		t.Errorf("Keys = %v after Append", s.Keys)
	}
	if !s.UpdatedAt.After(before) {
		t.Error("Append should bump UpdatedAt")
	}
	if got := s.Tree(); got.Len() != 5 || got.Check() != nil {
		t.Errorf("replayed tree len=%d check=%v", got.Len(), got.Check())
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr bool
	}{
		{"ok", Snapshot{ID: "abc", Name: "my tree"}, false},
		{"no name", Snapshot{ID: "abc"}, false},
		{"empty id", Snapshot{}, true},
		{"traversal id", Snapshot{ID: "../etc"}, true},
		{"slash name", Snapshot{ID: "abc", Name: "a/b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.snap.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// exerciseStore runs the behavior every backend shares.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a := Snapshot{ID: "aaa111", Name: "first", Keys: []int{1, 2, 3}, CreatedAt: base, UpdatedAt: base}
	b := Snapshot{ID: "bbb222", Name: "second", Keys: []int{9}, CreatedAt: base, UpdatedAt: base.Add(time.Hour)}
	for _, s := range []Snapshot{a, b} {
		if err := st.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s) error = %v", s.ID, err)
		}
	}

	got, err := st.Get(ctx, "aaa111")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "first" || !slices.Equal(got.Keys, a.Keys) || !got.UpdatedAt.Equal(base) {
		t.Errorf("Get() = %+v, want %+v", got, a)
	}

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "bbb222" || list[1].ID != "aaa111" {
		t.Errorf("List() order = %v, want most recent first", ids(list))
	}

	// Save replaces.
	a.Append(4)
	if err := st.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := st.Get(ctx, "aaa111"); len(got.Keys) != 4 {
		t.Errorf("Keys after resave = %v, want 4 keys", got.Keys)
	}
	if list, _ := st.List(ctx); len(list) != 2 || list[0].ID != "aaa111" {
		t.Errorf("List() after resave = %v, want aaa111 first", ids(list))
	}

	if err := st.Delete(ctx, "bbb222"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Get(ctx, "bbb222"); !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("Get(deleted) error = %v, want %v", err, errors.ErrCodeSnapshotNotFound)
	}
	if err := st.Delete(ctx, "bbb222"); !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("Delete(missing) error = %v, want %v", err, errors.ErrCodeSnapshotNotFound)
	}

	if err := st.Save(ctx, Snapshot{ID: "a/b"}); err == nil {
		t.Error("Save with invalid ID should fail")
	}
}

func ids(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.ID
	}
	return out
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer st.Close()
	exerciseStore(t, st)
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, _ := NewFileStore(dir)

	st.Save(ctx, NewSnapshot("ok", []int{1}))
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)
	os.WriteFile(filepath.Join(dir, ".snapshot-123"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644)

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "ok" {
		t.Errorf("List() = %v, want only the valid snapshot", ids(list))
	}

	if _, err := st.Get(ctx, "broken"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Get(broken) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := st.Get(ctx, "../broken"); err == nil {
		t.Error("Get with traversal ID should fail")
	}
}

func TestLevelDBStore(t *testing.T) {
	st, err := NewLevelDBStore(filepath.Join(t.TempDir(), "snaps.leveldb"))
	if err != nil {
		t.Fatalf("NewLevelDBStore() error = %v", err)
	}
	defer st.Close()
	exerciseStore(t, st)
}

func TestLevelDBStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snaps.leveldb")

	st, err := NewLevelDBStore(path)
	if err != nil {
		t.Fatalf("NewLevelDBStore() error = %v", err)
	}
	s := NewSnapshot("kept", []int{5, 4, 3})
	st.Save(ctx, s)
	st.Close()

	st, err = NewLevelDBStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got.Name != "kept" {
		t.Errorf("Get() after reopen = %+v, %v", got, err)
	}

	// A database from a newer version is refused.
	putVersion(st.db, currentDBVersion+1)
	st.Close()
	if _, err := NewLevelDBStore(path); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("open newer database error = %v, want %v", err, errors.ErrCodeUnsupported)
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "http://localhost:27017", "")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewMongoStore(http://) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	st, _ := NewFileStore(t.TempDir())
	for _, s := range []Snapshot{
		{ID: "abc123", Name: "alpha"},
		{ID: "abd456", Name: "beta"},
		{ID: "xyz789"},
	} {
		st.Save(ctx, s)
	}

	tests := []struct {
		ref      string
		wantID   string
		wantCode errors.Code
	}{
		{"abc123", "abc123", ""},
		{"beta", "abd456", ""},
		{"xy", "xyz789", ""},
		{"abc", "abc123", ""},
		{"ab", "", errors.ErrCodeInvalidInput},
		{"nope", "", errors.ErrCodeSnapshotNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Find(ctx, st, tt.ref)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Find(%q) error = %v, want %v", tt.ref, err, tt.wantCode)
				}
				return
			}
			if err != nil || got.ID != tt.wantID {
				t.Errorf("Find(%q) = %s, %v; want %s", tt.ref, got.ID, err, tt.wantID)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := Open(ctx, config.StoreConfig{Dir: filepath.Join(dir, "files")})
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	if _, ok := st.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", st)
	}
	st.Close()

	st, err = Open(ctx, config.StoreConfig{Backend: config.StoreLevelDB, Dir: filepath.Join(dir, "db")})
	if err != nil {
		t.Fatalf("Open(leveldb) error = %v", err)
	}
	if _, ok := st.(*LevelDBStore); !ok {
		t.Errorf("Open(leveldb) = %T, want *LevelDBStore", st)
	}
	st.Close()

	if _, err := Open(ctx, config.StoreConfig{Backend: "sqlite"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(sqlite) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}
