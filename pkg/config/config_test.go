package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	lc, err := cfg.Layout.Config()
	if err != nil {
		t.Fatalf("Layout.Config() error: %v", err)
	}
	if lc != layout.DefaultConfig() {
		t.Errorf("Layout.Config() = %+v, want %+v", lc, layout.DefaultConfig())
	}
	if cfg.Random.Count != 20 || cfg.Random.Max != 60 {
		t.Errorf("Random = %+v, want 20 keys up to 60", cfg.Random)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[layout]
strategy = "depth"
level_gap = 50
origin_x = 400
origin_y = 30

[render]
type = "nodelink"
formats = ["svg", "png"]
balance = true

[cache]
redis = "redis://localhost:6379/0"
ttl = "90m"

[store]
mongo_uri = "mongodb://localhost:27017"

[random]
count = 5
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	lc, _ := cfg.Layout.Config()
	if lc.Strategy != layout.WidthByDepth || lc.LevelGap != 50 || lc.HorizontalUnit != layout.DefaultHorizontalUnit {
		t.Errorf("layout = %+v, want depth/50 with default unit", lc)
	}
	if o := cfg.Layout.Origin(); o != (layout.Point{X: 400, Y: 30}) {
		t.Errorf("Origin() = %v, want {400 30}", o)
	}
	if cfg.Render.Type != "nodelink" || !cfg.Render.Balance || !slices.Equal(cfg.Render.Formats, []string{"svg", "png"}) {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Radius != 20 {
		t.Errorf("Radius = %v, want default 20", cfg.Render.Radius)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Store.Database != AppName {
		t.Errorf("Database = %q, want %q", cfg.Store.Database, AppName)
	}
	if cfg.Random.Count != 5 || cfg.Random.Max != 60 {
		t.Errorf("Random = %+v, want count 5 max 60", cfg.Random)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantCode errors.Code
	}{
		{"Syntax", "[layout\n", errors.ErrCodeInvalidConfig},
		{"UnknownKey", "[layout]\nstrategyy = \"size\"\n", errors.ErrCodeInvalidConfig},
		{"UnknownSection", "[colors]\nroot = \"red\"\n", errors.ErrCodeInvalidConfig},
		{"BadStrategy", "[layout]\nstrategy = \"wide\"\n", errors.ErrCodeInvalidStrategy},
		{"BadUnit", "[layout]\nhorizontal_unit = 0\n", errors.ErrCodeInvalidInput},
		{"BadVizType", "[render]\ntype = \"tower\"\n", errors.ErrCodeInvalidVizType},
		{"BadFormat", "[render]\nformats = [\"gif\"]\n", errors.ErrCodeInvalidFormat},
		{"BadRadius", "[render]\nradius = -1\n", errors.ErrCodeInvalidConfig},
		{"BadRandom", "[random]\nmax = 0\n", errors.ErrCodeInvalidConfig},
		{"BadBackend", "[store]\nbackend = \"sqlite\"\n", errors.ErrCodeInvalidConfig},
		{"MongoWithoutURI", "[store]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Parse() error = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}

func TestStoreKind(t *testing.T) {
	tests := []struct {
		cfg  StoreConfig
		want string
	}{
		{StoreConfig{}, StoreFile},
		{StoreConfig{MongoURI: "mongodb://db"}, StoreMongo},
		{StoreConfig{Backend: StoreLevelDB, MongoURI: "mongodb://db"}, StoreLevelDB},
	}
	for _, tt := range tests {
		if got := tt.cfg.Kind(); got != tt.want {
			t.Errorf("%+v.Kind() = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestParseUnknownKeyNamesKey(t *testing.T) {
	_, err := Parse("[server]\nport = 80\n")
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("Parse() error = %v, want mention of server.port", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}

	// Default file is picked up once it exists.
	path, _ := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}

	// Explicit paths must exist.
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("[layout]\nstrategy = 3\n"), 0o644)
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(bad) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	if p, _ := DefaultPath(); p != filepath.Join("/tmp/cfg", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
	if p, _ := (CacheConfig{}).CacheDir(); p != filepath.Join("/tmp/cache", AppName) {
		t.Errorf("CacheDir() = %q", p)
	}
	if p, _ := (CacheConfig{Dir: "/x"}).CacheDir(); p != "/x" {
		t.Errorf("CacheDir() with Dir = %q, want /x", p)
	}
	if p, _ := (StoreConfig{}).SnapshotDir(); p != filepath.Join("/tmp/data", AppName, "snapshots") {
		t.Errorf("SnapshotDir() = %q", p)
	}
}

func TestPathsHomeFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	p, err := (CacheConfig{}).CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", AppName); p != want {
		t.Errorf("CacheDir() = %q, want %q", p, want)
	}
}
