package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/keys"
	"github.com/matzehuels/avlviz/pkg/layout"
)

// AppName names the configuration, cache and data directories.
const AppName = "avlviz"

// =============================================================================
// Config Sections
// =============================================================================

// Config is the full settings file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Random RandomConfig `toml:"random"`
}

// LayoutConfig holds the layout parameters.
type LayoutConfig struct {
	Strategy       string  `toml:"strategy"`
	HorizontalUnit float64 `toml:"horizontal_unit"`
	LevelGap       float64 `toml:"level_gap"`
	OriginX        float64 `toml:"origin_x"`
	OriginY        float64 `toml:"origin_y"`
}

// RenderConfig holds renderer defaults.
type RenderConfig struct {
	Type    string   `toml:"type"`
	Formats []string `toml:"formats"`
	Radius  float64  `toml:"radius"`
	Balance bool     `toml:"balance"`
	Heights bool     `toml:"heights"`
	Scale   float64  `toml:"scale"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	Redis    string        `toml:"redis"`
	TTL      time.Duration `toml:"ttl"`
}

// StoreConfig selects the snapshot store backend.
type StoreConfig struct {
	// Backend is "file", "leveldb" or "mongo". Empty selects mongo when
	// MongoURI is set and file otherwise.
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RandomConfig configures random key batches.
type RandomConfig struct {
	Count int `toml:"count"`
	Max   int `toml:"max"`
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Strategy:       string(layout.WidthBySize),
			HorizontalUnit: layout.DefaultHorizontalUnit,
			LevelGap:       layout.DefaultLevelGap,
		},
		Render: RenderConfig{
			Type:    graph.VizTypeTree,
			Formats: []string{graph.FormatSVG},
			Radius:  20,
			Scale:   2,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Store: StoreConfig{
			Database: AppName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Random: RandomConfig{
			Count: keys.DefaultRandomCount,
			Max:   keys.DefaultRandomMax,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path on top of [Default]. An empty path selects
// [DefaultPath], which may be absent.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text on top of [Default] and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Layout.Config(); err != nil {
		return err
	}
	switch c.Render.Type {
	case graph.VizTypeTree, graph.VizTypeNodelink:
	default:
		return errors.New(errors.ErrCodeInvalidVizType, "render type %q (must be %q or %q)", c.Render.Type, graph.VizTypeTree, graph.VizTypeNodelink)
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
		}
	}
	if c.Render.Radius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render radius must be positive")
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render scale must be positive")
	}
	switch c.Store.Backend {
	case "", StoreFile, StoreLevelDB:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend %q needs mongo_uri", StoreMongo)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Random.Count < 0 || c.Random.Max < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "random count must be >= 0 and max >= 1")
	}
	return nil
}

// Snapshot store backends.
const (
	StoreFile    = "file"
	StoreLevelDB = "leveldb"
	StoreMongo   = "mongo"
)

// Kind resolves the effective backend.
func (s StoreConfig) Kind() string {
	if s.Backend != "" {
		return s.Backend
	}
	if s.MongoURI != "" {
		return StoreMongo
	}
	return StoreFile
}

// Formats lists every output format a render setting may name.
var Formats = []string{
	graph.FormatSVG, graph.FormatPNG, graph.FormatPDF,
	graph.FormatJSON, graph.FormatDOT, graph.FormatText,
}

// Config converts the section into layout parameters.
func (l LayoutConfig) Config() (layout.Config, error) {
	s, err := layout.ParseStrategy(l.Strategy)
	if err != nil {
		return layout.Config{}, err
	}
	cfg := layout.Config{Strategy: s, HorizontalUnit: l.HorizontalUnit, LevelGap: l.LevelGap}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// Origin returns the root position.
func (l LayoutConfig) Origin() layout.Point {
	return layout.Point{X: l.OriginX, Y: l.OriginY}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/avlviz/config.toml).
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the configured cache directory, or the XDG default
// (~/.cache/avlviz).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// SnapshotDir returns the configured snapshot directory, or the XDG default
// (~/.local/share/avlviz/snapshots).
func (s StoreConfig) SnapshotDir() (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapshots"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate home directory")
	}
	return filepath.Join(home, fallback, AppName), nil
}
