package layout

import (
	"strings"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// Strategy selects how subtree width is measured and turned into offsets.
type Strategy string

const (
	// WidthBySize measures width as node count and centers children.
	WidthBySize Strategy = "size"
	// WidthByDepth measures width as subtree height.
	WidthByDepth Strategy = "depth"
)

const (
	// DefaultHorizontalUnit is the horizontal space reserved per unit of width.
	DefaultHorizontalUnit = 40.0
	// DefaultLevelGap is the vertical distance between tree levels.
	DefaultLevelGap = 80.0
)

// Strategies lists the supported strategies, default first.
var Strategies = []Strategy{WidthBySize, WidthByDepth}

// ParseStrategy maps a user-supplied name to a Strategy.
// The empty string selects [WidthBySize].
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", WidthBySize:
		return WidthBySize, nil
	case WidthByDepth:
		return WidthByDepth, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q (must be 'size' or 'depth')", s)
}

// Config holds the resolved layout parameters.
type Config struct {
	Strategy       Strategy
	HorizontalUnit float64
	LevelGap       float64
}

// DefaultConfig returns the canonical parameters: size strategy, 40 units
// horizontally and 80 units between levels.
func DefaultConfig() Config {
	return Config{
		Strategy:       WidthBySize,
		HorizontalUnit: DefaultHorizontalUnit,
		LevelGap:       DefaultLevelGap,
	}
}

// Validate checks that the configuration can produce a layout.
func (c Config) Validate() error {
	if c.Strategy != WidthBySize && c.Strategy != WidthByDepth {
		return errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q", c.Strategy)
	}
	if c.HorizontalUnit <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "horizontal unit must be positive, got %v", c.HorizontalUnit)
	}
	if c.LevelGap <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "level gap must be positive, got %v", c.LevelGap)
	}
	return nil
}

// Option configures a layout computation.
type Option func(*Config)

// WithStrategy selects the width strategy.
func WithStrategy(s Strategy) Option { return func(c *Config) { c.Strategy = s } }

// WithHorizontalUnit sets the horizontal space per unit of width.
func WithHorizontalUnit(u float64) Option { return func(c *Config) { c.HorizontalUnit = u } }

// WithLevelGap sets the vertical distance between levels.
func WithLevelGap(g float64) Option { return func(c *Config) { c.LevelGap = g } }

// WithConfig replaces all parameters at once.
func WithConfig(cfg Config) Option { return func(c *Config) { *c = cfg } }

// NewConfig applies opts on top of [DefaultConfig].
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
