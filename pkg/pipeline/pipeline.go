// Package pipeline provides the core visualization pipeline for avlviz.
//
// This package implements the complete build → layout → render pipeline that
// is shared by the CLI and the HTTP server. By centralizing this logic, both
// entry points apply the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Insert the key sequence into an AVL tree, one key at a time
//  2. Layout: Compute the position of every node and serialize the result
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, text, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Formats within the render stage are produced concurrently.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Keys:    []int{30, 20, 10, 40},
//	    VizType: "tree",
//	    Formats: []string{"svg", "txt"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	tree := pipeline.BuildTree(ctx, keys, logger)
//
//	// Layout with an existing tree
//	l, err := pipeline.GenerateLayout(ctx, tree, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/cache"
	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/layout"
	"github.com/matzehuels/avlviz/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultRadius is the node circle radius in SVG output.
	DefaultRadius = svg.DefaultRadius

	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeTree
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	graph.FormatSVG:  true,
	graph.FormatPNG:  true,
	graph.FormatPDF:  true,
	graph.FormatJSON: true,
	graph.FormatDOT:  true,
	graph.FormatText: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Keys []int `json:"keys"`

	// Layout options
	Strategy string  `json:"strategy,omitempty"`
	Unit     float64 `json:"unit,omitempty"`
	LevelGap float64 `json:"level_gap,omitempty"`
	OriginX  float64 `json:"origin_x,omitempty"`
	OriginY  float64 `json:"origin_y,omitempty"`

	// Render options
	VizType   string   `json:"viz_type,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Balance   bool     `json:"balance,omitempty"`   // annotate balance factors
	Heights   bool     `json:"heights,omitempty"`   // annotate node heights
	Highlight []string `json:"highlight,omitempty"` // node IDs to accent
	Refresh   bool     `json:"refresh,omitempty"`   // bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the built tree. It is nil when the layout came from the cache.
	Tree *avl.Tree[int]

	// KeysHash is the content hash of the input key sequence.
	KeysHash string

	// Layout contains the positioned nodes and edges.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeyCount   int
	NodeCount  int
	Height     int
	Rotations  int
	Duplicates int // keys skipped because they were already present
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache (build skipped)
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Strategy == "" {
		o.Strategy = string(layout.WidthBySize)
	}
	if o.Unit == 0 {
		o.Unit = layout.DefaultHorizontalUnit
	}
	if o.LevelGap == 0 {
		o.LevelGap = layout.DefaultLevelGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	_, err := o.ResolveLayout()
	return err
}

// ResolveLayout sets layout defaults and returns the validated engine
// parameters.
func (o *Options) ResolveLayout() (layout.Config, error) {
	o.SetLayoutDefaults()
	return o.LayoutConfig()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %g", o.Radius)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return nil
}

// LayoutConfig converts the layout options into engine parameters.
func (o *Options) LayoutConfig() (layout.Config, error) {
	s, err := layout.ParseStrategy(o.Strategy)
	if err != nil {
		return layout.Config{}, err
	}
	cfg := layout.NewConfig(
		layout.WithStrategy(s),
		layout.WithHorizontalUnit(o.Unit),
		layout.WithLevelGap(o.LevelGap),
	)
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// Origin returns the root position.
func (o *Options) Origin() layout.Point {
	return layout.Point{X: o.OriginX, Y: o.OriginY}
}

// IsNodelink returns true if this is a Graphviz visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// Detailed reports whether labels carry per-node annotations.
func (o *Options) Detailed() bool {
	return o.Balance || o.Heights
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy: o.Strategy,
		Unit:     o.Unit,
		LevelGap: o.LevelGap,
		OriginX:  o.OriginX,
		OriginY:  o.OriginY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:    format,
		VizType:   o.VizType,
		Balance:   o.Balance,
		Heights:   o.Heights,
		Highlight: o.Highlight,
	}
	// Radius and scale only reach the formats that draw circles or rasterize.
	switch format {
	case graph.FormatSVG, graph.FormatPDF:
		opts.Radius = o.Radius
	case graph.FormatPNG:
		opts.Radius = o.Radius
		opts.Scale = o.Scale
	}
	return opts
}

// HashKeys returns the content hash of a key sequence. Order matters: the
// same keys inserted in another order may build a different tree.
func HashKeys(keys []int) string {
	return cache.HashKeys(keys)
}
