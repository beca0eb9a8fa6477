package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/observability"
	"github.com/matzehuels/avlviz/pkg/render"
	"github.com/matzehuels/avlviz/pkg/render/nodelink"
	"github.com/matzehuels/avlviz/pkg/render/svg"
	"github.com/matzehuels/avlviz/pkg/render/text"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(gctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat produces a single artifact. SVG, PNG and PDF depend on the
// visualization type; DOT, text and JSON do not.
func RenderFormat(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case graph.FormatJSON:
		return graph.MarshalLayout(l)
	case graph.FormatText:
		return []byte(text.Render(l, textOptions(opts)...)), nil
	case graph.FormatDOT:
		dopts := dotOptions(opts)
		dopts.Pinned = true
		return []byte(nodelink.ToDOT(l, dopts)), nil
	}

	if opts.IsNodelink() {
		dot := nodelink.ToDOT(l, dotOptions(opts))
		switch format {
		case graph.FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case graph.FormatPNG:
			return nodelink.RenderPNG(ctx, dot, opts.Scale)
		case graph.FormatPDF:
			return nodelink.RenderPDF(ctx, dot)
		}
		return nil, ValidateFormat(format)
	}

	doc := svg.Render(l, svgOptions(opts)...)
	switch format {
	case graph.FormatSVG:
		return doc, nil
	case graph.FormatPNG:
		return render.ToPNG(ctx, doc, opts.Scale)
	case graph.FormatPDF:
		return render.ToPDF(ctx, doc)
	}
	return nil, ValidateFormat(format)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(ctx, l, opts)
}

// svgOptions builds SVG rendering options.
func svgOptions(opts Options) []svg.Option {
	svgOpts := []svg.Option{svg.WithRadius(opts.Radius)}
	if opts.Balance {
		svgOpts = append(svgOpts, svg.WithBalance())
	}
	if opts.Heights {
		svgOpts = append(svgOpts, svg.WithHeights())
	}
	if len(opts.Highlight) > 0 {
		svgOpts = append(svgOpts, svg.WithHighlight(opts.Highlight...))
	}
	return svgOpts
}

func textOptions(opts Options) []text.Option {
	var textOpts []text.Option
	if opts.Balance {
		textOpts = append(textOpts, text.WithBalance())
	}
	if len(opts.Highlight) > 0 {
		textOpts = append(textOpts, text.WithMark(opts.Highlight...))
	}
	return textOpts
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed(), Highlight: opts.Highlight}
}
