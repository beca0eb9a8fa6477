package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout positions every node of t and exports the result in its
// serialization format. It recomputes widths on the whole tree, so call it
// again after every insertion.
func GenerateLayout(ctx context.Context, t *avl.Tree[int], opts Options) (graph.Layout, error) {
	cfg, err := opts.ResolveLayout()
	if err != nil {
		return graph.Layout{}, err
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.Strategy, t.Len())
	start := time.Now()

	l := graph.FromTree(t, opts.Origin(), cfg)

	observability.Pipeline().OnLayoutComplete(ctx, opts.Strategy, time.Since(start), nil)
	return l, nil
}
