package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/observability"
)

// BuildTree inserts keys in order into a new tree. Duplicates are skipped.
// Every rebalance and skipped duplicate is logged at debug level and
// reported to the tree hooks.
func BuildTree(ctx context.Context, keys []int, logger *log.Logger) *avl.Tree[int] {
	if logger == nil {
		logger = log.Default()
	}
	observability.Pipeline().OnBuildStart(ctx, len(keys))
	start := time.Now()

	hooks := observability.Tree()
	t := avl.New(avl.WithRotationHook(func(r avl.Rotation[int]) {
		hooks.OnRotation(ctx, r.Case.String(), r.Pivot, r.NewRoot)
		logger.Debug("rebalanced",
			"case", r.Case,
			"pivot", r.Pivot,
			"new_root", r.NewRoot,
			"inserted", r.Inserted)
	}))
	for _, k := range keys {
		if !t.Insert(k) {
			hooks.OnDuplicate(ctx, k)
			logger.Debug("skipped duplicate key", "key", k)
		}
	}

	observability.Pipeline().OnBuildComplete(ctx, t.Len(), t.Stats().Rotations(), time.Since(start), nil)
	return t
}
