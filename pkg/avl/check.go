package avl

import (
	"cmp"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// Check walks the whole tree and verifies BST ordering, AVL balance, cached
// heights, key uniqueness and the node count. It returns nil for a healthy
// tree and an [errors.ErrCodeInvariant] error describing the first violation
// otherwise.
//
// Insert never calls Check; it exists for tests and diagnostics.
func (t *Tree[K]) Check() error {
	count, _, err := check(t.root, nil, nil)
	if err != nil {
		return err
	}
	if count != t.size {
		return errors.New(errors.ErrCodeInvariant, "tree reports %d keys but holds %d nodes", t.size, count)
	}
	return nil
}

// check returns the node count and the recomputed height of n's subtree.
// lo and hi are exclusive bounds inherited from the ancestors.
func check[K cmp.Ordered](n *Node[K], lo, hi *K) (count, height int, err error) {
	if n == nil {
		return 0, 0, nil
	}
	if lo != nil && n.Key <= *lo {
		return 0, 0, errors.New(errors.ErrCodeInvariant, "key %v is not greater than ancestor %v", n.Key, *lo)
	}
	if hi != nil && n.Key >= *hi {
		return 0, 0, errors.New(errors.ErrCodeInvariant, "key %v is not less than ancestor %v", n.Key, *hi)
	}

	lc, lh, err := check(n.Left, lo, &n.Key)
	if err != nil {
		return 0, 0, err
	}
	rc, rh, err := check(n.Right, &n.Key, hi)
	if err != nil {
		return 0, 0, err
	}

	height = 1 + max(lh, rh)
	if n.Height != height {
		return 0, 0, errors.New(errors.ErrCodeInvariant, "node %v caches height %d, actual %d", n.Key, n.Height, height)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, 0, errors.New(errors.ErrCodeInvariant, "node %v has balance factor %d", n.Key, bf)
	}
	return lc + rc + 1, height, nil
}
