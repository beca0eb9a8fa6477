package server

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/pipeline"
	"github.com/matzehuels/avlviz/pkg/store"
)

// hostedTree is one live tree. Its mutex serializes inserts and layout
// passes, which both write to the nodes.
type hostedTree struct {
	mu        sync.Mutex
	snap      store.Snapshot
	tree      *avl.Tree[int]
	rotations []rotationJSON
}

type rotationJSON struct {
	Case     string `json:"case"`
	Pivot    int    `json:"pivot"`
	NewRoot  int    `json:"new_root"`
	Inserted int    `json:"inserted"`
}

// insertResult reports what one batch did.
type insertResult struct {
	Inserted   []int          `json:"inserted"`
	Duplicates []int          `json:"duplicates"`
	Rotations  []rotationJSON `json:"rotations"`
}

func newHostedTree(snap store.Snapshot) *hostedTree {
	h := &hostedTree{snap: snap}
	h.tree = avl.New(avl.WithRotationHook(func(r avl.Rotation[int]) {
		h.rotations = append(h.rotations, rotationJSON{
			Case:     r.Case.String(),
			Pivot:    r.Pivot,
			NewRoot:  r.NewRoot,
			Inserted: r.Inserted,
		})
	}))
	h.tree.InsertAll(snap.Keys...)
	h.rotations = nil
	return h
}

// insert adds keys in order. The caller holds h.mu.
func (h *hostedTree) insert(keys []int) insertResult {
	res := insertResult{Inserted: []int{}, Duplicates: []int{}}
	h.rotations = nil
	for _, k := range keys {
		if h.tree.Insert(k) {
			res.Inserted = append(res.Inserted, k)
		} else {
			res.Duplicates = append(res.Duplicates, k)
		}
	}
	res.Rotations = h.rotations
	if res.Rotations == nil {
		res.Rotations = []rotationJSON{}
	}
	return res
}

// layout recomputes positions. The caller holds h.mu.
func (h *hostedTree) layout(ctx context.Context, opts pipeline.Options) (graph.Layout, error) {
	return pipeline.GenerateLayout(ctx, h.tree, opts)
}

// lookup returns the live tree with id, loading it from the store on first
// access.
func (s *Server) lookup(ctx context.Context, id string) (*hostedTree, error) {
	s.mu.RLock()
	h, ok := s.trees[id]
	s.mu.RUnlock()
	if ok {
		return h, nil
	}
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "tree %q not found", id)
	}

	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.trees[id]; ok {
		return h, nil
	}
	h = newHostedTree(snap)
	s.trees[id] = h
	s.logger.Debug("loaded tree", "id", id, "keys", len(snap.Keys))
	return h, nil
}

func (s *Server) host(h *hostedTree) {
	s.mu.Lock()
	s.trees[h.snap.ID] = h
	s.mu.Unlock()
}

// forget drops the live tree and its snapshot. It reports not found only when
// neither existed.
func (s *Server) forget(ctx context.Context, id string) error {
	s.mu.Lock()
	_, live := s.trees[id]
	delete(s.trees, id)
	s.mu.Unlock()

	if s.store == nil {
		if !live {
			return errors.New(errors.ErrCodeNotFound, "tree %q not found", id)
		}
		return nil
	}
	err := s.store.Delete(ctx, id)
	if live && errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		return nil
	}
	return err
}

// commit saves the snapshot extended by keys, then inserts them into the
// live tree. A failed save leaves both untouched. The caller holds h.mu.
func (s *Server) commit(ctx context.Context, h *hostedTree, keys []int) (insertResult, error) {
	next := h.snap
	next.Keys = slices.Clone(h.snap.Keys)
	next.Append(keys...)
	if s.store != nil {
		if err := s.store.Save(ctx, next); err != nil {
			return insertResult{}, err
		}
	}
	h.snap = next
	return h.insert(keys), nil
}
