package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/avlviz/pkg/buildinfo"
	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/pipeline"
	"github.com/matzehuels/avlviz/pkg/store"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

type createRequest struct {
	Keys []int  `json:"keys"`
	Name string `json:"name,omitempty"`
}

type insertRequest struct {
	Keys []int `json:"keys"`
}

type treeResponse struct {
	ID     string       `json:"id"`
	Name   string       `json:"name,omitempty"`
	Keys   []int        `json:"keys"`
	Layout graph.Layout `json:"layout"`
}

type insertResponse struct {
	treeResponse
	insertResult
}

type summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	KeyCount  int       `json:"key_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatPDF:  "application/pdf",
	graph.FormatJSON: "application/json",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatText: "text/plain; charset=utf-8",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.trees)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"trees":   n,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var snaps []store.Snapshot
	if s.store != nil {
		var err error
		if snaps, err = s.store.List(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		s.mu.RLock()
		for _, h := range s.trees {
			h.mu.Lock()
			snaps = append(snaps, h.snap)
			h.mu.Unlock()
		}
		s.mu.RUnlock()
		slices.SortFunc(snaps, func(a, b store.Snapshot) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}

	out := make([]summary, len(snaps))
	for i, snap := range snaps {
		out[i] = summary{ID: snap.ID, Name: snap.Name, KeyCount: len(snap.Keys), UpdatedAt: snap.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkKeys(req.Keys, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := errors.ValidateName(req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := newHostedTree(store.NewSnapshot(req.Name, nil))
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := s.commit(r.Context(), h, req.Keys)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := h.layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.host(h)

	s.logger.Info("created tree", "id", h.snap.ID, "keys", len(req.Keys), "size", l.Size)
	w.Header().Set("Location", "/trees/"+h.snap.ID)
	writeJSON(w, http.StatusCreated, insertResponse{treeResponse: s.treeResponse(h, l), insertResult: res})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	l, err := h.layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.treeResponse(h, l))
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkKeys(req.Keys, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := s.commit(r.Context(), h, req.Keys)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := h.layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("inserted keys", "id", h.snap.ID, "inserted", len(res.Inserted), "rotations", len(res.Rotations))
	writeJSON(w, http.StatusOK, insertResponse{treeResponse: s.treeResponse(h, l), insertResult: res})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	h, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h.mu.Lock()
	l, err := h.layout(r.Context(), opts)
	h.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.forget(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted tree", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) treeResponse(h *hostedTree, l graph.Layout) treeResponse {
	return treeResponse{ID: h.snap.ID, Name: h.snap.Name, Keys: slices.Clone(h.snap.Keys), Layout: l}
}

func checkKeys(keys []int, allowEmpty bool) error {
	if len(keys) == 0 && !allowEmpty {
		return errors.New(errors.ErrCodeInvalidInput, "keys must not be empty")
	}
	if len(keys) > MaxKeysPerRequest {
		return errors.New(errors.ErrCodeInvalidInput, "too many keys: %d (max %d)", len(keys), MaxKeysPerRequest)
	}
	return nil
}

// options applies query parameters on top of the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Highlight = slices.Clone(s.defaults.Highlight)
	q := r.URL.Query()

	if v := q.Get("strategy"); v != "" {
		opts.Strategy = v
	}
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	if v := q.Get("highlight"); v != "" {
		opts.Highlight = strings.Split(v, ",")
	}
	for name, dst := range map[string]*bool{"balance": &opts.Balance, "heights": &opts.Heights} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", name, v)
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*float64{"radius": &opts.Radius, "scale": &opts.Scale} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a positive number", name, v)
			}
			*dst = f
		}
	}

	if err := opts.ValidateForLayout(); err != nil {
		return opts, err
	}
	opts.Logger = s.logger
	return opts, nil
}
