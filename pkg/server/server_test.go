package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/goleak"

	"github.com/matzehuels/avlviz/pkg/cache"
	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/observability"
	"github.com/matzehuels/avlviz/pkg/pipeline"
	"github.com/matzehuels/avlviz/pkg/render"
	"github.com/matzehuels/avlviz/pkg/store"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
	s := New(append([]Option{WithRunner(runner), WithLogger(logger)}, opts...)...)
	t.Cleanup(func() { s.Close() })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func create(t *testing.T, s *Server, body string) insertResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/trees", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /trees status = %d, body %s", rec.Code, rec.Body)
	}
	return decode[insertResponse](t, rec)
}

func TestHealth(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestCreateAndInsert(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/trees", `{"keys":[30,20,10],"name":"demo"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /trees status = %d, body %s", rec.Code, rec.Body)
	}
	created := decode[insertResponse](t, rec)
	if rec.Header().Get("Location") != "/trees/"+created.ID {
		t.Errorf("Location = %q, want /trees/%s", rec.Header().Get("Location"), created.ID)
	}
	if created.Name != "demo" || created.Layout.Root != "20" || created.Layout.Size != 3 {
		t.Errorf("created = name %q root %q size %d", created.Name, created.Layout.Root, created.Layout.Size)
	}
	wantRot := rotationJSON{Case: "left-left", Pivot: 30, NewRoot: 20, Inserted: 10}
	if len(created.Rotations) != 1 || created.Rotations[0] != wantRot {
		t.Errorf("rotations = %+v, want [%+v]", created.Rotations, wantRot)
	}

	rec = do(t, s, http.MethodPost, "/trees/"+created.ID+"/keys", `{"keys":[40,50,20]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST keys status = %d, body %s", rec.Code, rec.Body)
	}
	ins := decode[insertResponse](t, rec)
	if !slices.Equal(ins.Inserted, []int{40, 50}) || !slices.Equal(ins.Duplicates, []int{20}) {
		t.Errorf("inserted %v duplicates %v, want [40 50] and [20]", ins.Inserted, ins.Duplicates)
	}
	wantRot = rotationJSON{Case: "right-right", Pivot: 30, NewRoot: 40, Inserted: 50}
	if len(ins.Rotations) != 1 || ins.Rotations[0] != wantRot {
		t.Errorf("rotations = %+v, want [%+v]", ins.Rotations, wantRot)
	}
	if ins.Layout.Size != 5 || len(ins.Keys) != 6 {
		t.Errorf("size %d keys %v, want 5 nodes and 6 recorded keys", ins.Layout.Size, ins.Keys)
	}
	if err := ins.Layout.Validate(); err != nil {
		t.Errorf("layout invalid: %v", err)
	}
}

func TestGetWithOptions(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s, `{"keys":[1,2,3,4,5,6,7]}`).ID

	rec := do(t, s, http.MethodGet, "/trees/"+id+"?strategy=depth", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	got := decode[treeResponse](t, rec)
	if got.Layout.Strategy != "depth" {
		t.Errorf("strategy = %q, want depth", got.Layout.Strategy)
	}
	if n, _ := got.Layout.Node("1"); n.X != -120 {
		t.Errorf("node 1 at x=%v, want -120", n.X)
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s, `{"keys":[20,10,30]}`).ID

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"txt", "text/plain; charset=utf-8", "20"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph avl"},
		{"json", "application/json", `"root": "20"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/trees/"+id+"/render/"+tt.format+"?balance=true", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, rec.Body)
			}
		})
	}

	t.Run("png", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/trees/"+id+"/render/png", "")
		want := http.StatusOK
		if !render.Available() {
			want = http.StatusNotImplemented
		}
		if rec.Code != want {
			t.Errorf("status = %d, want %d", rec.Code, want)
		}
	})
}

func TestErrors(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s, `{"keys":[1]}`).ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown tree", "GET", "/trees/missing", "", 404, errors.ErrCodeNotFound},
		{"unknown format", "GET", "/trees/" + id + "/render/gif", "", 400, errors.ErrCodeInvalidFormat},
		{"bad strategy", "GET", "/trees/" + id + "?strategy=wide", "", 400, errors.ErrCodeInvalidStrategy},
		{"bad viz", "GET", "/trees/" + id + "/render/svg?viz=tower", "", 400, errors.ErrCodeInvalidVizType},
		{"bad bool", "GET", "/trees/" + id + "?balance=maybe", "", 400, errors.ErrCodeInvalidInput},
		{"bad radius", "GET", "/trees/" + id + "?radius=-2", "", 400, errors.ErrCodeInvalidInput},
		{"fractional key", "POST", "/trees", `{"keys":[1.5]}`, 400, errors.ErrCodeInvalidInput},
		{"unknown field", "POST", "/trees", `{"keyz":[1]}`, 400, errors.ErrCodeInvalidInput},
		{"bad name", "POST", "/trees", `{"keys":[1],"name":"../x"}`, 400, errors.ErrCodeInvalidInput},
		{"empty insert", "POST", "/trees/" + id + "/keys", `{"keys":[]}`, 400, errors.ErrCodeInvalidInput},
		{"insert into missing", "POST", "/trees/missing/keys", `{"keys":[1]}`, 404, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			body := decode[errorResponse](t, rec)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
			if body.Hint != errors.Hint(errors.New(tt.code, "")) {
				t.Errorf("hint = %q, want the hint for %s", body.Hint, tt.code)
			}
		})
	}
}

func TestTooManyKeys(t *testing.T) {
	keys := make([]string, MaxKeysPerRequest+1)
	for i := range keys {
		keys[i] = "1"
	}
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/trees", `{"keys":[`+strings.Join(keys, ",")+`]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s, `{"keys":[1,2]}`).ID

	if rec := do(t, s, http.MethodDelete, "/trees/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/trees/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/trees/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rec.Code)
	}
}

func TestListInMemory(t *testing.T) {
	s := newTestServer(t)
	create(t, s, `{"keys":[1,2],"name":"a"}`)
	create(t, s, `{"keys":[3],"name":"b"}`)

	rec := do(t, s, http.MethodGet, "/trees", "")
	list := decode[[]summary](t, rec)
	if len(list) != 2 {
		t.Fatalf("list = %+v, want 2 trees", list)
	}
	counts := map[string]int{list[0].Name: list[0].KeyCount, list[1].Name: list[1].KeyCount}
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Errorf("key counts = %v", counts)
	}
}

func TestStorePersistence(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := newTestServer(t, WithStore(st))
	id := create(t, first, `{"keys":[5,3,8],"name":"kept"}`).ID
	do(t, first, http.MethodPost, "/trees/"+id+"/keys", `{"keys":[1]}`)

	snap, err := st.Get(ctx, id)
	if err != nil || !slices.Equal(snap.Keys, []int{5, 3, 8, 1}) {
		t.Fatalf("stored snapshot = %+v, %v", snap, err)
	}

	// A fresh server reloads the tree from the store.
	second := New(WithStore(st), WithRunner(pipeline.NewRunner(cache.NewNullCache(), nil, nil)),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	rec := do(t, second, http.MethodGet, "/trees/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status = %d, body %s", rec.Code, rec.Body)
	}
	got := decode[treeResponse](t, rec)
	if got.Name != "kept" || got.Layout.Size != 4 || got.Layout.Root != "5" {
		t.Errorf("reloaded = name %q size %d root %q", got.Name, got.Layout.Size, got.Layout.Root)
	}

	list := decode[[]summary](t, do(t, second, http.MethodGet, "/trees", ""))
	if len(list) != 1 || list[0].ID != id || list[0].KeyCount != 4 {
		t.Errorf("list = %+v", list)
	}

	if rec := do(t, second, http.MethodDelete, "/trees/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	if _, err := st.Get(ctx, id); !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("snapshot after delete: %v", err)
	}
}

// flakyStore fails every Save while broken is set.
type flakyStore struct {
	store.Store
	broken bool
}

func (f *flakyStore) Save(ctx context.Context, snap store.Snapshot) error {
	if f.broken {
		return errors.New(errors.ErrCodeInternal, "disk full")
	}
	return f.Store.Save(ctx, snap)
}

func TestInsertFailedSaveLeavesTreeUnchanged(t *testing.T) {
	ctx := context.Background()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := &flakyStore{Store: fs}
	s := newTestServer(t, WithStore(st))
	id := create(t, s, `{"keys":[5,3,8]}`).ID

	st.broken = true
	if rec := do(t, s, http.MethodPost, "/trees/"+id+"/keys", `{"keys":[1,2]}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("insert with failing store status = %d, want 500", rec.Code)
	}

	live := decode[treeResponse](t, do(t, s, http.MethodGet, "/trees/"+id, ""))
	if live.Layout.Size != 3 {
		t.Errorf("live tree size = %d after failed save, want 3", live.Layout.Size)
	}
	snap, err := st.Get(ctx, id)
	if err != nil || !slices.Equal(snap.Keys, []int{5, 3, 8}) {
		t.Fatalf("stored snapshot = %+v, %v", snap, err)
	}

	st.broken = false
	res := decode[insertResponse](t, do(t, s, http.MethodPost, "/trees/"+id+"/keys", `{"keys":[1,2]}`))
	if !slices.Equal(res.Inserted, []int{1, 2}) || res.Layout.Size != 5 {
		t.Errorf("retry inserted %v, size %d; want [1 2], 5", res.Inserted, res.Layout.Size)
	}
	if snap, _ := st.Get(ctx, id); !slices.Equal(snap.Keys, []int{5, 3, 8, 1, 2}) {
		t.Errorf("stored keys after retry = %v", snap.Keys)
	}
}

func TestCreateFailedSaveHostsNothing(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, WithStore(&flakyStore{Store: fs, broken: true}))
	if rec := do(t, s, http.MethodPost, "/trees", `{"keys":[1]}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("create with failing store status = %d, want 500", rec.Code)
	}
	if list := decode[[]summary](t, do(t, s, http.MethodGet, "/trees", "")); len(list) != 0 {
		t.Errorf("list after failed create = %+v, want empty", list)
	}
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &countingHooks{}
	observability.SetHTTPHooks(h)

	s := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/trees/missing", "")

	if h.requests != 2 || h.responses != 2 || h.errors != 1 {
		t.Errorf("requests/responses/errors = %d/%d/%d, want 2/2/1", h.requests, h.responses, h.errors)
	}
	if h.lastStatus != http.StatusNotFound {
		t.Errorf("last status = %d, want 404", h.lastStatus)
	}
}

type countingHooks struct {
	requests, responses, errors int
	lastStatus                  int
}

func (h *countingHooks) OnRequest(context.Context, string, string) { h.requests++ }
func (h *countingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.lastStatus = status
}
func (h *countingHooks) OnError(context.Context, string, string, error) { h.errors++ }

func TestListenAndServeShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidKey, 400},
		{errors.ErrCodeSnapshotNotFound, 404},
		{errors.ErrCodeInvariant, 500},
		{errors.ErrCodeUnsupported, 501},
		{errors.ErrCodeInternal, 500},
		{"", 500},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
