//go:build integration

// Package integration exercises the full client stack — transport, store,
// workflow, edit session — against an in-process catalog service double
// that implements the real service's HTTP contract: multipart mutations on
// /api/products, enveloped list responses, 404 on unknown ids.
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/catalog-client/internal/domain/catalog"
	"github.com/xenking/catalog-client/internal/store"
	"github.com/xenking/catalog-client/internal/transport"
	"github.com/xenking/catalog-client/internal/workflow"
	"github.com/xenking/catalog-client/pkg/transient"
)

// fakeCatalog is the catalog service double. State is guarded by mu since
// the HTTP server handles requests on its own goroutines.
type fakeCatalog struct {
	mu       sync.Mutex
	order    []string
	products map[string]productRecord
}

type productRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]productRecord{}}
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", f.list)
	mux.HandleFunc("POST /api/products", f.create)
	mux.HandleFunc("POST /api/products/{id}", f.update)
	mux.HandleFunc("DELETE /api/products/{id}", f.remove)
	return mux
}

func (f *fakeCatalog) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := make([]productRecord, 0, len(f.order))
	for _, id := range f.order {
		data = append(data, f.products[id])
	}
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (f *fakeCatalog) create(w http.ResponseWriter, r *http.Request) {
	rec, hasImage, err := parseForm(r)
	if err != nil || !hasImage {
		http.Error(w, "bad multipart payload", http.StatusBadRequest)
		return
	}

	rec.ID = uuid.New().String()
	rec.Image = fmt.Sprintf("https://cdn.example.com/%s.png", rec.ID)

	f.mu.Lock()
	f.order = append(f.order, rec.ID)
	f.products[rec.ID] = rec
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

func (f *fakeCatalog) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.products[id]
	if !ok {
		http.NotFound(w, r)
		return
	}

	rec, hasImage, err := parseForm(r)
	if err != nil {
		http.Error(w, "bad multipart payload", http.StatusBadRequest)
		return
	}

	existing.Name = rec.Name
	existing.Description = rec.Description
	existing.Price = rec.Price
	if hasImage {
		existing.Image = fmt.Sprintf("https://cdn.example.com/%s-v2.png", id)
	}
	f.products[id] = existing
}

func (f *fakeCatalog) remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		http.NotFound(w, r)
		return
	}
	delete(f.products, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseForm(r *http.Request) (rec productRecord, hasImage bool, err error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return rec, false, err
	}
	rec.Name = r.FormValue("name")
	rec.Description = r.FormValue("description")
	if rec.Price, err = parsePrice(r.FormValue("price")); err != nil {
		return rec, false, err
	}

	file, _, err := r.FormFile("image")
	if err == nil {
		file.Close()
		return rec, true, nil
	}
	if err == http.ErrMissingFile {
		return rec, false, nil
	}
	return rec, false, err
}

func parsePrice(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%g", &f)
	return f, err
}

// session bundles a fully wired client stack against one fake service.
type session struct {
	fake *fakeCatalog
	st   *store.Store
	wf   *workflow.Workflow
}

func newSession(t *testing.T) *session {
	t.Helper()

	fake := newFakeCatalog()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := transport.NewClient(transport.Config{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	st := store.New(client, zap.NewNop())
	status := transient.NewSlot(transient.DefaultTTL)
	t.Cleanup(status.Stop)

	return &session{
		fake: fake,
		st:   st,
		wf:   workflow.New(client, st, catalog.NewEditor(), status, zap.NewNop()),
	}
}

func lampDraft() catalog.Draft {
	return catalog.Draft{
		Name:        "Lamp",
		Description: "Desk lamp",
		Price:       decimal.RequireFromString("19.99"),
		Image:       &catalog.ImageUpload{Filename: "lamp.png", Content: []byte("png-bytes")},
	}
}
