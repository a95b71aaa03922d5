// Package store holds the session's in-memory product collection. The
// remote catalog service is the source of truth; the store only changes in
// response to confirmed service outcomes — a full refresh replaces the
// whole collection, and individual entries are touched only after the
// service acknowledged the corresponding mutation.
package store

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/catalog-client/internal/domain/catalog"
)

// Lister is the read side of the catalog service the store refreshes from.
type Lister interface {
	ListAll(ctx context.Context) ([]catalog.Product, error)
}

// Store keeps products in server order with an id index over them.
//
// Confirmations can arrive on different goroutines, so all access goes
// through mu. Ordering between an in-flight refresh and an in-flight
// mutation confirmation is last-write-wins; that window is accepted, not
// resolved.
type Store struct {
	lister Lister
	lg     *zap.Logger

	// group coalesces concurrent refreshes into one request.
	group singleflight.Group

	mu       sync.RWMutex
	products []catalog.Product
	index    map[string]int
}

// New creates an empty Store refreshing from lister.
func New(lister Lister, lg *zap.Logger) *Store {
	return &Store{
		lister: lister,
		lg:     lg,
		index:  map[string]int{},
	}
}

// Refresh fetches the full catalog and atomically replaces the stored
// collection with it. On failure the collection is left untouched and the
// error is propagated. Concurrent calls share a single request.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		products, err := s.lister.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.products = products
		s.reindexLocked(0)
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// ApplyCreated appends a product the service confirmed creating. The
// server guarantees fresh ids, so an id collision means the store and the
// service desynced; it is reported and the newer entry wins in place.
func (s *Store) ApplyCreated(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[p.ID]; ok {
		s.lg.Error("created product already in store, replacing",
			zap.String("id", p.ID))
		s.products[i] = p
		return
	}
	s.products = append(s.products, p)
	s.index[p.ID] = len(s.products) - 1
}

// ApplyUpdated merges the confirmed patch into the stored product,
// preserving its position. The stored image URL is kept even when the
// patch uploaded a new image: the service does not return the new URL, so
// it stays stale until the next refresh. An unknown id is a no-op reported
// as a desync.
func (s *Store) ApplyUpdated(id string, patch catalog.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		s.lg.Error("update confirmed for product missing from store",
			zap.String("id", id))
		return
	}
	p := &s.products[i]
	p.Name = patch.Name
	p.Description = patch.Description
	p.Price = patch.Price
}

// ApplyDeleted removes the entry with the given id, preserving the order
// of the rest. Deleting an id that is already gone is a no-op.
func (s *Store) ApplyDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	s.products = slices.Delete(s.products, i, i+1)
	delete(s.index, id)
	s.reindexLocked(i)
}

// Get returns the stored product with the given id.
func (s *Store) Get(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return catalog.Product{}, false
	}
	return s.products[i], true
}

// Products returns a copy of the collection in server order.
func (s *Store) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// reindexLocked rebuilds index entries for products[from:]. When from is 0
// the whole index is rebuilt.
func (s *Store) reindexLocked(from int) {
	if from == 0 {
		s.index = make(map[string]int, len(s.products))
	}
	for i := from; i < len(s.products); i++ {
		s.index[s.products[i].ID] = i
	}
}
