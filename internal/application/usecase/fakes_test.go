// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	orderdom "karwaan/internal/domain/order"
	productdom "karwaan/internal/domain/product"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]productdom.Product
	saveErr  error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]productdom.Product{}}
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; ok {
		return productdom.Product{}, productdom.ErrConflict
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return productdom.Product{}, r.saveErr
	}
	if _, ok := r.products[p.ID]; !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeMetadataRepo struct {
	mu        sync.Mutex
	records   map[string]productdom.MediaMetadata
	createErr error
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{records: map[string]productdom.MediaMetadata{}}
}

func (r *fakeMetadataRepo) GetByProductID(_ context.Context, productID string) (productdom.MediaMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.records[productID]
	if !ok {
		return productdom.MediaMetadata{}, productdom.ErrMetadataNotFound
	}
	return m, nil
}

func (r *fakeMetadataRepo) Create(_ context.Context, m productdom.MediaMetadata) (productdom.MediaMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return productdom.MediaMetadata{}, r.createErr
	}
	if _, ok := r.records[m.ProductID]; ok {
		return productdom.MediaMetadata{}, productdom.ErrMetadataConflict
	}
	r.records[m.ProductID] = m
	return m, nil
}

func (r *fakeMetadataRepo) Delete(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, productID)
	return nil
}

type fakeMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string][]byte{}}
}

func (s *fakeMediaStore) Put(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *fakeMediaStore) PublicURL(key string) string {
	return "https://media.test/" + key
}

func (s *fakeMediaStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]orderdom.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]orderdom.Order{}}
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orderdom.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok {
		return orderdom.Order{}, orderdom.ErrConflict
	}
	r.orders[o.ID] = o
	return o, nil
}

func (r *fakeOrderRepo) Transition(_ context.Context, id string, next orderdom.Status, now time.Time) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err := o.SetStatus(next, now); err != nil {
		return orderdom.Order{}, err
	}
	r.orders[id] = o
	return o, nil
}

type fakeGateway struct {
	state PaymentState
	err   error
}

func (g *fakeGateway) PaymentStatus(_ context.Context, _ string) (PaymentState, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.state, nil
}
