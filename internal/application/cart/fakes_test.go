package cart_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

var errNetwork = errors.New("connection refused")

// fakeCatalog catálogo en memoria con inyección de fallos.
type fakeCatalog struct {
	mu           sync.Mutex
	stock        map[int64]int
	products     map[int64]entity.Product
	stockErr     error
	productErr   error
	stockCalls   int
	productCalls int
	delay        time.Duration
	// entered/release permiten retener GetStock dentro del turno de escritura.
	entered chan struct{}
	release chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		stock: map[int64]int{1: 5, 2: 3, 3: 0},
		products: map[int64]entity.Product{
			1: {ID: 1, Name: "Shoe", Price: decimal.NewFromInt(100)},
			2: {ID: 2, Name: "Boot", Price: decimal.NewFromInt(250), Image: "boot.jpg"},
			3: {ID: 3, Name: "Sandal", Price: decimal.NewFromInt(40)},
		},
	}
}

func (f *fakeCatalog) GetStock(ctx context.Context, productID int64) (entity.Stock, error) {
	f.mu.Lock()
	f.stockCalls++
	err := f.stockErr
	amount, ok := f.stock[productID]
	delay := f.delay
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if release != nil {
		entered <- struct{}{}
		<-release
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return entity.Stock{}, ctx.Err()
		}
	}
	if err != nil {
		return entity.Stock{}, err
	}
	if !ok {
		return entity.Stock{}, domain.ErrNotFound
	}
	return entity.Stock{ID: productID, Amount: amount}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCalls++
	if f.productErr != nil {
		return entity.Product{}, f.productErr
	}
	p, ok := f.products[productID]
	if !ok {
		return entity.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) setStock(productID int64, amount int) {
	f.mu.Lock()
	f.stock[productID] = amount
	f.mu.Unlock()
}

// fakeStore almacenamiento en memoria que cuenta escrituras y puede fallar.
type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	gets   int
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.data[key] = value
	return nil
}

func (s *fakeStore) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// ctxStore falla si el contexto del caller ya está cancelado, como un cliente de red.
type ctxStore struct {
	*fakeStore
}

func (s ctxStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return s.fakeStore.Get(ctx, key)
}

// fakeClock reloj manual para los barridos de sesiones.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
