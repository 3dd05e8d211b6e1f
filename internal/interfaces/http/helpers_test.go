package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rocketshoes-cart/internal/application/cart"
	"github.com/jhoicas/rocketshoes-cart/internal/application/catalog"
	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/catalogclient"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/rocketshoes-cart/internal/interfaces/http"
	"github.com/jhoicas/rocketshoes-cart/pkg/i18n"
	pkgjwt "github.com/jhoicas/rocketshoes-cart/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "rocketshoes-test"
	testExpMin    = 60
)

// memProducts / memStock repositorios en memoria para el catálogo.
type memProducts map[int64]*entity.Product

func (m memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return m[id], nil
}

func (m memProducts) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := int64(1); id <= 10 && len(out) < limit; id++ {
		if p, ok := m[id]; ok {
			if offset > 0 {
				offset--
				continue
			}
			out = append(out, p)
		}
	}
	return out, nil
}

type memStock struct {
	mu sync.Mutex
	m  map[int64]int
}

func (s *memStock) Get(_ context.Context, id int64) (*entity.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	return &entity.Stock{ID: id, Amount: a}, nil
}

func catalogUseCase() *catalog.UseCase {
	products := memProducts{
		1: {ID: 1, Name: "Tênis de Caminhada", Price: decimal.RequireFromString("179.90"), Image: "tenis1.jpg"},
		2: {ID: 2, Name: "Tênis VR", Price: decimal.RequireFromString("139.90"), Image: "tenis2.jpg"},
		3: {ID: 3, Name: "Tênis Adidas", Price: decimal.RequireFromString("219.90")},
	}
	stock := &memStock{m: map[int64]int{1: 3, 2: 1}}
	return catalog.NewUseCase(products, stock)
}

func newCatalogApp() *fiber.App {
	app := fiber.New()
	apphttp.CatalogRouter(app, catalogUseCase())
	return app
}

type cartEnv struct {
	app   *fiber.App
	store *storage.MemoryStore
	carts *cart.Provider
}

// flakyStore MemoryStore cuyas lecturas fallan mientras failGets > 0.
type flakyStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	failGets int
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failGets > 0
	if fail {
		s.failGets--
	}
	s.mu.Unlock()
	if fail {
		return "", false, errors.New("redis: connection pool timeout")
	}
	return s.MemoryStore.Get(ctx, key)
}

// newCartEnv API del carrito contra un catálogo HTTP real servido con httptest.
func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()
	mem := storage.NewMemoryStore()
	return newCartEnvWithStore(t, mem, mem)
}

func newCartEnvWithStore(t *testing.T, mem *storage.MemoryStore, store ports.KeyValueStore) *cartEnv {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(newCatalogApp()))
	t.Cleanup(srv.Close)

	carts, err := cart.NewProvider(cart.ProviderConfig{
		Catalog:    catalogclient.New(srv.URL, 2*time.Second),
		Store:      store,
		Translator: i18n.New("pt-BR"),
	})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Carts:         carts,
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testIssuer,
		JWTExpMinutes: testExpMin,
	})
	return &cartEnv{app: app, store: mem, carts: carts}
}

func bearer(t *testing.T, sessionID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, sessionID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
