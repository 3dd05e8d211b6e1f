package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rocketshoes-cart/internal/application/cart"
	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testKey = "@RocketShoes:cart"

type harness struct {
	catalog *fakeCatalog
	store   *fakeStore
	inbox   *cart.Inbox
	m       *cart.Manager
}

func newHarness(t *testing.T, seed entity.Cart) *harness {
	t.Helper()
	h := &harness{catalog: newFakeCatalog(), store: newFakeStore(), inbox: cart.NewInbox(0)}
	if seed != nil {
		raw, err := seed.Encode()
		require.NoError(t, err)
		h.store.data[testKey] = raw
	}
	m, err := cart.NewManager(context.Background(), cart.Options{
		Key:      testKey,
		Catalog:  h.catalog,
		Store:    h.store,
		Notifier: h.inbox,
	})
	require.NoError(t, err)
	h.m = m
	return h
}

func item(id int64, name string, price int64, amount int) entity.CartItem {
	return entity.CartItem{Product: entity.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}, Amount: amount}
}

// assertPersisted verifica que el carrito en Store sea idéntico al de memoria.
func assertPersisted(t *testing.T, h *harness) {
	t.Helper()
	want, err := h.m.Cart().Encode()
	require.NoError(t, err)
	got, ok := h.store.value(testKey)
	require.True(t, ok, "el carrito debe estar persistido")
	assert.Equal(t, want, got, "memoria y almacenamiento deben coincidir")
}

func onlyNotification(t *testing.T, h *harness) ports.Notification {
	t.Helper()
	ns := h.inbox.Drain()
	require.Len(t, ns, 1, "se esperaba exactamente una notificación")
	assert.Equal(t, ports.SeverityError, ns[0].Severity)
	return ns[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// AddProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_NuevoProductoConCantidadUno(t *testing.T) {
	h := newHarness(t, nil)

	h.m.AddProduct(context.Background(), 2)

	c := h.m.Cart()
	require.Len(t, c, 1)
	assert.Equal(t, int64(2), c[0].ID)
	assert.Equal(t, "Boot", c[0].Name)
	assert.Equal(t, "boot.jpg", c[0].Image)
	assert.Equal(t, 1, c[0].Amount)
	assert.Zero(t, h.inbox.Len())
	assertPersisted(t, h)
}

func TestAddProduct_ExistenteIncrementaSoloEsaLinea(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2), item(2, "Boot", 250, 1)})

	h.m.AddProduct(context.Background(), 1)

	c := h.m.Cart()
	require.Len(t, c, 2)
	assert.Equal(t, 3, c[0].Amount)
	assert.Equal(t, item(2, "Boot", 250, 1), c[1])
	assert.Equal(t, 0, h.catalog.productCalls, "un producto existente no se vuelve a pedir al catálogo")
	assertPersisted(t, h)
}

func TestAddProduct_ExistenteSinStockAdicional(t *testing.T) {
	seed := entity.Cart{item(1, "Shoe", 100, 5)}
	h := newHarness(t, seed)
	before, _ := h.store.value(testKey)

	h.m.AddProduct(context.Background(), 1)

	assert.Equal(t, 5, h.m.Cart()[0].Amount)
	after, _ := h.store.value(testKey)
	assert.Equal(t, before, after, "el carrito persistido no cambia")
	assert.Equal(t, 0, h.store.setCount())

	n := onlyNotification(t, h)
	assert.Equal(t, ports.KindOutOfStock, n.Kind)
	assert.Equal(t, "Quantidade solicitada fora de estoque", n.Message)
	assert.Equal(t, int64(1), n.ProductID)
}

func TestAddProduct_NuevoConStockCero(t *testing.T) {
	h := newHarness(t, nil)

	h.m.AddProduct(context.Background(), 3)

	assert.Empty(t, h.m.Cart())
	assert.Equal(t, 0, h.catalog.productCalls, "sin stock no se consulta el producto")
	assert.Equal(t, ports.KindOutOfStock, onlyNotification(t, h).Kind)
}

func TestAddProduct_FalloDeStockEsErrorGenerico(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.stockErr = errNetwork

	h.m.AddProduct(context.Background(), 1)

	assert.Empty(t, h.m.Cart())
	n := onlyNotification(t, h)
	assert.Equal(t, ports.KindAddFailed, n.Kind)
	assert.Equal(t, "Erro na adição do produto", n.Message)
}

func TestAddProduct_FalloDeCatalogo(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.productErr = errNetwork

	h.m.AddProduct(context.Background(), 1)

	assert.Empty(t, h.m.Cart())
	assert.Equal(t, ports.KindAddFailed, onlyNotification(t, h).Kind)
	_, persisted := h.store.value(testKey)
	assert.False(t, persisted)
}

func TestAddProduct_ProductoInexistente(t *testing.T) {
	h := newHarness(t, nil)

	h.m.AddProduct(context.Background(), 404)

	assert.Empty(t, h.m.Cart())
	assert.Equal(t, ports.KindAddFailed, onlyNotification(t, h).Kind)
}

func TestAddProduct_CatalogoDevuelveOtroID(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.products[1] = entity.Product{ID: 7, Name: "Otro"}

	h.m.AddProduct(context.Background(), 1)

	assert.Empty(t, h.m.Cart())
	assert.Equal(t, ports.KindAddFailed, onlyNotification(t, h).Kind)
}

func TestAddProduct_FalloAlPersistirNoCambiaMemoria(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 1)})
	h.store.setErr = errors.New("quota exceeded")

	h.m.AddProduct(context.Background(), 1)

	assert.Equal(t, 1, h.m.Cart()[0].Amount, "sin commit en Store no hay cambio en memoria")
	assert.Equal(t, ports.KindAddFailed, onlyNotification(t, h).Kind)
}

func TestAddProduct_ContextoCancelado(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.delay = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.m.AddProduct(ctx, 1)

	assert.Empty(t, h.m.Cart())
	assert.Equal(t, ports.KindAddFailed, onlyNotification(t, h).Kind)
}

// Dos o más altas simultáneas del mismo producto no pierden actualizaciones.
func TestAddProduct_ConcurrentesSeSerializan(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.setStock(1, 100)
	h.catalog.delay = 2 * time.Millisecond

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.m.AddProduct(context.Background(), 1)
		}()
	}
	wg.Wait()

	c := h.m.Cart()
	require.Len(t, c, 1, "no debe haber líneas duplicadas")
	assert.Equal(t, n, c[0].Amount)
	assert.Zero(t, h.inbox.Len())
	assertPersisted(t, h)
}

func TestAddProduct_ConcurrentesRespetanStock(t *testing.T) {
	h := newHarness(t, nil)
	h.catalog.setStock(1, 3)
	h.catalog.delay = time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.m.AddProduct(context.Background(), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, h.m.Cart()[0].Amount)
	ns := h.inbox.Drain()
	require.Len(t, ns, 2)
	for _, n := range ns {
		assert.Equal(t, ports.KindOutOfStock, n.Kind)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveProduct_ConservaOrdenDelResto(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 1), item(2, "Boot", 250, 2), item(3, "Sandal", 40, 1)})

	h.m.RemoveProduct(context.Background(), 2)

	assert.Equal(t, entity.Cart{item(1, "Shoe", 100, 1), item(3, "Sandal", 40, 1)}, h.m.Cart())
	assert.Zero(t, h.inbox.Len())
	assertPersisted(t, h)
}

func TestRemoveProduct_AusenteNotificaError(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 1)})

	h.m.RemoveProduct(context.Background(), 9)

	assert.Len(t, h.m.Cart(), 1)
	assert.Equal(t, 0, h.store.setCount())
	n := onlyNotification(t, h)
	assert.Equal(t, ports.KindRemoveFailed, n.Kind)
	assert.Equal(t, "Erro na remoção do produto", n.Message)
}

func TestRemoveProduct_FalloAlPersistir(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 1)})
	h.store.setErr = errors.New("disk full")

	h.m.RemoveProduct(context.Background(), 1)

	assert.Len(t, h.m.Cart(), 1)
	assert.Equal(t, ports.KindRemoveFailed, onlyNotification(t, h).Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProductAmount
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProductAmount_CeroONegativoEsNoOp(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})

	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 1, Amount: 0})
	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 1, Amount: -3})

	assert.Equal(t, 2, h.m.Cart()[0].Amount)
	assert.Zero(t, h.inbox.Len(), "no debe notificar")
	assert.Equal(t, 0, h.catalog.stockCalls, "no debe consultar stock")
	assert.Equal(t, 0, h.store.setCount())
}

func TestUpdateProductAmount_MayorQueStock(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})

	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 1, Amount: 6})

	assert.Equal(t, 2, h.m.Cart()[0].Amount)
	assert.Equal(t, ports.KindOutOfStock, onlyNotification(t, h).Kind)
}

func TestUpdateProductAmount_ReemplazaCantidad(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2), item(2, "Boot", 250, 1)})

	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 1, Amount: 5})

	assert.Equal(t, entity.Cart{item(1, "Shoe", 100, 5), item(2, "Boot", 250, 1)}, h.m.Cart())
	assert.Zero(t, h.inbox.Len())
	assertPersisted(t, h)
}

func TestUpdateProductAmount_ProductoAusenteSeIgnora(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})

	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 2, Amount: 1})

	assert.Equal(t, entity.Cart{item(1, "Shoe", 100, 2)}, h.m.Cart())
	assert.Zero(t, h.inbox.Len())
	assert.Equal(t, 0, h.store.setCount())
}

func TestUpdateProductAmount_FalloDeStock(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})
	h.catalog.stockErr = errNetwork

	h.m.UpdateProductAmount(context.Background(), cart.UpdateAmount{ProductID: 1, Amount: 3})

	assert.Equal(t, 2, h.m.Cart()[0].Amount)
	n := onlyNotification(t, h)
	assert.Equal(t, ports.KindUpdateFailed, n.Kind)
	assert.Equal(t, "Erro na alteração de quantidade do produto", n.Message)
}

func TestUpdateProductAmount_Idempotente(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})
	req := cart.UpdateAmount{ProductID: 1, Amount: 4}

	h.m.UpdateProductAmount(context.Background(), req)
	first, _ := h.store.value(testKey)
	h.m.UpdateProductAmount(context.Background(), req)
	second, _ := h.store.value(testKey)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, h.store.setCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Hidratación y lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestNewManager_HidrataDesdeStore(t *testing.T) {
	seed := entity.Cart{item(1, "Shoe", 100, 2), item(2, "Boot", 250, 1)}
	h := newHarness(t, seed)

	c := h.m.Cart()
	require.Len(t, c, 2)
	assert.Equal(t, int64(1), c[0].ID)
	assert.Equal(t, 2, c[0].Amount)
	assert.True(t, c[1].Price.Equal(decimal.NewFromInt(250)))
}

func TestNewManager_CarritoIlegibleArrancaVacio(t *testing.T) {
	cases := map[string]string{
		"json roto":     "{no",
		"cantidad cero": `[{"id":1,"amount":0}]`,
		"duplicado":     `[{"id":1,"amount":1},{"id":1,"amount":2}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			store.data[testKey] = raw
			m, err := cart.NewManager(context.Background(), cart.Options{
				Key: testKey, Catalog: newFakeCatalog(), Store: store, Notifier: cart.NewInbox(0),
			})
			require.NoError(t, err)
			assert.NotNil(t, m.Cart())
			assert.Empty(t, m.Cart())
		})
	}
}

func TestNewManager_FalloDeLecturaDevuelveError(t *testing.T) {
	store := newFakeStore()
	store.data[testKey] = `[{"id":2,"name":"Boot","price":"250","amount":3}]`
	store.getErr = errors.New("storage unavailable")
	m, err := cart.NewManager(context.Background(), cart.Options{
		Key: testKey, Catalog: newFakeCatalog(), Store: store, Notifier: cart.NewInbox(0),
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Nil(t, m)
	assert.Zero(t, store.setCount(), "el carrito guardado no se toca")
}

func TestNewManager_DependenciasRequeridas(t *testing.T) {
	_, err := cart.NewManager(context.Background(), cart.Options{Key: testKey})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCart_DevuelveCopia(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2)})

	c := h.m.Cart()
	c[0].Amount = 99

	assert.Equal(t, 2, h.m.Cart()[0].Amount)
}

func TestSummary(t *testing.T) {
	h := newHarness(t, entity.Cart{item(1, "Shoe", 100, 2), item(2, "Boot", 250, 1)})

	s := h.m.Summary()
	assert.Equal(t, 2, s.Items)
	assert.Equal(t, 3, s.Units)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(450)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	shoe := item(1, "Shoe", 100, 1)

	h.m.AddProduct(ctx, 1)
	assert.Equal(t, entity.Cart{shoe}, h.m.Cart())

	h.m.AddProduct(ctx, 1)
	shoe.Amount = 2
	assert.Equal(t, entity.Cart{shoe}, h.m.Cart())

	h.m.UpdateProductAmount(ctx, cart.UpdateAmount{ProductID: 1, Amount: 10})
	assert.Equal(t, entity.Cart{shoe}, h.m.Cart())
	assert.Equal(t, ports.KindOutOfStock, onlyNotification(t, h).Kind)

	h.m.RemoveProduct(ctx, 1)
	assert.Empty(t, h.m.Cart())
	assert.Zero(t, h.inbox.Len())

	raw, _ := h.store.value(testKey)
	assert.Equal(t, "[]", raw)
}
