package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
	"github.com/jhoicas/rocketshoes-cart/pkg/i18n"
	"github.com/jhoicas/rocketshoes-cart/pkg/logger"
)

// UpdateAmount pide fijar la cantidad absoluta de un producto del carrito.
type UpdateAmount struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

// Options dependencias del Manager.
type Options struct {
	Key        string // clave del carrito en Store
	Catalog    ports.CatalogService
	Store      ports.KeyValueStore
	Notifier   ports.Notifier
	Translator ports.Translator
	Logger     *logger.Logger
	Now        func() time.Time
}

// Manager dueño del carrito de una sesión. Aplica las mutaciones validadas contra el
// inventario y las confirma a la vez en memoria y en Store.
//
// Las tres operaciones de escritura no devuelven error: los fallos se absorben y solo
// se ven como una notificación y un carrito sin cambios.
type Manager struct {
	key        string
	catalog    ports.CatalogService
	store      ports.KeyValueStore
	notifier   ports.Notifier
	translator ports.Translator
	log        *logger.Logger
	now        func() time.Time

	// writer serializa lectura-modificación-commit completas, incluida la espera al catálogo.
	writer *semaphore.Weighted

	mu   sync.RWMutex
	cart entity.Cart
}

// NewManager construye el Manager e hidrata el carrito desde Store.
// Un carrito ausente, ilegible o que viola los invariantes arranca vacío; un fallo al
// leer Store se devuelve como ErrStorage para no pisar el carrito guardado.
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Key == "" || opts.Catalog == nil || opts.Store == nil || opts.Notifier == nil {
		return nil, fmt.Errorf("manager de carrito: %w", domain.ErrInvalidInput)
	}
	if opts.Translator == nil {
		opts.Translator = i18n.New("")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Manager{
		key:        opts.Key,
		catalog:    opts.Catalog,
		store:      opts.Store,
		notifier:   opts.Notifier,
		translator: opts.Translator,
		log:        opts.Logger,
		now:        opts.Now,
		writer:     semaphore.NewWeighted(1),
	}
	c, err := m.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	m.cart = c
	return m, nil
}

func (m *Manager) hydrate(ctx context.Context) (entity.Cart, error) {
	raw, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("leer carrito %s: %w: %v", m.key, domain.ErrStorage, err)
	}
	if !found {
		return entity.Cart{}, nil
	}
	c, err := entity.DecodeCart(raw)
	if err != nil {
		m.log.Warn().Err(err).Str("key", m.key).Msg("carrito persistido inválido; se inicia vacío")
		return entity.Cart{}, nil
	}
	return c, nil
}

// Key clave con la que se persiste el carrito.
func (m *Manager) Key() string {
	return m.key
}

// Cart copia del carrito confirmado.
func (m *Manager) Cart() entity.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.Clone()
}

// Summary totales del carrito confirmado.
func (m *Manager) Summary() entity.CartSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.Summary()
}

// AddProduct agrega una unidad del producto: incrementa la línea existente o agrega
// una nueva con cantidad 1 usando el registro del catálogo.
func (m *Manager) AddProduct(ctx context.Context, productID int64) {
	err := m.mutate(ctx, func(current entity.Cart) (entity.Cart, bool, error) {
		return m.addProduct(ctx, current, productID)
	})
	if err != nil {
		m.report(ctx, productID, err, ports.KindAddFailed, i18n.MsgAddFailed)
	}
}

// RemoveProduct quita la línea del producto. Quitar un producto ausente es un error
// notificado, no una operación nula.
func (m *Manager) RemoveProduct(ctx context.Context, productID int64) {
	err := m.mutate(ctx, func(current entity.Cart) (entity.Cart, bool, error) {
		if _, ok := current.Find(productID); !ok {
			return nil, false, fmt.Errorf("quitar producto %d: %w", productID, domain.ErrProductNotInCart)
		}
		return current.Without(productID), true, nil
	})
	if err != nil {
		m.report(ctx, productID, err, ports.KindRemoveFailed, i18n.MsgRemoveFailed)
	}
}

// UpdateProductAmount fija la cantidad de un producto del carrito.
// Amount <= 0 no hace nada ni notifica. Un producto ausente tampoco cambia nada.
func (m *Manager) UpdateProductAmount(ctx context.Context, req UpdateAmount) {
	if req.Amount <= 0 {
		return
	}
	err := m.mutate(ctx, func(current entity.Cart) (entity.Cart, bool, error) {
		stock, err := m.catalog.GetStock(ctx, req.ProductID)
		if err != nil {
			return nil, false, fmt.Errorf("consultar stock %d: %w", req.ProductID, err)
		}
		if !stock.Allows(req.Amount) {
			return nil, false, fmt.Errorf("producto %d: %d > %d: %w", req.ProductID, req.Amount, stock.Amount, domain.ErrOutOfStock)
		}
		if _, ok := current.Find(req.ProductID); !ok {
			// TODO: decidir con producto si este caso debe notificar igual que RemoveProduct.
			m.log.Warn().Int64("product_id", req.ProductID).Int("amount", req.Amount).
				Msg("actualizar cantidad de producto ausente del carrito; se ignora")
			return nil, false, nil
		}
		return current.WithAmount(req.ProductID, req.Amount), true, nil
	})
	if err != nil {
		m.report(ctx, req.ProductID, err, ports.KindUpdateFailed, i18n.MsgUpdateFailed)
	}
}

func (m *Manager) addProduct(ctx context.Context, current entity.Cart, productID int64) (entity.Cart, bool, error) {
	existing, inCart := current.Find(productID)
	stock, err := m.catalog.GetStock(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("consultar stock %d: %w", productID, err)
	}

	if inCart {
		if !stock.Allows(existing.Amount + 1) {
			return nil, false, fmt.Errorf("producto %d: stock %d: %w", productID, stock.Amount, domain.ErrOutOfStock)
		}
		return current.Increment(productID), true, nil
	}

	if stock.Amount <= 0 {
		return nil, false, fmt.Errorf("producto %d sin stock: %w", productID, domain.ErrOutOfStock)
	}
	product, err := m.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("obtener producto %d: %w", productID, err)
	}
	if product.ID != productID {
		return nil, false, fmt.Errorf("catálogo devolvió producto %d para %d: %w", product.ID, productID, domain.ErrUpstream)
	}
	return current.Append(product), true, nil
}

// mutate toma el turno de escritura, entrega a fn el carrito confirmado y confirma el
// resultado si fn indica cambio. Nadie más escribe entre la lectura y el commit.
func (m *Manager) mutate(ctx context.Context, fn func(current entity.Cart) (entity.Cart, bool, error)) error {
	if err := m.writer.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("esperar turno de escritura: %w", err)
	}
	defer m.writer.Release(1)

	next, changed, err := fn(m.Cart())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return m.commit(ctx, next)
}

// commit persiste next y luego lo publica en memoria. Si Store falla, memoria y Store
// quedan con el carrito anterior.
func (m *Manager) commit(ctx context.Context, next entity.Cart) error {
	if err := next.Validate(); err != nil {
		return err
	}
	raw, err := next.Encode()
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.mu.Lock()
	m.cart = next
	m.mu.Unlock()

	m.log.Debug().Str("key", m.key).Int("items", len(next)).Msg("carrito confirmado")
	return nil
}

// report convierte el error de una operación en la notificación para el usuario.
func (m *Manager) report(ctx context.Context, productID int64, err error, kind ports.NotificationKind, msgKey string) {
	if errors.Is(err, domain.ErrOutOfStock) {
		kind, msgKey = ports.KindOutOfStock, i18n.MsgOutOfStock
	}
	m.log.Warn().Err(err).Int64("product_id", productID).Str("kind", string(kind)).Msg("operación de carrito rechazada")
	m.notifier.Notify(ctx, ports.Notification{
		Severity:  ports.SeverityError,
		Kind:      kind,
		Message:   m.translator.Translate(msgKey),
		ProductID: productID,
		At:        m.now(),
	})
}
