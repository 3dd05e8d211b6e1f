package ports

import (
	"context"

	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// StockQuery consulta el inventario disponible de un producto (GET /stock/:id).
// Cualquier fallo de red, HTTP 4xx/5xx o respuesta malformada debe devolverse como error.
type StockQuery interface {
	GetStock(ctx context.Context, productID int64) (entity.Stock, error)
}

// CatalogFetch obtiene el registro completo de un producto (GET /products/:id), sin cantidad.
type CatalogFetch interface {
	GetProduct(ctx context.Context, productID int64) (entity.Product, error)
}

// CatalogService agrupa ambos puertos; el cliente HTTP del catálogo implementa los dos.
type CatalogService interface {
	StockQuery
	CatalogFetch
}
