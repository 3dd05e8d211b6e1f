package repository

import (
	"context"

	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// StockRepository define el puerto para consultar el inventario de un producto.
// Get devuelve (nil, nil) si no hay fila de stock para el producto.
type StockRepository interface {
	Get(ctx context.Context, productID int64) (*entity.Stock, error)
}
