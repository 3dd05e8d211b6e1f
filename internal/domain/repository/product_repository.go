package repository

import (
	"context"

	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo de productos (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
