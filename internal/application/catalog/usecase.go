// Package catalog casos de uso del servicio de catálogo (productos y stock).
package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/rocketshoes-cart/internal/application/dto"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/repository"
)

// UseCase lectura del catálogo.
type UseCase struct {
	products repository.ProductRepository
	stock    repository.StockRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(products repository.ProductRepository, stock repository.StockRepository) *UseCase {
	return &UseCase{products: products, stock: stock}
}

// GetProduct obtiene un producto; ErrNotFound si no existe.
func (uc *UseCase) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// GetStock stock de un producto. Un producto sin fila de stock tiene 0 unidades;
// ErrNotFound si el producto no existe.
func (uc *UseCase) GetStock(ctx context.Context, id int64) (*entity.Stock, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.stock.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	return &entity.Stock{ID: id, Amount: 0}, nil
}

// List página del catálogo ordenada por ID.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	items, err := uc.products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Product{}
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
