package dto

import "github.com/jhoicas/rocketshoes-cart/internal/domain/entity"

// ProductListResponse página del catálogo.
type ProductListResponse struct {
	Items []*entity.Product `json:"items"`
	Page  PageResponse      `json:"page"`
}
