package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// En el catálogo no lleva cantidad; la cantidad solo existe en CartItem.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}
