package entity

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rocketshoes-cart/internal/domain"
)

// CartItem línea del carrito: el producto del catálogo más la cantidad elegida (Amount >= 1).
// Se serializa plano: {"id", "name", "price", "image", "amount"}.
type CartItem struct {
	Product
	Amount int `json:"amount"`
}

// Subtotal precio unitario por cantidad.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// Cart secuencia ordenada de líneas, única por ID de producto.
// Las operaciones devuelven un Cart nuevo; nunca modifican el receptor.
type Cart []CartItem

// CartSummary totales que muestra la tienda (cabecera y página del carrito).
type CartSummary struct {
	Items int             `json:"items"` // productos distintos
	Units int             `json:"units"`
	Total decimal.Decimal `json:"total"`
}

// Find busca la línea del producto. Lectura pura.
func (c Cart) Find(productID int64) (CartItem, bool) {
	for _, item := range c {
		if item.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// Clone copia la secuencia; un carrito vacío se clona como slice vacío (no nil).
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Append agrega el producto al final con cantidad 1.
func (c Cart) Append(p Product) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, CartItem{Product: p, Amount: 1})
}

// Increment suma una unidad a la línea del producto. Las demás líneas quedan iguales.
func (c Cart) Increment(productID int64) Cart {
	out := c.Clone()
	for i := range out {
		if out[i].ID == productID {
			out[i].Amount++
		}
	}
	return out
}

// WithAmount reemplaza la cantidad de la línea del producto por amount.
func (c Cart) WithAmount(productID int64, amount int) Cart {
	out := c.Clone()
	for i := range out {
		if out[i].ID == productID {
			out[i].Amount = amount
		}
	}
	return out
}

// Without excluye la línea del producto conservando el orden del resto.
func (c Cart) Without(productID int64) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// Validate verifica los invariantes: Amount >= 1 y sin IDs repetidos.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for _, item := range c {
		if item.Amount < 1 {
			return fmt.Errorf("producto %d con cantidad %d: %w", item.ID, item.Amount, domain.ErrInvalidAmount)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("producto %d: %w", item.ID, domain.ErrDuplicateProduct)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// Summary calcula los totales del carrito.
func (c Cart) Summary() CartSummary {
	s := CartSummary{Items: len(c), Total: decimal.Zero}
	for _, item := range c {
		s.Units += item.Amount
		s.Total = s.Total.Add(item.Subtotal())
	}
	return s
}

// Encode serializa el carrito como arreglo JSON (nunca "null").
func (c Cart) Encode() (string, error) {
	if c == nil {
		c = Cart{}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("serializar carrito: %w", err)
	}
	return string(raw), nil
}

// DecodeCart reconstruye un carrito serializado con Encode y valida sus invariantes.
func DecodeCart(raw string) (Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("deserializar carrito: %w", err)
	}
	if c == nil {
		c = Cart{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
