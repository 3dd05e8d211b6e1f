package entity

// Stock representa las unidades disponibles en inventario para un producto.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Allows indica si el inventario alcanza para tener amount unidades en el carrito.
func (s Stock) Allows(amount int) bool {
	return s.Amount >= amount
}
