package dto

import (
	"time"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// CartResponse carrito confirmado, sus totales y las notificaciones pendientes de la sesión.
type CartResponse struct {
	Items         []entity.CartItem    `json:"items"`
	Summary       entity.CartSummary   `json:"summary"`
	Notifications []ports.Notification `json:"notifications"`
}

// NewCartResponse arma la respuesta a partir de una copia del carrito.
func NewCartResponse(c entity.Cart, notes []ports.Notification) CartResponse {
	if c == nil {
		c = entity.Cart{}
	}
	if notes == nil {
		notes = []ports.Notification{}
	}
	return CartResponse{Items: c, Summary: c.Summary(), Notifications: notes}
}

// UpdateAmountRequest cuerpo de PUT /api/cart/items/:productId.
type UpdateAmountRequest struct {
	Amount *int `json:"amount"`
}

// SessionResponse token de una sesión de carrito nueva.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
