package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/rocketshoes-cart/internal/application/dto"
	"github.com/jhoicas/rocketshoes-cart/pkg/jwt"
)

// SessionHandler emite tokens de sesión de carrito (público).
type SessionHandler struct {
	secret     string
	issuer     string
	expMinutes int
}

// NewSessionHandler construye el handler.
func NewSessionHandler(secret, issuer string, expMinutes int) *SessionHandler {
	return &SessionHandler{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Create godoc
// @Summary      Crear sesión de carrito
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	sessionID := uuid.NewString()
	token, err := jwt.Generate(h.secret, sessionID, h.issuer, h.expMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	_, exp, err := jwt.Parse(h.secret, token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{SessionID: sessionID, Token: token, ExpiresAt: exp})
}
