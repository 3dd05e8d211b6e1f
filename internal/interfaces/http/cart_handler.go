package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rocketshoes-cart/internal/application/cart"
	"github.com/jhoicas/rocketshoes-cart/internal/application/dto"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
)

// CartHandler expone el carrito de la sesión. Los fallos de las operaciones del carrito
// no son errores HTTP: llegan como notificaciones en una respuesta 200.
type CartHandler struct {
	carts *cart.Provider
}

// NewCartHandler construye el handler.
func NewCartHandler(carts *cart.Provider) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(dto.NewCartResponse(s.Cart.Cart(), s.Inbox.Drain()))
}

// AddItem godoc
// @Summary      Agregar una unidad de un producto
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	s.Cart.AddProduct(c.UserContext(), id)
	return c.JSON(dto.NewCartResponse(s.Cart.Cart(), s.Inbox.Drain()))
}

// RemoveItem godoc
// @Summary      Quitar un producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	s.Cart.RemoveProduct(c.UserContext(), id)
	return c.JSON(dto.NewCartResponse(s.Cart.Cart(), s.Inbox.Drain()))
}

// UpdateItem godoc
// @Summary      Cambiar la cantidad de un producto
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  int                      true  "ID del producto"
// @Param        body       body  dto.UpdateAmountRequest  true  "Cantidad deseada"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	var in dto.UpdateAmountRequest
	if err := c.BodyParser(&in); err != nil || in.Amount == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "amount es requerido"})
	}
	s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	s.Cart.UpdateProductAmount(c.UserContext(), cart.UpdateAmount{ProductID: id, Amount: *in.Amount})
	return c.JSON(dto.NewCartResponse(s.Cart.Cart(), s.Inbox.Drain()))
}

func (h *CartHandler) session(c *fiber.Ctx) (*cart.Session, error) {
	return h.carts.Session(c.UserContext(), GetSessionID(c))
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	case errors.Is(err, domain.ErrStorage):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "no se pudo leer el carrito, intente más tarde"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func productIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidProductID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "productId debe ser un entero positivo"})
}
