package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rocketshoes-cart/internal/application/cart"
	"github.com/jhoicas/rocketshoes-cart/internal/application/catalog"
)

// RouterDeps dependencias del router del carrito.
type RouterDeps struct {
	Carts         *cart.Provider
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
}

// Router registra las rutas de la API del carrito.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", health)

	api := app.Group("/api")

	// Sesiones (público)
	sessionHandler := NewSessionHandler(deps.JWTSecret, deps.JWTIssuer, deps.JWTExpMinutes)
	api.Post("/sessions", sessionHandler.Create)

	// Carrito (requiere Bearer Token de sesión)
	cartGroup := api.Group("/cart", SessionMiddleware(deps.JWTSecret))
	cartHandler := NewCartHandler(deps.Carts)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/items/:productId", cartHandler.AddItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateItem)
}

// CatalogRouter registra las rutas públicas del servicio de catálogo.
func CatalogRouter(app *fiber.App, uc *catalog.UseCase) {
	app.Get("/health", health)

	h := NewCatalogHandler(uc)
	app.Get("/products", h.ListProducts)
	app.Get("/products/:id", h.GetProduct)
	app.Get("/stock/:id", h.GetStock)
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
