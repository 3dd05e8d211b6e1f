// catalog sirve productos y stock desde PostgreSQL (GET /products, /products/:id, /stock/:id).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/rocketshoes-cart/internal/application/catalog"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/rocketshoes-cart/internal/interfaces/http"
	"github.com/jhoicas/rocketshoes-cart/pkg/config"
	"github.com/jhoicas/rocketshoes-cart/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "catalog",
	})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Strs("applied", applied).Msg("migraciones al día")

	uc := catalog.NewUseCase(postgres.NewProductRepository(pool), postgres.NewStockRepository(pool))

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/catalog.swagger.json",
		Path:     "docs",
		Title:    "RocketShoes Catalog API",
	}))

	httpRouter.CatalogRouter(app, uc)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("catálogo detenido")
}
