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
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/jhoicas/rocketshoes-cart/internal/application/cart"
	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/catalogclient"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/notification"
	"github.com/jhoicas/rocketshoes-cart/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/rocketshoes-cart/internal/interfaces/http"
	"github.com/jhoicas/rocketshoes-cart/pkg/config"
	"github.com/jhoicas/rocketshoes-cart/pkg/i18n"
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
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Str("catalog", cfg.Catalog.BaseURL).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto aleatorio, los tokens no sobreviven un reinicio")
	}

	ctx := context.Background()

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = nats.Connect(cfg.NATS.URL,
			nats.Name(cfg.App.Name),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Warn().Err(err).Msg("NATS desconectado")
			}),
		)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("conexión a NATS")
		}
		defer nc.Drain()
	}

	store, closeStore, err := storage.Open(ctx, cfg.Store, nc)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de carritos")
	}
	defer closeStore()

	sinks := func(sessionID string) []ports.Notifier {
		out := []ports.Notifier{notification.NewLogNotifier(log.Named("notification"), sessionID)}
		if cfg.NATS.Notify && nc != nil {
			out = append(out, notification.NewNATSNotifier(nc, cfg.NATS.NotifySubject, sessionID, log))
		}
		return out
	}

	translator := i18n.New(cfg.Cart.Locale)
	carts, err := cart.NewProvider(cart.ProviderConfig{
		Namespace:  cfg.Cart.Namespace,
		Catalog:    catalogclient.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout),
		Store:      store,
		Translator: translator,
		Logger:     log,
		InboxSize:  cfg.Cart.InboxSize,
		Sinks:      sinks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("provider de carritos")
	}
	log.Info().Str("locale", translator.Locale()).Msg("idioma de notificaciones")

	evictCtx, stopEvictor := context.WithCancel(ctx)
	defer stopEvictor()
	go carts.RunEvictor(evictCtx, cfg.Cart.EvictEvery, cfg.Cart.SessionIdle)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/cart.swagger.json",
		Path:     "docs",
		Title:    "RocketShoes Cart API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Carts:         carts,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpMinutes: cfg.JWT.Expiration,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopEvictor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Int("sessions", carts.Len()).Msg("aplicación detenida")
}
