package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Store   StoreConfig
	NATS    NATSConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL (solo el servicio de catálogo).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de los tokens de sesión.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig servicio remoto de productos y stock.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CartConfig comportamiento del carrito.
type CartConfig struct {
	Namespace   string // prefijo de la clave persistida
	Locale      string // idioma de las notificaciones
	InboxSize   int
	SessionIdle time.Duration // inactividad tras la cual la sesión sale de memoria
	EvictEvery  time.Duration // período del barrido de sesiones
}

// StoreConfig almacenamiento persistente de los carritos.
type StoreConfig struct {
	Driver        string // memory | redis | nats
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSBucket    string
}

// NATSConfig conexión NATS (KV de carritos y publicación de notificaciones).
type NATSConfig struct {
	URL           string
	Notify        bool   // publicar notificaciones en NATS
	NotifySubject string // prefijo; se agrega el ID de sesión
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, CATALOG_BASE_URL, STORE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "rocketshoes-cart"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "rocketshoes"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24*30),
			Issuer:     getString(v, "JWT_ISSUER", "rocketshoes-cart"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Catalog: CatalogConfig{
			BaseURL: getString(v, "CATALOG_BASE_URL", "http://localhost:3333"),
			Timeout: time.Duration(getInt(v, "CATALOG_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Cart: CartConfig{
			Namespace:   getString(v, "CART_NAMESPACE", "@RocketShoes"),
			Locale:      getString(v, "CART_LOCALE", "pt-BR"),
			InboxSize:   getInt(v, "CART_INBOX_SIZE", 20),
			SessionIdle: time.Duration(getInt(v, "CART_SESSION_IDLE_MINUTES", 30)) * time.Minute,
			EvictEvery:  time.Duration(getInt(v, "CART_EVICT_SECONDS", 60)) * time.Second,
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getString(v, "STORE_DRIVER", "memory")),
			RedisAddr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
			NATSBucket:    getString(v, "NATS_KV_BUCKET", "carts"),
		},
		NATS: NATSConfig{
			URL:           getString(v, "NATS_URL", ""),
			Notify:        getBool(v, "NATS_NOTIFY", false),
			NotifySubject: getString(v, "NATS_NOTIFY_SUBJECT", "cart.notifications"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	if cfg.Cart.SessionIdle <= 0 || cfg.Cart.EvictEvery <= 0 {
		return nil, fmt.Errorf("CART_SESSION_IDLE_MINUTES y CART_EVICT_SECONDS deben ser positivos")
	}
	if cfg.Catalog.Timeout <= 0 {
		return nil, fmt.Errorf("CATALOG_TIMEOUT_SECONDS debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
