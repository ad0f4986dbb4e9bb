package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Module = fx.Provide(NewConfig)

type IConfig interface {
	Get(key string) interface{}
	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetString(key string) string
	GetStringSlice(key string) []string
	GetDuration(key string) time.Duration
	UnmarshalKey(key string, val interface{}) error
}

type config struct {
	cfg *viper.Viper
}

func NewConfig() IConfig {
	_ = godotenv.Load()
	return New(viper.New())
}

// New wraps an already populated viper instance with env bindings and defaults.
func New(cfg *viper.Viper) IConfig {
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	setDefaults(cfg)

	_ = cfg.BindEnv("server.host", "SERVICE_HOST")
	_ = cfg.BindEnv("server.port", "SERVICE_HTTP_PORT")
	_ = cfg.BindEnv("log.level", "LOG_LEVEL")
	_ = cfg.BindEnv("database.dns", "DATABASE_DNS")
	_ = cfg.BindEnv("database.migration", "DATABASE_MIGRATION")
	_ = cfg.BindEnv("database.migration_source", "DATABASE_MIGRATION_SOURCE")
	_ = cfg.BindEnv("database.host", "POSTGRES_HOST")
	_ = cfg.BindEnv("database.user", "POSTGRES_USER")
	_ = cfg.BindEnv("database.password", "POSTGRES_PASSWORD")
	_ = cfg.BindEnv("database.dbname", "POSTGRES_DATABASE")
	_ = cfg.BindEnv("database.port", "POSTGRES_PORT")
	_ = cfg.BindEnv("database.pool_max_conns", "POSTGRES_MAX_CONNECTION")
	_ = cfg.BindEnv("database.pool_max_conn_lifetime", "POSTGRES_POOL_MAX_CONN_LIFETIME")
	_ = cfg.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = cfg.BindEnv("redis.addrs", "REDIS_ADDRS")
	_ = cfg.BindEnv("redis.prefix", "REDIS_PREFIX")
	_ = cfg.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	_ = cfg.BindEnv("guest_cart.backend", "GUEST_CART_BACKEND")
	_ = cfg.BindEnv("guest_cart.secret", "GUEST_CART_SECRET")
	_ = cfg.BindEnv("guest_cart.secure", "GUEST_CART_SECURE")
	_ = cfg.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")
	_ = cfg.BindEnv("app.url", "APP_URL")
	_ = cfg.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = cfg.BindEnv("gin.trusted_proxies", "GIN_TRUSTED_PROXIES")

	if addrs := os.Getenv("REDIS_ADDRS"); addrs != "" {
		cfg.Set("redis.addrs", strings.Split(addrs, ","))
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Set("cors.allowed_origins", strings.Split(origins, ","))
	}

	if cfg.GetString("database.dns") == "" {
		if dsn := BuildPostgresDSNFromViper(cfg); dsn != "" {
			cfg.Set("database.dns", dsn)
		}
	}
	if cfg.GetString("database.migration") == "" {
		if url := BuildPostgresURLFromViper(cfg); url != "" {
			cfg.Set("database.migration", url)
		}
	}

	return &config{cfg: cfg}
}

func setDefaults(cfg *viper.Viper) {
	cfg.SetDefault("server.port", ":8080")
	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("database.migration_source", "file://migrations")
	cfg.SetDefault("redis.addrs", []string{"127.0.0.1:6379"})
	cfg.SetDefault("redis.prefix", "storefront")
	cfg.SetDefault("guest_cart.backend", "cookie")
	cfg.SetDefault("guest_cart.cookie_name", "guest_cart")
	cfg.SetDefault("guest_cart.session_cookie_name", "guest_session")
	cfg.SetDefault("guest_cart.max_age", 30*24*time.Hour)
	cfg.SetDefault("guest_cart.max_bytes", 4096)
	cfg.SetDefault("catalog.cache_ttl", time.Minute)
	cfg.SetDefault("catalog.page_size", 20)
	cfg.SetDefault("catalog.search_limit", 10)
	cfg.SetDefault("catalog.featured_limit", 6)
	cfg.SetDefault("checkout.currency", "usd")
	cfg.SetDefault("checkout.allowed_countries", []string{"US", "CA"})
	cfg.SetDefault("app.url", "http://localhost:3002")
	cfg.SetDefault("cors.allowed_origins", []string{"http://localhost:3002"})
}

func (c *config) Get(key string) interface{} {
	return c.cfg.Get(key)
}

func (c *config) GetBool(key string) bool {
	return c.cfg.GetBool(key)
}

func (c *config) GetInt(key string) int {
	return c.cfg.GetInt(key)
}

func (c *config) GetInt64(key string) int64 {
	return c.cfg.GetInt64(key)
}

func (c *config) GetString(key string) string {
	return c.cfg.GetString(key)
}

func (c *config) GetStringSlice(key string) []string {
	return c.cfg.GetStringSlice(key)
}

func (c *config) UnmarshalKey(key string, val interface{}) error {
	return c.cfg.UnmarshalKey(key, val)
}

func (c *config) GetDuration(key string) time.Duration {
	return c.cfg.GetDuration(key)
}

func BuildPostgresDSNFromViper(v *viper.Viper) string {
	var (
		user     = v.GetString("database.user")
		password = v.GetString("database.password")
		dbname   = v.GetString("database.dbname")
		host     = v.GetString("database.host")
		port     = v.GetString("database.port")
	)
	if user == "" && host == "" && dbname == "" {
		return ""
	}

	poolMaxConns := v.GetInt("database.pool_max_conns")
	if poolMaxConns == 0 {
		poolMaxConns = 30
	}
	poolLifetime := v.GetString("database.pool_max_conn_lifetime")
	if poolLifetime == "" {
		poolLifetime = "1h30m"
	}

	parts := []string{}
	if user != "" {
		parts = append(parts, "user="+user)
	}
	if password != "" {
		parts = append(parts, "password="+password)
	}
	if dbname != "" {
		parts = append(parts, "dbname="+dbname)
	}
	if host != "" {
		parts = append(parts, "host="+host)
	}
	if port != "" {
		parts = append(parts, "port="+port)
	}
	parts = append(parts, fmt.Sprintf("pool_max_conns=%d", poolMaxConns))
	parts = append(parts, fmt.Sprintf("pool_max_conn_lifetime=%s", poolLifetime))

	return strings.Join(parts, " ")
}

func BuildPostgresURLFromViper(v *viper.Viper) string {
	var (
		user     = v.GetString("database.user")
		password = v.GetString("database.password")
		host     = v.GetString("database.host")
		port     = v.GetString("database.port")
		dbname   = v.GetString("database.dbname")
	)
	if user == "" || host == "" || dbname == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user,
		password,
		host,
		port,
		dbname,
	)
}
