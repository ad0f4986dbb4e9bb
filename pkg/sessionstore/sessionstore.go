package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/pkg/cache"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
	"storefront/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

var (
	// ErrEmpty is returned by Load when the visitor has nothing stored or the
	// stored value cannot be trusted.
	ErrEmpty = errors.New("sessionstore: slot is empty")
	// ErrTooLarge is returned by Store when the value exceeds the backing's budget.
	ErrTooLarge = errors.New("sessionstore: value exceeds size budget")
)

const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type (
	// Slot is one visitor's storage, bound to the current request. Writes
	// replace the whole value.
	Slot interface {
		Load(ctx context.Context) ([]byte, error)
		Store(ctx context.Context, data []byte) error
		Clear(ctx context.Context) error
	}

	// Store hands out a slot per request.
	Store interface {
		Bind(c *gin.Context) Slot
		Backend() string
	}

	Params struct {
		fx.In
		Config config.IConfig
		Logger logger.Logger
		Redis  redis.Client
		Cache  cache.ICache
	}

	Options struct {
		CookieName        string
		SessionCookieName string
		Secret            string
		MaxAge            time.Duration
		MaxBytes          int
		Secure            bool
	}
)

func New(p Params) (Store, error) {
	opts := Options{
		CookieName:        p.Config.GetString("guest_cart.cookie_name"),
		SessionCookieName: p.Config.GetString("guest_cart.session_cookie_name"),
		Secret:            p.Config.GetString("guest_cart.secret"),
		MaxAge:            p.Config.GetDuration("guest_cart.max_age"),
		MaxBytes:          p.Config.GetInt("guest_cart.max_bytes"),
		Secure:            p.Config.GetBool("guest_cart.secure"),
	}

	backend := p.Config.GetString("guest_cart.backend")
	p.Logger.Info(context.Background(), "guest cart session store", zap.String("backend", backend))

	switch backend {
	case BackendCookie, "":
		if opts.Secret == "" {
			opts.Secret = utils.GenKSUID()
			p.Logger.Warn(context.Background(), "guest_cart.secret is empty, guest carts will not survive a restart")
		}
		return NewCookieStore(opts), nil
	case BackendRedis:
		return NewRedisStore(p.Redis, opts), nil
	case BackendMemory:
		return NewMemoryStore(p.Cache, opts), nil
	default:
		return nil, fmt.Errorf("unknown guest_cart.backend %q", backend)
	}
}
