package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/pkg/cache"
	"storefront/pkg/redis"
	"storefront/pkg/utils"

	"github.com/gin-gonic/gin"
)

const keyPrefix = "guest_cart."

// keyValue is the server-side medium behind a session id cookie.
type keyValue interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

type redisKV struct {
	client redis.Client
}

func (r redisKV) get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Find(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r redisKV) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Save(ctx, key, value, ttl)
}

func (r redisKV) del(ctx context.Context, key string) error {
	return r.client.Delete(ctx, key)
}

type cacheKV struct {
	cache cache.ICache
}

func (m cacheKV) get(_ context.Context, key string) ([]byte, error) {
	value, err := m.cache.Get(key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	return value, nil
}

func (m cacheKV) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.cache.Set(key, value, ttl)
}

func (m cacheKV) del(_ context.Context, key string) error {
	return m.cache.Delete(key)
}

type serverStore struct {
	backend string
	kv      keyValue
	opts    Options
}

// NewRedisStore keeps the value in redis; the cookie carries only a ksuid
// session id. Every write renews the expiry.
func NewRedisStore(client redis.Client, opts Options) Store {
	return &serverStore{backend: BackendRedis, kv: redisKV{client: client}, opts: opts}
}

// NewMemoryStore is NewRedisStore backed by the process-local cache.
func NewMemoryStore(c cache.ICache, opts Options) Store {
	return &serverStore{backend: BackendMemory, kv: cacheKV{cache: c}, opts: opts}
}

func (s *serverStore) Backend() string {
	return s.backend
}

func (s *serverStore) Bind(c *gin.Context) Slot {
	slot := &serverSlot{store: s, c: c}
	if sid, err := c.Cookie(s.opts.SessionCookieName); err == nil && utils.IsKSUID(sid) {
		slot.sid = sid
	}
	return slot
}

type serverSlot struct {
	store *serverStore
	c     *gin.Context
	sid   string
}

func (s *serverSlot) Load(ctx context.Context) ([]byte, error) {
	if s.sid == "" {
		return nil, ErrEmpty
	}
	value, err := s.store.kv.get(ctx, keyPrefix+s.sid)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("load guest session: %w", err)
	}
	return value, nil
}

func (s *serverSlot) Store(ctx context.Context, data []byte) error {
	if s.store.opts.MaxBytes > 0 && len(data) > s.store.opts.MaxBytes {
		return ErrTooLarge
	}
	if s.sid == "" {
		s.sid = utils.GenKSUID()
	}
	if err := s.store.kv.set(ctx, keyPrefix+s.sid, data, s.store.opts.MaxAge); err != nil {
		return fmt.Errorf("store guest session: %w", err)
	}
	s.setCookie(s.sid, int(s.store.opts.MaxAge.Seconds()))
	return nil
}

func (s *serverSlot) Clear(ctx context.Context) error {
	if s.sid == "" {
		return nil
	}
	if err := s.store.kv.del(ctx, keyPrefix+s.sid); err != nil {
		return fmt.Errorf("clear guest session: %w", err)
	}
	s.setCookie("", -1)
	s.sid = ""
	return nil
}

func (s *serverSlot) setCookie(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.store.opts.SessionCookieName, value, maxAge, "/", "", s.store.opts.Secure, true)
}
