package cache

import (
	"errors"
	"sync"
	"time"

	"storefront/pkg/logger"

	"go.uber.org/fx"
)

var (
	Module      = fx.Provide(New)
	ErrNotFound = errors.New("cache: key not found")
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
	}

	// ICache is a process-local byte cache with per-key expiry.
	ICache interface {
		Set(key string, value []byte, ttl time.Duration) error
		Get(key string) ([]byte, error)
		Delete(key string) error
	}

	cache struct {
		logger   logger.Logger
		expires  map[string]time.Time
		memCache map[string][]byte
		now      func() time.Time
		m        sync.RWMutex
	}
)

func New(p Params) ICache {
	return newCache(p.Logger, time.Now)
}

func newCache(log logger.Logger, now func() time.Time) *cache {
	return &cache{
		logger:   log,
		memCache: map[string][]byte{},
		expires:  map[string]time.Time{},
		now:      now,
	}
}

// Set stores a copy of value. A zero ttl never expires.
func (c *cache) Set(key string, value []byte, ttl time.Duration) error {
	c.m.Lock()
	defer c.m.Unlock()

	c.memCache[key] = append([]byte(nil), value...)
	if ttl > 0 {
		c.expires[key] = c.now().Add(ttl)
	} else {
		delete(c.expires, key)
	}
	return nil
}

func (c *cache) Get(key string) ([]byte, error) {
	c.m.RLock()
	value, ok := c.memCache[key]
	expiresAt, hasExpiry := c.expires[key]
	c.m.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if hasExpiry && !c.now().Before(expiresAt) {
		_ = c.Delete(key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (c *cache) Delete(key string) error {
	c.m.Lock()
	defer c.m.Unlock()

	delete(c.memCache, key)
	delete(c.expires, key)
	return nil
}
