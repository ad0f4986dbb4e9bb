package sessionstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/pkg/cache"
	"storefront/pkg/logger"
	"storefront/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{
	CookieName:        "guest_cart",
	SessionCookieName: "guest_session",
	Secret:            "test-secret",
	MaxAge:            30 * 24 * time.Hour,
	MaxBytes:          4096,
}

// request binds a fresh slot to a request carrying the given cookies.
func request(store Store, cookies ...*http.Cookie) (Slot, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		c.Request.AddCookie(cookie)
	}
	return store.Bind(c), w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestCookieStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCookieStore(testOptions)

	slot, w := request(store)
	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, slot.Store(ctx, []byte(`[{"productId":"p1","quantity":2}]`)))

	pending, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, string(pending))

	cookie := cookieNamed(w, "guest_cart")
	require.NotNil(t, cookie)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	next, _ := request(store, cookie)
	data, err := next.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, string(data))
}

func TestCookieStoreRejectsUntrustedValues(t *testing.T) {
	ctx := context.Background()
	store := NewCookieStore(testOptions)

	slot, w := request(store)
	require.NoError(t, slot.Store(ctx, []byte(`[]`)))
	signed := cookieNamed(w, "guest_cart").Value
	payload, signature, _ := strings.Cut(signed, ".")

	tests := []struct {
		name  string
		value string
	}{
		{name: "given garbage should be empty", value: "not-a-cart"},
		{name: "given a forged signature should be empty", value: payload + ".deadbeef"},
		{name: "given a swapped payload should be empty", value: "W10x." + signature},
		{name: "given a value signed with another secret should be empty", value: NewCookieStore(Options{Secret: "other"}).(*cookieStore).encode([]byte(`[]`))},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			slot, _ := request(store, &http.Cookie{Name: "guest_cart", Value: test.value})
			_, err := slot.Load(ctx)
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestCookieStoreSizeBudget(t *testing.T) {
	slot, w := request(NewCookieStore(testOptions))

	err := slot.Store(context.Background(), []byte(strings.Repeat("x", 4096)))

	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, cookieNamed(w, "guest_cart"))
}

func TestCookieStoreClear(t *testing.T) {
	ctx := context.Background()
	slot, w := request(NewCookieStore(testOptions))
	require.NoError(t, slot.Store(ctx, []byte(`[]`)))

	require.NoError(t, slot.Clear(ctx))

	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, ErrEmpty)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Less(t, cookies[len(cookies)-1].MaxAge, 0)
}

// fakeRedis is an in-memory redis.Client.
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Save(_ context.Context, key string, value any, dur time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = dur
	return nil
}

func (f *fakeRedis) SaveObj(ctx context.Context, key string, value any, dur time.Duration) error {
	return f.Save(ctx, key, value, dur)
}

func (f *fakeRedis) Find(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeRedis) FindObj(context.Context, string, any) error { return nil }

func (f *fakeRedis) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func TestServerStores(t *testing.T) {
	rdb := newFakeRedis()
	stores := map[string]Store{
		BackendRedis:  NewRedisStore(rdb, testOptions),
		BackendMemory: NewMemoryStore(cache.New(cache.Params{Logger: logger.NewNop()}), testOptions),
	}

	for backend, store := range stores {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			assert.Equal(t, backend, store.Backend())

			slot, w := request(store)
			_, err := slot.Load(ctx)
			assert.ErrorIs(t, err, ErrEmpty)
			require.NoError(t, slot.Store(ctx, []byte(`[{"productId":"p1","quantity":1}]`)))

			sid := cookieNamed(w, "guest_session")
			require.NotNil(t, sid)
			assert.Nil(t, cookieNamed(w, "guest_cart"))

			next, w2 := request(store, sid)
			data, err := next.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"productId":"p1","quantity":1}]`, string(data))

			require.NoError(t, next.Clear(ctx))
			assert.Less(t, cookieNamed(w2, "guest_session").MaxAge, 0)

			again, _ := request(store, sid)
			_, err = again.Load(ctx)
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}

	for key, ttl := range rdb.ttls {
		assert.True(t, strings.HasPrefix(key, keyPrefix))
		assert.Equal(t, testOptions.MaxAge, ttl)
	}
}

func TestServerStoreIgnoresForeignSessionIDs(t *testing.T) {
	store := NewRedisStore(newFakeRedis(), testOptions)

	slot, _ := request(store, &http.Cookie{Name: "guest_session", Value: "../../etc"})
	_, err := slot.Load(context.Background())

	assert.ErrorIs(t, err, ErrEmpty)
}
