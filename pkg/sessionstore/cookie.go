package sessionstore

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"storefront/pkg/utils"

	"github.com/gin-gonic/gin"
)

type cookieStore struct {
	opts Options
}

// NewCookieStore keeps the whole value in a signed cookie.
func NewCookieStore(opts Options) Store {
	return &cookieStore{opts: opts}
}

func (s *cookieStore) Backend() string {
	return BackendCookie
}

func (s *cookieStore) Bind(c *gin.Context) Slot {
	return &cookieSlot{store: s, c: c}
}

// cookieSlot remembers its own writes so a later Load in the same request
// sees them.
type cookieSlot struct {
	store   *cookieStore
	c       *gin.Context
	pending []byte
	written bool
}

func (s *cookieSlot) Load(context.Context) ([]byte, error) {
	if s.written {
		if s.pending == nil {
			return nil, ErrEmpty
		}
		return append([]byte(nil), s.pending...), nil
	}

	raw, err := s.c.Cookie(s.store.opts.CookieName)
	if err != nil || raw == "" {
		return nil, ErrEmpty
	}
	data, ok := s.store.decode(raw)
	if !ok {
		return nil, ErrEmpty
	}
	return data, nil
}

func (s *cookieSlot) Store(_ context.Context, data []byte) error {
	value := s.store.encode(data)
	if s.store.opts.MaxBytes > 0 && len(s.store.opts.CookieName)+len(value) > s.store.opts.MaxBytes {
		return ErrTooLarge
	}

	s.store.set(s.c, value, int(s.store.opts.MaxAge.Seconds()))
	s.pending = append([]byte(nil), data...)
	s.written = true
	return nil
}

func (s *cookieSlot) Clear(context.Context) error {
	s.store.set(s.c, "", -1)
	s.pending = nil
	s.written = true
	return nil
}

func (s *cookieStore) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, value, maxAge, "/", "", s.opts.Secure, true)
}

// encode produces base64url(payload) "." hex(hmac-sha256).
func (s *cookieStore) encode(data []byte) string {
	payload := base64.RawURLEncoding.EncodeToString(data)
	return payload + "." + utils.GetHMac256([]byte(payload), s.opts.Secret)
}

func (s *cookieStore) decode(value string) ([]byte, bool) {
	payload, signature, found := strings.Cut(value, ".")
	if !found {
		return nil, false
	}
	if !utils.VerifyHMac256([]byte(payload), s.opts.Secret, signature) {
		return nil, false
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}
