package cache

import (
	"testing"
	"time"

	"storefront/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newCache(logger.NewNop(), func() time.Time { return now })

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set("k", []byte("v"), time.Minute))
	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set("forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	got, err = c.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	require.NoError(t, c.Delete("forever"))
	_, err = c.Get("forever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheCopiesValues(t *testing.T) {
	c := newCache(logger.NewNop(), time.Now)
	value := []byte("abc")
	require.NoError(t, c.Set("k", value, 0))
	value[0] = 'z'

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
