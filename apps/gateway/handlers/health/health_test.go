package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/structs"
	"storefront/pkg/db"
	"storefront/pkg/logger"
	"storefront/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	db.Querier
	err error
}

func (f fakeDB) Ping(context.Context) error { return f.err }

type fakeRedis struct {
	redis.Client
	err error
}

func (f fakeRedis) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name           string
		dbErr          error
		redisErr       error
		expectedStatus int
		expectedBody   map[string]any
	}{
		{
			name:           "given both stores up should be healthy",
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"status": "healthy", "database": "connected", "cache": "connected"},
		},
		{
			name:           "given the database down should be unavailable",
			dbErr:          down,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   map[string]any{"status": "unhealthy", "database": "disconnected", "cache": "connected"},
		},
		{
			name:           "given redis down should be unavailable",
			redisErr:       down,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   map[string]any{"status": "unhealthy", "database": "connected", "cache": "disconnected"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			h := New(Params{Logger: logger.NewNop(), DB: fakeDB{err: test.dbErr}, Redis: fakeRedis{err: test.redisErr}}).(*handler)
			h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
			r := gin.New()
			r.GET("/health", h.Health)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, test.expectedStatus, w.Code)
			var resp structs.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			test.expectedBody["timestamp"] = "2026-01-02T03:04:05Z"
			assert.Equal(t, test.expectedBody, resp.Payload)
		})
	}
}
