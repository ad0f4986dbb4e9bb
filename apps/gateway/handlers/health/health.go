package health

import (
	"context"
	"time"

	"storefront/internal/responses"
	"storefront/internal/structs"
	"storefront/pkg/db"
	"storefront/pkg/logger"
	"storefront/pkg/redis"
	"storefront/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusUp        = "connected"
	statusDown      = "disconnected"
	pingTimeout     = 2 * time.Second
)

type (
	Handler interface {
		Health(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
		Redis  redis.Client
	}

	handler struct {
		logger logger.Logger
		db     db.Querier
		redis  redis.Client
		now    func() time.Time
	}

	Status struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Database  string    `json:"database"`
		Cache     string    `json:"cache"`
	}
)

func New(p Params) Handler {
	return &handler{
		logger: p.Logger,
		db:     p.DB,
		redis:  p.Redis,
		now:    time.Now,
	}
}

func (h *handler) Health(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		status   = Status{Status: statusHealthy, Database: statusUp, Cache: statusUp}
	)
	defer func() { reply.Json(c.Writer, response.Code, &response) }()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		h.logger.Error(ctx, " database ping failed", zap.Error(err))
		status.Database = statusDown
		status.Status = statusUnhealthy
	}
	if err := h.redis.Ping(pingCtx); err != nil {
		h.logger.Error(ctx, " redis ping failed", zap.Error(err))
		status.Cache = statusDown
		status.Status = statusUnhealthy
	}
	status.Timestamp = h.now().UTC()

	response = responses.Success
	if status.Status != statusHealthy {
		response = responses.ServiceUnavailable
	}
	response.Payload = status
}
