package middleware

import (
	"storefront/internal/ctxman"
	"storefront/internal/responses"
	"storefront/internal/structs"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/reply"
	"storefront/pkg/sessionstore"
	"storefront/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(NewMiddleware)
)

const RequestIDHeader = "X-Request-ID"

type (
	Middleware interface {
		Ctx() gin.HandlerFunc
		Identity() gin.HandlerFunc
		GuestSession() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger       logger.Logger
		Config       config.IConfig
		SessionStore sessionstore.Store
	}

	mw struct {
		logger       logger.Logger
		jwtSecret    string
		sessionStore sessionstore.Store
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger:       params.Logger,
		jwtSecret:    params.Config.GetString("auth.jwt_secret"),
		sessionStore: params.SessionStore,
	}
}

// Ctx attaches the log context and request id, and logs each request once
// with its status and duration.
func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if utils.StrEmpty(requestID) || len(requestID) > 64 {
			requestID = utils.GenKSUID()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := m.logger.Context(c.Request.Context())
		ctx = m.logger.WithRequestID(ctx, requestID)
		ctx, capture := m.logger.ContextWithCapture(ctx, c.Request.Method+" "+c.FullPath())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		capture(
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
		)
	}
}

// Identity trusts a bearer token signed by the identity provider. No header
// means an anonymous caller; a bad token is rejected.
func (m *mw) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			response structs.Response
			ctx      = c.Request.Context()
		)

		authToken := c.GetHeader("Authorization")
		if utils.StrEmpty(authToken) {
			c.Next()
			return
		}

		claims, err := utils.ParseJWT(authToken, m.jwtSecret)
		if err != nil {
			m.logger.Warn(ctx, " invalid auth token", zap.Error(err))
			response = responses.Unauthorized

			c.Abort()
			reply.Json(c.Writer, responses.UnauthorizedCode, &response)
			return
		}

		identity := structs.Identity{
			UserID: cast.ToString(claims["id"]),
			Email:  cast.ToString(claims["email"]),
			Role:   cast.ToString(claims["role"]),
		}
		if identity.UserID == "" {
			m.logger.Warn(ctx, " token without user id")
			response = responses.Unauthorized

			c.Abort()
			reply.Json(c.Writer, responses.UnauthorizedCode, &response)
			return
		}

		c.Set("user_id", identity.UserID)
		c.Request = c.Request.WithContext(ctxman.WithIdentity(ctx, identity))
		c.Next()
	}
}

// GuestSession binds the visitor's cart slot for the request.
func (m *mw) GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		slot := m.sessionStore.Bind(c)
		c.Request = c.Request.WithContext(ctxman.WithGuestSession(c.Request.Context(), slot))
		c.Next()
	}
}
