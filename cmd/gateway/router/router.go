package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/apps/gateway/handlers/cart"
	"storefront/apps/gateway/handlers/category"
	"storefront/apps/gateway/handlers/checkout"
	"storefront/apps/gateway/handlers/health"
	"storefront/apps/gateway/handlers/middleware"
	"storefront/apps/gateway/handlers/product"
	"storefront/pkg/config"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
	Category  category.Handler
	Product   product.Handler
	Cart      cart.Handler
	Checkout  checkout.Handler
	Health    health.Handler
}

// Handlers is the set of endpoints mounted by Routes.
type Handlers struct {
	Middleware middleware.Middleware
	Category   category.Handler
	Product    product.Handler
	Cart       cart.Handler
	Checkout   checkout.Handler
	Health     health.Handler
}

func Routes(h Handlers) *gin.Engine {
	r := gin.New()
	baseUrl := "/api/v1"

	api := r.Group(baseUrl)
	api.Use(h.Middleware.Ctx(), gin.Recovery())

	api.GET("/health", h.Health.Health)

	categoryGroup := api.Group("/category")
	{
		categoryGroup.GET("", h.Category.GetListCategory)
		categoryGroup.GET("/:slug", h.Category.GetBySlugCategory)
	}
	productGroup := api.Group("/product")
	{
		productGroup.GET("", h.Product.GetListProduct)
		productGroup.GET("/featured", h.Product.GetFeaturedProduct)
		productGroup.GET("/:slug", h.Product.GetBySlugProduct)
	}

	shop := api.Group("")
	shop.Use(h.Middleware.Identity(), h.Middleware.GuestSession())

	cartGroup := shop.Group("/cart")
	{
		cartGroup.GET("", h.Cart.GetCart)
		cartGroup.GET("/count", h.Cart.GetCartCount)
		cartGroup.POST("", h.Cart.AddToCart)
		cartGroup.PATCH("/item", h.Cart.UpdateCartItem)
		cartGroup.DELETE("/item", h.Cart.RemoveCartItem)
		cartGroup.DELETE("", h.Cart.ClearCart)
	}
	shop.POST("/checkout", h.Checkout.PrepareCheckout)

	return r
}

func NewRouter(params Params) error {
	r := Routes(Handlers{
		Middleware: params.Middleware,
		Category:   params.Category,
		Product:    params.Product,
		Cart:       params.Cart,
		Checkout:   params.Checkout,
		Health:     params.Health,
	})
	if proxies := params.Config.GetStringSlice("gin.trusted_proxies"); len(proxies) > 0 {
		if err := r.SetTrustedProxies(proxies); err != nil {
			return err
		}
	}

	server := http.Server{
		Addr:              params.Config.GetString("server.port"),
		ReadHeaderTimeout: 10 * time.Second,
		Handler: cors.New(cors.Options{
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowedOrigins:   params.Config.GetStringSlice("cors.allowed_origins"),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowCredentials: true,
		}).Handler(r),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Starting application")
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
	return nil
}
