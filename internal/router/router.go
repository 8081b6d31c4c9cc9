package router

import (
	"strings"

	"github.com/elwarcha/gallery/internal/config"
	adminhandlers "github.com/elwarcha/gallery/internal/http/handlers/admin"
	publichandlers "github.com/elwarcha/gallery/internal/http/handlers/public"
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := c.Cache.Client()
	loginRule := newRateLimitRule(c.Cache.Key("rate:login"), cfg.RateLimit.Login)
	checkoutRule := newRateLimitRule(c.Cache.Key("rate:checkout"), cfg.RateLimit.Checkout)
	discountRule := newRateLimitRule(c.Cache.Key("rate:discount"), cfg.RateLimit.Discount)
	contactRule := newRateLimitRule(c.Cache.Key("rate:contact"), cfg.RateLimit.Contact)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled && c.HTTPMetrics != nil {
		r.Use(c.HTTPMetrics.Middleware())
		r.GET(metricsPath(cfg.Metrics.Path), c.HTTPMetrics.Handler())
	}
	r.Use(IdentityMiddleware(c.UserAuthService))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})
	r.NoRoute(func(ctx *gin.Context) {
		shared.RespondError(ctx, response.CodeNotFound, shared.KeyNotFound, nil)
	})

	apiV1 := r.Group("/api/v1")
	{
		catalog := apiV1.Group("/paintings")
		{
			catalog.GET("", publicHandler.ListPaintings)
			catalog.GET("/:id", publicHandler.GetPainting)
		}
		apiV1.GET("/facets", publicHandler.ListFacets)

		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/count", publicHandler.CartCount)
			cart.POST("/items", publicHandler.AddToCart)
			cart.PATCH("/items/:key", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:key", publicHandler.RemoveCartItem)
		}

		apiV1.POST("/discounts/validate",
			RateLimitMiddleware(redisClient, discountRule, KeyByIP),
			publicHandler.ValidateDiscount,
		)

		apiV1.POST("/contact",
			RateLimitMiddleware(redisClient, contactRule, KeyByIP),
			publicHandler.SubmitContact,
		)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		user := apiV1.Group("")
		user.Use(RequireUserMiddleware())
		{
			user.GET("/me", publicHandler.Me)
			user.PATCH("/me", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.PlaceOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
		}

		admin := apiV1.Group("/admin")
		admin.Use(RequireUserMiddleware(), AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)

			admin.GET("/discounts", adminHandler.GetAdminDiscounts)
			admin.GET("/discounts/:id", adminHandler.GetAdminDiscount)
			admin.POST("/discounts", adminHandler.CreateAdminDiscount)
			admin.PUT("/discounts/:id", adminHandler.UpdateAdminDiscount)
			admin.DELETE("/discounts/:id", adminHandler.DeleteAdminDiscount)

			admin.GET("/paintings", adminHandler.GetAdminPaintings)
			admin.POST("/paintings", adminHandler.CreateAdminPainting)
			admin.PUT("/paintings/:id", adminHandler.UpdateAdminPainting)
			admin.DELETE("/paintings/:id", adminHandler.DeleteAdminPainting)
			admin.DELETE("/paintings/:id/images/:imageId", adminHandler.DeleteAdminPaintingImage)

			admin.GET("/facets", adminHandler.GetAdminFacets)
			admin.POST("/artists", adminHandler.CreateAdminArtist)
			admin.POST("/styles", adminHandler.CreateAdminStyle)
			admin.POST("/techniques", adminHandler.CreateAdminTechnique)
			admin.PUT("/artists/:id", adminHandler.UpdateAdminArtist)
			admin.PUT("/styles/:id", adminHandler.UpdateAdminStyle)
			admin.PUT("/techniques/:id", adminHandler.UpdateAdminTechnique)
			admin.DELETE("/artists/:id", adminHandler.DeleteAdminArtist)
			admin.DELETE("/styles/:id", adminHandler.DeleteAdminStyle)
			admin.DELETE("/techniques/:id", adminHandler.DeleteAdminTechnique)

			admin.GET("/messages", adminHandler.GetAdminMessages)
			admin.GET("/messages/:id", adminHandler.GetAdminMessage)
			admin.PATCH("/messages/:id/read", adminHandler.MarkAdminMessageRead)
			admin.DELETE("/messages/:id", adminHandler.DeleteAdminMessage)
		}
	}

	return r
}

func metricsPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/metrics"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
