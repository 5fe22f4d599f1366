package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/work/ability"
	workmodel "pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/domains/work/policy"
	"pagecraft-backend/internal/shared/middleware"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupWorkRoutes(v1, c)
		setupChannelRoutes(v1, c)
		setupPageRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.Profile)
	}
}

// ========================================
// WORK ROUTES
// ========================================
// Each mutating route declares its policy spec; the guard loads the
// target work and evaluates the caller's ability before the handler runs.
func setupWorkRoutes(v1 *gin.RouterGroup, c *container.Container) {
	works := v1.Group("/works")

	// Template gallery is public.
	works.GET("/templates", c.WorkHandler.Templates)

	works.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		works.POST("", c.WorkHandler.Create)
		works.GET("/mine", c.WorkHandler.MyList)

		works.GET("/:id",
			policy.Guard(policy.Spec{
				Action:    ability.ActionRead,
				From:      policy.FromParam,
				DeniedErr: workmodel.ErrNotPublic,
			}, c.WorkRepo),
			c.WorkHandler.Detail)

		works.PATCH("/:id",
			policy.Guard(policy.Spec{
				Action: ability.ActionUpdate,
				From:   policy.FromParam,
			}, c.WorkRepo),
			c.WorkHandler.Update)

		works.POST("/:id/publish",
			policy.Guard(policy.Spec{
				Action: ability.ActionPublish,
				From:   policy.FromParam,
			}, c.WorkRepo),
			c.WorkHandler.Publish)

		works.POST("/:id/publish-template",
			policy.Guard(policy.Spec{
				Action: ability.ActionPublishTemplate,
				From:   policy.FromParam,
			}, c.WorkRepo),
			c.WorkHandler.PublishTemplate)

		works.DELETE("/:id",
			policy.Guard(policy.Spec{
				Action: ability.ActionDelete,
				From:   policy.FromParam,
			}, c.WorkRepo),
			c.WorkHandler.Delete)

		// Copying needs read access to the source; the service re-checks
		// ownership against the snapshot it clones.
		works.POST("/:id/copy",
			policy.Guard(policy.Spec{
				Action: ability.ActionRead,
				From:   policy.FromParam,
			}, c.WorkRepo),
			c.WorkHandler.Copy)
	}
}

// ========================================
// CHANNEL ROUTES
// ========================================
// Channel routes address the work through the request body, so the
// guard reads "workId" from there.
func setupChannelRoutes(v1 *gin.RouterGroup, c *container.Container) {
	channels := v1.Group("/works/channels")
	channels.Use(middleware.AuthMiddleware(c.JWTManager))
	channels.Use(policy.Guard(policy.Spec{
		Action: ability.ActionManageChannels,
		From:   policy.FromBody,
		Key:    "workId",
	}, c.WorkRepo))
	{
		channels.POST("", c.ChannelHandler.Create)
		channels.PATCH("", c.ChannelHandler.Rename)
		channels.DELETE("", c.ChannelHandler.Delete)
	}
}

// ========================================
// PAGE ROUTES (PUBLIC)
// ========================================
func setupPageRoutes(v1 *gin.RouterGroup, c *container.Container) {
	pages := v1.Group("/pages")
	{
		pages.GET("/:idAndUuid", c.PageHandler.Render)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "down"
		}
		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		response.Success(ctx, status, gin.H{
			"status":   "up",
			"time":     time.Now().UTC(),
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
