package container

import (
	"context"
	"fmt"
	"time"

	"pagecraft-backend/internal/config"
	infraCache "pagecraft-backend/internal/infrastructure/cache"
	"pagecraft-backend/internal/infrastructure/database"
	"pagecraft-backend/pkg/jwt"
	"pagecraft-backend/pkg/logger"

	pageHandler "pagecraft-backend/internal/domains/page/handler"
	pageService "pagecraft-backend/internal/domains/page/service"
	userHandler "pagecraft-backend/internal/domains/user/handler"
	userRepo "pagecraft-backend/internal/domains/user/repository"
	userService "pagecraft-backend/internal/domains/user/service"
	workHandler "pagecraft-backend/internal/domains/work/handler"
	workRepo "pagecraft-backend/internal/domains/work/repository"
	workService "pagecraft-backend/internal/domains/work/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order: config, then
// infrastructure, then repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      *infraCache.RedisCache
	JWTManager *jwt.Manager

	UserRepo userRepo.UserRepository
	WorkRepo workRepo.WorkRepository

	UserService    userService.UserService
	WorkService    workService.WorkService
	ChannelService workService.ChannelService
	RenderService  pageService.RenderService

	UserHandler    *userHandler.UserHandler
	WorkHandler    *workHandler.WorkHandler
	ChannelHandler *workHandler.ChannelHandler
	PageHandler    *pageHandler.PageHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	db := database.NewPostgresDB(cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Redis is a cache here, not a source of truth. Boot anyway.
		logger.Warn("redis unreachable at startup", map[string]interface{}{"error": err.Error()})
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	c.UserRepo = userRepo.NewPostgresUserRepository(db.Pool)
	c.WorkRepo = workRepo.NewPostgresWorkRepository(db.Pool)

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.WorkService = workService.NewWorkService(c.WorkRepo, c.Cache)
	c.ChannelService = workService.NewChannelService(c.WorkRepo)
	c.RenderService = pageService.NewRenderService(c.WorkRepo, c.Cache, cfg.Render.CacheTTL)

	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.WorkHandler = workHandler.NewWorkHandler(c.WorkService)
	c.ChannelHandler = workHandler.NewChannelHandler(c.ChannelService)
	c.PageHandler = pageHandler.NewPageHandler(c.RenderService)

	return c, nil
}

// Cleanup releases infrastructure connections. Call it on shutdown.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
