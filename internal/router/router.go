package router

import (
	"wish-wall-server/internal/config"
	"wish-wall-server/internal/middleware"
	"wish-wall-server/internal/modules"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	modules     *modules.AppModules
	cfg         config.Config
	redisClient *redis.Client
}

// NewRouter redisClient 可以为 nil，此时限流只使用本地内存
func NewRouter(appModules *modules.AppModules, cfg config.Config, redisClient *redis.Client) *Router {
	return &Router{
		modules:     appModules,
		cfg:         cfg,
		redisClient: redisClient,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局中间件：请求日志与安全标头
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	registerWishRoutes(r, rt)
}
