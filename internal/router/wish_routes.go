package router

import (
	"wish-wall-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerWishRoutes(r *gin.Engine, rt *Router) {
	h := rt.modules.Wish.Handler

	// 上传接口：先限制请求体，再按 IP 限流
	r.POST("/upload",
		middleware.UploadBodyLimitMiddleware(rt.cfg.Upload.MaxSizeMB),
		middleware.RateLimitMiddleware(rt.cfg.RateLimit, rt.redisClient, rt.cfg.Redis.Prefix),
		h.UploadWish,
	)

	r.GET("/wishes", h.ListWishes)
	r.GET("/wishes/:id/image", h.GetWishImage)
	r.DELETE("/delete/:id", h.DeleteWish)
}
