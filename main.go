package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/consts"
	"wish-wall-server/internal/db"
	"wish-wall-server/internal/di"
	"wish-wall-server/internal/logger"
	"wish-wall-server/internal/middleware"
	"wish-wall-server/internal/platform/cache"

	"github.com/gin-gonic/gin"
)

// apiPrefixes 这些路径不回退到前端页面
var apiPrefixes = []string{"/upload", "/wishes", "/delete"}

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	cfg := config.Get()
	logger.Init(cfg.Log)

	gin.SetMode(cfg.Server.Mode)

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("❌ 数据库初始化失败: %v", err)
	}
	redisClient := cache.NewRedisClient(cfg.Redis)

	app, err := di.InitializeApplication(gormDB, redisClient, cfg)
	if err != nil {
		logger.Log.Fatalf("❌ 依赖注入初始化失败: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	applyTrustedProxies(r, cfg.Server.TrustedProxies)
	app.Router.Init(r)

	distFS := GetFrontendAssets()
	indexData := setupFrontend(distFS)
	r.NoRoute(middleware.StaticCacheMiddleware(cfg.Static.CacheControl), getNoRouteHandler(distFS, indexData))

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	// 打印启动欢迎语
	printWelcomeMessage()

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		// 服务连接
		logger.Log.Infof("🚀 服务启动成功，运行在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("❌ 服务启动失败: %s", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("❌ 服务强制关闭: %v", err)
	}
	if err := cache.CloseRedisClient(redisClient); err != nil {
		logger.Log.Warnf("⚠️  关闭 Redis 连接失败: %v", err)
	}
	if err := db.Close(gormDB); err != nil {
		logger.Log.Warnf("⚠️  关闭数据库失败: %v", err)
	}
	logger.Log.Info("✅ 服务已退出")
}

// applyTrustedProxies 按 server.trusted_proxies 设置可信代理，空值或非法值时不信任任何代理
func applyTrustedProxies(r *gin.Engine, raw string) {
	proxies := splitTrustedProxyList(raw)
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		logger.Log.Warnf("⚠️  trusted_proxies 配置无效，已禁用代理信任: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
}

func splitTrustedProxyList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\n', '\t', '\r':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// setupFrontend 预读取 index.html，distFS 为 nil 时返回 nil
func setupFrontend(distFS fs.FS) []byte {
	if distFS == nil {
		return nil
	}
	indexData, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		logger.Log.Warnf("⚠️ 警告: 无法读取 frontend/index.html: %v", err)
		return nil
	}
	return indexData
}

func isAPIPath(path string) bool {
	for _, prefix := range apiPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func getNoRouteHandler(distFS fs.FS, indexData []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		notFound := func(msg string) {
			c.Header("Cache-Control", "no-store")
			c.JSON(http.StatusNotFound, gin.H{"error": msg})
		}

		if isAPIPath(c.Request.URL.Path) {
			notFound("API not found")
			return
		}
		if distFS == nil {
			notFound("Not found")
			return
		}

		path := strings.TrimPrefix(c.Request.URL.Path, "/")

		// 访问根路径 / 直接返回 index.html
		if path == "" || path == "index.html" {
			if indexData == nil {
				notFound("Not found")
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", indexData)
			return
		}

		f, err := distFS.Open(path)
		if err == nil {
			defer f.Close()
			stat, err := f.Stat()
			if err == nil && !stat.IsDir() {
				c.FileFromFS(path, http.FS(distFS))
				return
			}
		}

		notFound("Not found")
	}
}

func printWelcomeMessage() {
	cfg := config.Get()

	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🎈  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️   数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️   缩略图   : %dx%d\n", cfg.Image.Width, cfg.Image.Height)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	var exportList []RouteInfo
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, _ := json.MarshalIndent(exportList, "", "  ")
	_ = os.WriteFile("routes.json", file, 0644)

	logger.Log.Info("✅ 路由已成功导出到 routes.json")
}
