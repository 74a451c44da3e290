package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/docs"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// Route 路由表中的一项
// Handlers按顺序执行，守卫中间件写在业务Handler之前
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Book   *handler.BookHandler
	Author *handler.AuthorHandler
	Auth   *handler.AuthHandler
	Guard  *middleware.AuthMiddleware
}

// Routes 业务路由表（相对于base_path）
// 唯一的路由定义来源，写接口全部要求登录
func Routes(h Handlers) []Route {
	auth := h.Guard.RequireAuth()
	admin := h.Guard.RequireAdmin()

	return []Route{
		// 图书
		{http.MethodGet, "/books", chain(h.Book.GetAll)},
		{http.MethodGet, "/books/:id", chain(h.Book.GetByID)},
		{http.MethodPost, "/books", chain(auth, h.Book.Create)},
		{http.MethodPost, "/books/like", chain(auth, h.Book.Like)},
		{http.MethodPut, "/books/:id", chain(auth, h.Book.Update)},
		{http.MethodDelete, "/books/:id", chain(auth, h.Book.Delete)},

		// 作者
		{http.MethodGet, "/authors", chain(h.Author.List)},
		{http.MethodGet, "/authors/:id", chain(h.Author.Get)},
		{http.MethodPost, "/authors", chain(auth, admin, h.Author.Create)},

		// 认证
		{http.MethodPost, "/auth/register", chain(h.Auth.Register)},
		{http.MethodPost, "/auth/login", chain(h.Auth.Login)},
		{http.MethodPost, "/auth/refresh", chain(h.Auth.Refresh)},
		{http.MethodDelete, "/auth/logout", chain(auth, h.Auth.Logout)},
		{http.MethodGet, "/auth/me", chain(auth, h.Auth.Me)},
	}
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return handlers
}

// New 创建并配置Gin引擎
// 全局中间件顺序：Tracing → Logger → Recovery → Metrics → CORS
// Tracing最先执行，Logger才能取到trace_id
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.Tracing(), middleware.Logger(log), middleware.Recovery())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "healthy"})
	})

	// Prometheus指标
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// Swagger文档：/swagger/index.html
	if cfg.Server.EnableSwagger {
		docs.SwaggerInfo.BasePath = cfg.Server.BasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.Server.BasePath)
	for _, route := range Routes(h) {
		api.Handle(route.Method, route.Path, route.Handlers...)
	}

	return r
}

// corsConfig 允许的来源为空或包含"*"时放行所有来源
// 放行所有来源时不能携带Cookie
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 || containsWildcard(origins) {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
		return c
	}
	c.AllowOrigins = origins
	return c
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
