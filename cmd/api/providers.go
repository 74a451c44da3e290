package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// ========================================
// Custom Providers
// ========================================
// 构造函数的参数需要从Config中提取，或者需要返回cleanup时，
// 编写自定义Provider交给Wire

// provideDB 创建数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 创建Redis连接
func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(context.Background(), cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher mq.enabled为false时使用空实现，否则套一层熔断
func providePublisher(cfg *config.Config, log *zap.Logger) (book.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	guarded := mq.NewBreakerPublisher(publisher, cfg.MQ.BreakerThreshold, cfg.MQ.BreakerTimeout, log)
	return guarded, func() { _ = guarded.Close() }, nil
}

func provideUserPolicy(cfg *config.Config) user.Policy {
	return user.Policy{
		AdminEmails: cfg.Auth.AdminEmails,
		BcryptCost:  cfg.Auth.BcryptCost,
	}
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore appuser.SessionStore,
	cfg *config.Config,
	log *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire, log)
}

func provideAuthMiddleware(cfg *config.Config, jwtManager *jwt.Manager, blacklist middleware.Blacklist) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, blacklist, cfg.JWT.CookieName)
}

// provideCookieOptions Cookie有效期与Access Token一致
func provideCookieOptions(cfg *config.Config) handler.CookieOptions {
	return handler.CookieOptions{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.JWT.CookieSecure,
		MaxAge: cfg.JWT.AccessTokenExpire,
	}
}

// shutdownTimeout 未配置时默认10秒
func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
