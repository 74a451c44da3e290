// eventlog 订阅图书领域事件并输出结构化日志
//
// 用于本地联调与审计：
//
//	go run ./cmd/eventlog -queue bookshelf.audit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/logger"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

func main() {
	configDir := flag.String("config", "", "配置文件目录")
	queue := flag.String("queue", "", "队列名，为空时使用临时队列")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, *queue, []string{"book.#"}, zlog)
	if err != nil {
		zlog.Fatal("创建消费者失败", zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Consume(ctx, handleEvent(zlog)); err != nil {
		zlog.Error("消费中断", zap.Error(err))
	}
}

// handleEvent 解析事件并记录日志
// 无法解析的消息直接确认丢弃，避免反复重新入队
func handleEvent(zlog *zap.Logger) mq.Handler {
	return func(routingKey string, body []byte) error {
		var evt book.Event
		if err := json.Unmarshal(body, &evt); err != nil {
			zlog.Error("无法解析的事件", zap.String("routing_key", routingKey), zap.ByteString("body", body), zap.Error(err))
			return nil
		}

		fields := []zap.Field{
			zap.String("routing_key", routingKey),
			zap.String("type", evt.Type),
			zap.String("book_id", evt.BookID),
			zap.Time("occurred_at", evt.OccurredAt),
		}
		if evt.Title != "" {
			fields = append(fields, zap.String("title", evt.Title))
		}
		if evt.UserID != "" {
			fields = append(fields, zap.String("user_id", evt.UserID))
		}
		zlog.Info("book event", fields...)
		return nil
	}
}
