package mq

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
)

// BreakerPublisher 为发布者加熔断保护
// Broker持续不可用时直接返回circuitbreaker.ErrOpenState，不再等待网络超时
type BreakerPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.Breaker
}

// NewBreakerPublisher 包装发布者
func NewBreakerPublisher(next EventPublisher, threshold uint32, openTimeout time.Duration, logger *zap.Logger) *BreakerPublisher {
	breaker := circuitbreaker.New(circuitbreaker.Options{
		Name:             "mq-publisher",
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("熔断器状态变化",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return &BreakerPublisher{next: next, breaker: breaker}
}

// Publish 经熔断器发布
func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, routingKey, message)
	})
}

// Close 关闭底层发布者
func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}

// State 当前熔断状态
func (p *BreakerPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}
