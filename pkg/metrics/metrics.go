// Package metrics 提供基于Prometheus的指标收集
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、图书创建总数、点赞总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时（P50、P90、P99）
//
// # 使用示例
//
//	// 1. 初始化Metrics（main中调用一次）
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(metrics.Handler()))
//
//	// 3. 在业务代码中记录指标
//	metrics.RecordBookOperation("create", err)
//
// # 命名规范
//
//  1. Counter以`_total`结尾：`books_created_total`
//  2. Histogram以单位结尾：`http_request_duration_seconds`
//  3. 标签只使用有限取值（method、route、status），不要把book_id、user_id作为标签
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 图书业务指标

	// BooksCreatedTotal 图书创建成功总数
	BooksCreatedTotal prometheus.Counter

	// BookLikesTotal 点赞成功总数
	BookLikesTotal prometheus.Counter

	// BookOperationsTotal 图书写操作总数
	// 标签：operation（create/update/delete/like）、result（success/failure）
	BookOperationsTotal *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 事件发布总数
	// 标签：exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有指标并注册到默认Registry
// 可以重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BooksCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_created_total",
				Help: "图书创建总数",
			},
		)

		BookLikesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "book_likes_total",
				Help: "图书点赞总数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_operations_total",
				Help: "图书写操作总数",
			},
			[]string{"operation", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "事件发布总数",
			},
			[]string{"exchange", "routing_key", "result"},
		)
	})
}

// Handler 返回/metrics端点的http.Handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBookOperation 记录一次图书写操作
// 未初始化时为空操作（单元测试中无需关心指标）
func RecordBookOperation(operation string, err error) {
	if BookOperationsTotal == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	BookOperationsTotal.WithLabelValues(operation, result).Inc()

	if err != nil {
		return
	}
	switch operation {
	case "create":
		BooksCreatedTotal.Inc()
	case "like":
		BookLikesTotal.Inc()
	}
}

// RecordPublish 记录一次事件发布
func RecordPublish(exchange, routingKey string, err error) {
	if MessagesPublishedTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
