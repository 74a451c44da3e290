package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（重复注册）

	if HTTPRequestsTotal == nil || HTTPRequestDuration == nil || HTTPRequestsInProgress == nil {
		t.Fatal("HTTP指标未初始化")
	}
	if BooksCreatedTotal == nil || BookLikesTotal == nil || BookOperationsTotal == nil {
		t.Fatal("图书指标未初始化")
	}
}

// TestRecordBookOperation 成功的create/like会递增专属计数器，失败只记入operations
func TestRecordBookOperation(t *testing.T) {
	InitMetrics()

	createdBefore := getCounterValue(t, BooksCreatedTotal)
	likesBefore := getCounterValue(t, BookLikesTotal)
	failuresBefore := getCounterVecValue(t, BookOperationsTotal, "create", "failure")

	RecordBookOperation("create", nil)
	RecordBookOperation("create", errors.New("duplicate"))
	RecordBookOperation("like", nil)
	RecordBookOperation("delete", nil)

	if got := getCounterValue(t, BooksCreatedTotal) - createdBefore; got != 1 {
		t.Errorf("books_created_total增量错误: expected=1, got=%f", got)
	}
	if got := getCounterValue(t, BookLikesTotal) - likesBefore; got != 1 {
		t.Errorf("book_likes_total增量错误: expected=1, got=%f", got)
	}
	if got := getCounterVecValue(t, BookOperationsTotal, "create", "failure") - failuresBefore; got != 1 {
		t.Errorf("失败计数增量错误: expected=1, got=%f", got)
	}
}

// TestHistogramVec 按路由模板记录耗时
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/api/books/:id"}
	before := getHistogramVecCount(t, HTTPRequestDuration, labels)

	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "POST", "path": "/api/books"}, 0.2)

	if got := getHistogramVecCount(t, HTTPRequestDuration, labels) - before; got != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", got)
	}
}

// TestHandler /metrics端点输出业务指标
func TestHandler(t *testing.T) {
	InitMetrics()
	RecordPublish("bookshelf.events", "book.created", nil)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(w.Body)
	for _, name := range []string{"books_created_total", "messages_published_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("/metrics缺少指标%s", name)
		}
	}
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	return getCounterValue(t, counterVec.WithLabelValues(labels...))
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
