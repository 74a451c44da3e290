package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 用内存SpanRecorder替换全局Provider
func setupRecorder(t *testing.T, ratio float64) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp, err := newProvider(context.Background(),
		Options{ServiceName: "bookshelf-test", SampleRatio: ratio},
		sdktrace.WithSpanProcessor(recorder),
	)
	require.NoError(t, err)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartSpan_ParentChild(t *testing.T) {
	recorder := setupRecorder(t, 1)

	ctx, parent := StartSpan(context.Background(), "test", "GET /api/books")
	_, child := StartSpan(ctx, "test", "BookService.GetAll")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "BookService.GetAll", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestRecordError(t *testing.T) {
	recorder := setupRecorder(t, 1)

	_, span := StartSpan(context.Background(), "test", "BookService.Create")
	RecordError(span, nil)
	RecordError(span, errors.New("duplicate title"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}

func TestExtractIDs(t *testing.T) {
	setupRecorder(t, 1)

	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "test", "op")
	defer span.End()
	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}

func TestSampleRatioZero(t *testing.T) {
	recorder := setupRecorder(t, 0)

	_, span := StartSpan(context.Background(), "test", "dropped")
	span.End()

	assert.Empty(t, recorder.Ended())
}
