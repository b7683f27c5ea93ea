// Copyright 2025 The Pydance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// collectMetrics flushes the manual reader and returns the named metric.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not collected", name)
	return metricdata.Metrics{}
}

func attrValue(t *testing.T, set attribute.Set, key string) string {
	t.Helper()
	v, ok := set.Value(attribute.Key(key))
	require.True(t, ok, "attribute %q missing", key)
	return v.AsString()
}

func TestRecorderMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	ctx := context.Background()
	rec.ObserveMatch(ctx, "GET", "/users/{id:numeric}", true, 5*time.Microsecond)
	rec.ObserveMatch(ctx, "GET", "/users/{id:numeric}", true, 7*time.Microsecond)
	rec.ObserveMatch(ctx, "POST", "", false, 3*time.Microsecond)

	total := collectMetrics(t, reader, "router.match.total")
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok, "counter data type")
	require.Len(t, sum.DataPoints, 2, "one series per attribute set")

	for _, dp := range sum.DataPoints {
		switch attrValue(t, dp.Attributes, "outcome") {
		case "matched":
			assert.EqualValues(t, 2, dp.Value)
			assert.Equal(t, "GET", attrValue(t, dp.Attributes, "http.request.method"))
			assert.Equal(t, "/users/{id:numeric}", attrValue(t, dp.Attributes, "http.route"))
		case "unmatched":
			assert.EqualValues(t, 1, dp.Value)
			assert.Equal(t, "POST", attrValue(t, dp.Attributes, "http.request.method"))
			assert.Equal(t, "_unmatched", attrValue(t, dp.Attributes, "http.route"),
				"unmatched lookups share one route label to bound cardinality")
		default:
			t.Errorf("unexpected outcome attribute on %v", dp.Attributes)
		}
	}

	duration := collectMetrics(t, reader, "router.match.duration")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "histogram data type")
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		assert.Equal(t, DefaultDurationBuckets, dp.Bounds)
	}
	assert.EqualValues(t, 3, count)

	// Custom meter providers are owned by the caller; Shutdown is a no-op.
	assert.NoError(t, rec.Shutdown(ctx))
}

func TestRecorderSpans(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewRecorder(WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)

	elapsed := 250 * time.Microsecond
	rec.ObserveMatch(context.Background(), "GET", "/users/{id}", true, elapsed)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "router.match", span.Name())

	attrs := attribute.NewSet(span.Attributes()...)
	assert.Equal(t, "GET", attrValue(t, attrs, "http.request.method"))
	assert.Equal(t, "/users/{id}", attrValue(t, attrs, "http.route"))
	matched, ok := attrs.Value("router.matched")
	require.True(t, ok)
	assert.True(t, matched.AsBool())

	// The span is reconstructed after the fact; its duration must reflect
	// the measured elapsed time, not the recording overhead.
	assert.Equal(t, elapsed, span.EndTime().Sub(span.StartTime()))
}

func TestRecorderNoTracerByDefault(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	// Must not panic without a tracer provider.
	rec.ObserveMatch(context.Background(), "GET", "/x", true, time.Microsecond)
}

func TestRecorderPrometheus(t *testing.T) {
	t.Parallel()

	rec, err := NewRecorder(WithPrometheus())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	rec.ObserveMatch(context.Background(), "GET", "/users/{id}", true, 5*time.Microsecond)

	handler := rec.PrometheusHandler()
	require.NotNil(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "router_match")
	assert.Contains(t, string(body), `http_route="/users/{id}"`)
}

func TestRecorderDrivesFromRouter(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	r := newTestRouter(t, WithObserver(rec))
	r.GET("/users/{id:numeric}", "h")

	_, ok := r.Match("GET", "/users/42")
	require.True(t, ok)
	_, ok = r.Match("GET", "/users/nope")
	require.False(t, ok)

	total := collectMetrics(t, reader, "router.match.total")
	sum, okData := total.Data.(metricdata.Sum[int64])
	require.True(t, okData)

	var n int64
	for _, dp := range sum.DataPoints {
		n += dp.Value
	}
	assert.EqualValues(t, 2, n, "every Match call is observed")
}

func TestDefaultEventHandler(t *testing.T) {
	t.Parallel()

	t.Run("nil logger drops events", func(t *testing.T) {
		t.Parallel()

		h := DefaultEventHandler(nil)
		assert.NotPanics(t, func() {
			h(Event{Type: EventError, Message: "boom"})
		})
	})

	t.Run("logs at the event severity", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		h := DefaultEventHandler(logger)

		h(Event{Type: EventWarning, Message: "export lagging", Args: []any{"interval", "30s"}})

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "export lagging")
		assert.Contains(t, out, "interval=30s")
	})
}

func TestRecorderStdoutProvider(t *testing.T) {
	t.Parallel()

	// A long interval keeps the periodic reader quiet for the test's
	// lifetime; Shutdown flushes the pipeline.
	rec, err := NewRecorder(WithStdout(), WithExportInterval(time.Hour))
	require.NoError(t, err)

	rec.ObserveMatch(context.Background(), "GET", "/x", true, time.Microsecond)
	assert.Nil(t, rec.PrometheusHandler(), "stdout provider serves no scrape endpoint")
	assert.NoError(t, rec.Shutdown(context.Background()))
}
