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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// scopeName identifies this instrumentation scope to OpenTelemetry.
const scopeName = "github.com/Ancillary-AGI/pydance-sub002"

// DefaultDurationBuckets are histogram boundaries for match duration in
// seconds. Route matching is a sub-microsecond to sub-millisecond operation,
// so the buckets sit well below typical HTTP-request boundaries.
var DefaultDurationBuckets = []float64{
	0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005,
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005,
}

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g. failed to create an exporter).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the recorder. Events
// report errors and informational messages about the observability pipeline
// itself, never about individual matches.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the recorder.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. A nil logger yields a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers for the Recorder.
type Provider string

const (
	// PrometheusProvider exposes metrics through a Prometheus registry (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider periodically prints metrics to stdout (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder is the OpenTelemetry-backed MatchObserver. It records a counter
// and a duration histogram per Match call, labeled by method, matched route
// pattern, and outcome, and (when a tracer provider is configured) emits a
// span covering the match.
//
// The zero value is not usable; construct with NewRecorder.
type Recorder struct {
	provider       Provider
	meterProvider  metric.MeterProvider
	customProvider bool
	tracerProvider trace.TracerProvider
	exportInterval time.Duration
	events         EventHandler

	meter         metric.Meter
	tracer        trace.Tracer
	matchTotal    metric.Int64Counter
	matchDuration metric.Float64Histogram

	prometheusHandler http.Handler
	shutdown          func(context.Context) error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrometheus selects the Prometheus provider (the default). Metrics are
// collected into a dedicated registry, served by PrometheusHandler.
func WithPrometheus() RecorderOption {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithStdout selects the stdout provider, which prints metrics periodically.
// Intended for development and testing.
func WithStdout() RecorderOption {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider supplies a custom OpenTelemetry meter provider,
// bypassing the built-in exporters. Tests use this with a manual reader.
func WithMeterProvider(mp metric.MeterProvider) RecorderOption {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customProvider = true
	}
}

// WithTracerProvider enables per-match spans through the given provider.
// Without it the recorder emits no spans.
func WithTracerProvider(tp trace.TracerProvider) RecorderOption {
	return func(r *Recorder) {
		r.tracerProvider = tp
	}
}

// WithExportInterval sets the export cadence for push-based providers
// (stdout). Default: 30s.
func WithExportInterval(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.exportInterval = d
	}
}

// WithEventHandler sets the handler for the recorder's own operational
// events. Default: drop.
func WithEventHandler(h EventHandler) RecorderOption {
	return func(r *Recorder) {
		r.events = h
	}
}

// NewRecorder builds a Recorder. Unlike the router constructor this returns
// an error rather than only panicking: exporter construction touches real
// resources and can fail for reasons outside the program's control.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		provider:       PrometheusProvider,
		tracerProvider: tracenoop.NewTracerProvider(),
		exportInterval: 30 * time.Second,
		events:         func(Event) {},
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initProvider(); err != nil {
		return nil, err
	}

	r.tracer = r.tracerProvider.Tracer(scopeName)

	var err error
	r.matchTotal, err = r.meter.Int64Counter("router.match.total",
		metric.WithDescription("Route match attempts by method, route, and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("router: create match counter: %w", err)
	}
	r.matchDuration, err = r.meter.Float64Histogram("router.match.duration",
		metric.WithDescription("Route match duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("router: create match histogram: %w", err)
	}

	return r, nil
}

// ObserveMatch implements MatchObserver.
func (r *Recorder) ObserveMatch(ctx context.Context, method, pattern string, matched bool, elapsed time.Duration) {
	outcome := "matched"
	route := pattern
	if !matched {
		outcome = "unmatched"
		route = "_unmatched"
	}

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("outcome", outcome),
	)
	r.matchTotal.Add(ctx, 1, attrs)
	r.matchDuration.Record(ctx, elapsed.Seconds(), attrs)

	// The match already happened; reconstruct the span from its timing so
	// it nests correctly under any request span in ctx.
	end := time.Now()
	_, span := r.tracer.Start(ctx, "router.match",
		trace.WithTimestamp(end.Add(-elapsed)),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
			attribute.Bool("router.matched", matched),
		),
	)
	span.End(trace.WithTimestamp(end))
}

// PrometheusHandler returns the HTTP handler serving the recorder's
// Prometheus registry, or nil for non-Prometheus providers.
func (r *Recorder) PrometheusHandler() http.Handler {
	return r.prometheusHandler
}

// Shutdown flushes and stops the built-in provider. A no-op for custom
// meter providers, whose lifecycle belongs to the caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.shutdown == nil {
		return nil
	}
	return r.shutdown(ctx)
}

func (r *Recorder) emitEvent(t EventType, msg string, args ...any) {
	r.events(Event{Type: t, Message: msg, Args: args})
}
