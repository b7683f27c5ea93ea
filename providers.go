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
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// initProvider initializes the recorder's meter provider based on
// configuration.
func (r *Recorder) initProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("router: custom meter provider is nil")
		}
		r.emitEvent(EventDebug, "using custom meter provider")
		r.meter = r.meterProvider.Meter(scopeName)
		return nil
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheusProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	default:
		return fmt.Errorf("router: unsupported metrics provider: %s", r.provider)
	}
}

// initPrometheusProvider wires metrics into a dedicated Prometheus registry.
// A dedicated registry avoids collisions with the global default registry
// when several recorders live in one process.
func (r *Recorder) initPrometheusProvider() error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
	)
	if err != nil {
		return fmt.Errorf("router: create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	r.meterProvider = provider
	r.meter = provider.Meter(scopeName)
	r.prometheusHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	r.shutdown = provider.Shutdown

	r.emitEvent(EventInfo, "match recorder started", "provider", string(PrometheusProvider))
	return nil
}

// initStdoutProvider prints metrics periodically. Development only.
func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("router: create stdout exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)

	r.meterProvider = provider
	r.meter = provider.Meter(scopeName)
	r.shutdown = provider.Shutdown

	r.emitEvent(EventInfo, "match recorder started", "provider", string(StdoutProvider), "interval", r.exportInterval)
	return nil
}
