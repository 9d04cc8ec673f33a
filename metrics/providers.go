// Copyright 2025 The Rivaas Authors
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

package metrics

import (
	"context"
	"fmt"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func (r *Recorder) initializeProvider() error {
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.meter = r.meterProvider.Meter(instrumentationName)
		return r.initializeMetrics()
	}

	var (
		mp  *sdkmetric.MeterProvider
		err error
	)
	switch r.provider {
	case PrometheusProvider:
		mp, err = r.prometheusProvider()
	case OTLPProvider:
		mp, err = r.otlpProvider()
	case StdoutProvider:
		mp, err = r.stdoutProvider()
	default:
		err = fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	if err != nil {
		return err
	}

	r.meterProvider = mp
	if r.registerGlobal {
		r.logger.Debug("setting global OpenTelemetry meter provider", "provider", r.provider)
		otel.SetMeterProvider(mp)
	}
	r.meter = mp.Meter(instrumentationName)

	return r.initializeMetrics()
}

// prometheusProvider uses a private registry so several recorders can
// coexist in one process.
func (r *Recorder) prometheusProvider() (*sdkmetric.MeterProvider, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	r.promHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}

func (r *Recorder) otlpProvider() (*sdkmetric.MeterProvider, error) {
	endpoint := r.otlpEndpoint
	var opts []otlpmetrichttp.Option
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = rest
		opts = append(opts, otlpmetrichttp.WithInsecure())
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if host, _, found := strings.Cut(endpoint, "/"); found {
		endpoint = host
	}
	opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)),
	)), nil
}

func (r *Recorder) stdoutProvider() (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)),
	)), nil
}

func (r *Recorder) initializeMetrics() error {
	var err error

	if r.requestDuration, err = r.meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of requests served by the router"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	); err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	if r.requestCount, err = r.meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Requests by route template and status"),
		metric.WithUnit("{request}"),
	); err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	if r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return fmt.Errorf("failed to create active requests counter: %w", err)
	}

	if r.responseSize, err = r.meter.Int64Histogram(
		"http.server.response.body.size",
		metric.WithDescription("Size of response bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	); err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}

	if r.errorCount, err = r.meter.Int64Counter(
		"http.server.errors",
		metric.WithDescription("Requests that failed or answered with a 4xx/5xx status"),
		metric.WithUnit("{request}"),
	); err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	if r.diagnostics, err = r.meter.Int64Counter(
		"routing.diagnostics",
		metric.WithDescription("Diagnostic events raised while building routers"),
		metric.WithUnit("{event}"),
	); err != nil {
		return fmt.Errorf("failed to create diagnostics counter: %w", err)
	}

	return nil
}
