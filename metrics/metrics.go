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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/routing"
)

// Histogram boundaries used unless overridden.
var (
	// DefaultDurationBuckets are request duration boundaries in seconds.
	DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// DefaultSizeBuckets are response size boundaries in bytes.
	DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// Provider names a built-in metrics exporter.
type Provider string

const (
	// PrometheusProvider exposes a scrape handler (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics periodically.
	StdoutProvider Provider = "stdout"
)

const instrumentationName = "rivaas.dev/routing/metrics"

var (
	_ routing.Observer          = (*Recorder)(nil)
	_ routing.DiagnosticHandler = (*Recorder)(nil)
)

// Recorder records request and build metrics. All methods are safe for
// concurrent use.
type Recorder struct {
	meterProvider metric.MeterProvider
	meter         metric.Meter
	promHandler   http.Handler
	logger        *slog.Logger

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram
	errorCount      metric.Int64Counter
	diagnostics     metric.Int64Counter

	durationBuckets []float64
	sizeBuckets     []float64
	exportInterval  time.Duration

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	baseAttrs      []attribute.KeyValue

	filter *pathFilter

	provider            Provider
	providerSetCount    int
	customMeterProvider bool
	registerGlobal      bool
	isShuttingDown      atomic.Bool
	validationErrors    []error
}

// New creates a Recorder and initializes its provider.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:     "rivaas-service",
		serviceVersion:  "1.0.0",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		logger:          routing.NoopLogger(),
		filter:          newPathFilter(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r.baseAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return r
}

func (r *Recorder) validate() error {
	if len(r.validationErrors) > 0 {
		return errors.Join(r.validationErrors...)
	}
	if r.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return errors.New("service version cannot be empty")
	}
	if r.exportInterval < time.Second {
		r.logger.Warn("export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}

	switch r.provider {
	case PrometheusProvider, StdoutProvider:
	case OTLPProvider:
		if r.otlpEndpoint == "" {
			r.logger.Warn("OTLP endpoint not specified, using default", "default", "http://localhost:4318")
			r.otlpEndpoint = "http://localhost:4318"
		}
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}

	return nil
}

// Handler returns the Prometheus scrape handler. It fails for any other
// provider.
//
// Example:
//
//	h, err := rec.Handler()
//	if err == nil {
//	    mux.Handle("/metrics", h)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r.promHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.Provider())
	}

	return r.promHandler, nil
}

// Provider returns the active provider, or "" for a custom meter provider.
func (r *Recorder) Provider() Provider {
	if r.customMeterProvider {
		return ""
	}

	return r.provider
}

// ServiceName returns the service name attached to every measurement.
func (r *Recorder) ServiceName() string { return r.serviceName }

// ServiceVersion returns the service version attached to every measurement.
func (r *Recorder) ServiceVersion() string { return r.serviceVersion }

// ForceFlush exports pending measurements of push providers.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customMeterProvider {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

// Shutdown flushes and stops the built-in provider. Custom providers are
// left to their owner. Only the first call has an effect.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.logger.Warn("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}
