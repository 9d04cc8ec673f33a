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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/routing"
)

// Provider names a built-in span exporter.
type Provider string

const (
	// NoopProvider creates spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider prints spans as JSON.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

const instrumentationName = "rivaas.dev/routing/tracing"

// Attribute key prefixes for path parameters and recorded headers.
const (
	attrPrefixParam  = "routing.param."
	attrPrefixHeader = "http.request.header."
)

var _ routing.Observer = (*Tracer)(nil)

// Tracer creates request spans. All methods are safe for concurrent use.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	propagator     propagation.TextMapPropagator
	logger         *slog.Logger

	serviceName    string
	serviceVersion string
	sampleRate     float64

	provider         Provider
	providerSetCount int
	otlpEndpoint     string
	otlpInsecure     bool

	filter        *pathFilter
	recordHeaders []string
	recordParams  bool
	excludeParams map[string]bool

	spanStartHook  SpanStartHook
	spanFinishHook SpanFinishHook

	customTracerProvider bool
	registerGlobal       bool
	isStarted            atomic.Bool
	isShuttingDown       atomic.Bool
	validationErrors     []error
}

// New creates a Tracer. OTLP providers connect in Start; until then spans
// are not recorded.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    "rivaas-service",
		serviceVersion: "1.0.0",
		sampleRate:     1.0,
		provider:       NoopProvider,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		logger:        routing.NoopLogger(),
		filter:        newPathFilter(),
		recordParams:  true,
		excludeParams: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}

	switch {
	case t.customTracerProvider:
		t.tracer = t.tracerProvider.Tracer(instrumentationName)
		if t.registerGlobal {
			otel.SetTracerProvider(t.tracerProvider)
		}
	case t.provider == OTLPProvider || t.provider == OTLPHTTPProvider:
		t.tracerProvider = noop.NewTracerProvider()
		t.tracer = t.tracerProvider.Tracer(instrumentationName)
	default:
		if err := t.initializeProvider(context.Background()); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}

	return t
}

func (t *Tracer) validate() error {
	if len(t.validationErrors) > 0 {
		return errors.Join(t.validationErrors...)
	}
	if t.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithStdout, WithOTLP, WithOTLPHTTP or WithNoop can be used")
	}
	if t.customTracerProvider && t.tracerProvider == nil {
		return errors.New("custom tracer provider is nil")
	}
	if t.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if t.serviceVersion == "" {
		return errors.New("service version cannot be empty")
	}

	return nil
}

// Start connects OTLP exporters. It is a no-op for other providers and
// after the first successful call.
func (t *Tracer) Start(ctx context.Context) error {
	if t.customTracerProvider || (t.provider != OTLPProvider && t.provider != OTLPHTTPProvider) {
		return nil
	}
	if !t.isStarted.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.initializeProvider(ctx); err != nil {
		t.isStarted.Store(false)
		return err
	}

	return nil
}

// Shutdown flushes and stops the built-in provider. Custom providers are
// left to their owner. Only the first call has an effect.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}

	return nil
}

// ServiceName returns the service name.
func (t *Tracer) ServiceName() string { return t.serviceName }

// ServiceVersion returns the service version.
func (t *Tracer) ServiceVersion() string { return t.serviceVersion }

// Provider returns the configured provider, or "" for a custom one.
func (t *Tracer) Provider() Provider {
	if t.customTracerProvider {
		return ""
	}

	return t.provider
}

// Propagator returns the propagator used to extract incoming trace context.
func (t *Tracer) Propagator() propagation.TextMapPropagator { return t.propagator }

// TraceID returns the trace ID of the span in ctx, or "".
//
// Example:
//
//	logger.Info("processing", "trace_id", tracing.TraceID(ctx))
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}

	return sc.TraceID().String()
}

// SpanID returns the span ID of the span in ctx, or "".
func SpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}

	return sc.SpanID().String()
}

// AddSpanEvent adds an event to the span in ctx if it is recording.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
