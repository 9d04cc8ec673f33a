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
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(*Tracer)

// SpanStartHook runs after a request span is started.
type SpanStartHook func(ctx context.Context, span trace.Span, req *http.Request)

// SpanFinishHook runs before a request span ends.
type SpanFinishHook func(span trace.Span, statusCode int)

// WithTracerProvider records into provider instead of a built-in one. The
// caller keeps ownership: Shutdown does not stop it.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
		t.customTracerProvider = true
	}
}

// WithGlobalTracerProvider registers the provider with otel.SetTracerProvider.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate sets the fraction of new traces that are sampled, clamped
// to [0, 1]. Sampled parents are always followed. Built-in providers only.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = min(max(rate, 0), 1)
	}
}

// WithPropagator replaces the default TraceContext and Baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		if p != nil {
			t.propagator = p
		}
	}
}

// WithLogger sets the logger for the tracer's own events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithStdout exports spans to stdout.
func WithStdout() Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.providerSetCount++
	}
}

// WithNoop records spans without exporting them.
func WithNoop() Option {
	return func(t *Tracer) {
		t.provider = NoopProvider
		t.providerSetCount++
	}
}

// OTLPOption configures the OTLP gRPC exporter.
type OTLPOption func(*Tracer)

// OTLPInsecure disables TLS for the gRPC connection.
func OTLPInsecure() OTLPOption {
	return func(t *Tracer) {
		t.otlpInsecure = true
	}
}

// WithOTLP exports over OTLP gRPC to endpoint ("host:port").
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithOTLPHTTP exports over OTLP HTTP. An "http://" endpoint disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint
	}
}

// WithExcludePaths skips requests whose path is one of paths.
func WithExcludePaths(paths ...string) Option {
	return func(t *Tracer) {
		t.filter.addPaths(paths...)
	}
}

// WithExcludePrefixes skips requests whose path starts with one of prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(t *Tracer) {
		t.filter.addPrefixes(prefixes...)
	}
}

// WithExcludePathPattern skips requests whose path matches pattern.
func WithExcludePathPattern(pattern string) Option {
	return func(t *Tracer) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			t.validationErrors = append(t.validationErrors, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err))
			return
		}
		t.filter.addPatterns(re)
	}
}

// WithHeaders records the named request headers as span attributes.
func WithHeaders(headers ...string) Option {
	return func(t *Tracer) {
		for _, h := range headers {
			t.recordHeaders = append(t.recordHeaders, http.CanonicalHeaderKey(h))
		}
	}
}

// WithDisableParams stops Annotate from recording path parameters.
func WithDisableParams() Option {
	return func(t *Tracer) {
		t.recordParams = false
	}
}

// WithExcludeParams keeps the named path parameters out of spans.
func WithExcludeParams(params ...string) Option {
	return func(t *Tracer) {
		for _, p := range params {
			t.excludeParams[p] = true
		}
	}
}

// WithSpanStartHook sets a hook run after each request span starts.
func WithSpanStartHook(hook SpanStartHook) Option {
	return func(t *Tracer) {
		t.spanStartHook = hook
	}
}

// WithSpanFinishHook sets a hook run before each request span ends.
func WithSpanFinishHook(hook SpanFinishHook) Option {
	return func(t *Tracer) {
		t.spanFinishHook = hook
	}
}
