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
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func (t *Tracer) initializeProvider(ctx context.Context) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(t.serviceName),
			semconv.ServiceVersion(t.serviceVersion),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}

	exporter, err := t.exporter(ctx)
	if err != nil {
		return err
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	t.sdkProvider = tp
	t.tracerProvider = tp
	t.tracer = tp.Tracer(instrumentationName)

	if t.registerGlobal {
		t.logger.Debug("setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(tp)
	}
	t.logger.Info("tracing initialized", "provider", t.provider, "service", t.serviceName)

	return nil
}

// exporter returns nil for NoopProvider.
func (t *Tracer) exporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	switch t.provider {
	case NoopProvider:
		return nil, nil
	case StdoutProvider:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exp, nil
	case OTLPProvider:
		var opts []otlptracegrpc.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
		}
		if t.otlpInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		return exp, nil
	case OTLPHTTPProvider:
		var opts []otlptracehttp.Option
		if t.otlpEndpoint != "" {
			endpoint := t.otlpEndpoint
			if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
				endpoint = rest
				opts = append(opts, otlptracehttp.WithInsecure())
			} else {
				endpoint = strings.TrimPrefix(endpoint, "https://")
			}
			if host, _, found := strings.Cut(endpoint, "/"); found {
				endpoint = host
			}
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
}
