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
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routing"
)

type requestState struct {
	span   trace.Span
	method string
}

// OnRequestStart implements routing.Observer. It extracts the incoming
// trace context and starts a server span named after the method; the route
// template is added in OnRequestEnd.
func (t *Tracer) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if t.filter.shouldExclude(req.URL.Path) {
		return ctx, nil
	}

	ctx = t.propagator.Extract(ctx, propagation.HeaderCarrier(req.Header))

	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}

	attrs := make([]attribute.KeyValue, 0, 6+len(t.recordHeaders))
	attrs = append(attrs,
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
		attribute.String("url.scheme", scheme),
		attribute.String("server.address", req.Host),
		attribute.String("user_agent.original", req.UserAgent()),
		attribute.String("service.name", t.serviceName),
	)
	for _, h := range t.recordHeaders {
		if v := req.Header.Get(h); v != "" {
			attrs = append(attrs, attribute.String(attrPrefixHeader+strings.ToLower(h), v))
		}
	}

	ctx, span := t.tracer.Start(ctx, req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	if t.spanStartHook != nil {
		t.spanStartHook(ctx, span, req)
	}

	return ctx, &requestState{span: span, method: req.Method}
}

// WrapResponseWriter implements routing.Observer and returns w unchanged.
func (t *Tracer) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// OnRequestEnd implements routing.Observer. Responses with status 400 and
// above, or a non-nil err, mark the span as failed.
func (t *Tracer) OnRequestEnd(_ context.Context, state any, w http.ResponseWriter, routeTemplate string, err error) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}

	status := http.StatusOK
	if info, ok := w.(routing.ResponseInfo); ok {
		status = info.StatusCode()
	}

	span := st.span
	span.SetName(st.method + " " + routeTemplate)
	span.SetAttributes(
		attribute.String("http.route", routeTemplate),
		attribute.Int("http.response.status_code", status),
	)

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case status >= http.StatusBadRequest:
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	default:
		span.SetStatus(codes.Ok, "")
	}

	if t.spanFinishHook != nil {
		t.spanFinishHook(span, status)
	}
	span.End()
}

// Annotate returns middleware that adds the matched route's name and path
// parameters to the request span.
//
// Example:
//
//	r.Use(tracer.Annotate())
func (t *Tracer) Annotate() routing.Middleware {
	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) error {
		span := trace.SpanFromContext(r.Context())
		if !span.IsRecording() {
			return next.Handle(w, r)
		}

		if m, ok := routing.MatchFromContext(r.Context()); ok {
			if name := m.Route.Name(); name != "" {
				span.SetAttributes(attribute.String("routing.route.name", name))
			}
			if t.recordParams {
				for k, v := range m.Params {
					if !t.excludeParams[k] {
						span.SetAttributes(attribute.String(attrPrefixParam+k, v))
					}
				}
			}
		}

		return next.Handle(w, r)
	})
}
