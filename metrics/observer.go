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
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/routing"
)

type requestState struct {
	start time.Time
	attrs []attribute.KeyValue
}

// OnRequestStart implements routing.Observer. Excluded paths return a nil
// state and are not measured.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.filter.shouldExclude(req.URL.Path) {
		return ctx, nil
	}

	attrs := slices.Concat(r.baseAttrs, []attribute.KeyValue{
		attribute.String("http.request.method", req.Method),
	})
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(attrs...))

	return ctx, &requestState{start: time.Now(), attrs: attrs}
}

// WrapResponseWriter implements routing.Observer. The status and size come
// from the routing.ResponseInfo passed to OnRequestEnd, so w is returned
// unchanged.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// OnRequestEnd implements routing.Observer.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string, err error) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}

	status := http.StatusOK
	var size int64
	if info, ok := w.(routing.ResponseInfo); ok {
		status = info.StatusCode()
		size = info.Size()
	}

	r.activeRequests.Add(ctx, -1, metric.WithAttributes(st.attrs...))

	attrs := metric.WithAttributes(slices.Concat(st.attrs, []attribute.KeyValue{
		attribute.String("http.route", routeTemplate),
		attribute.Int("http.response.status_code", status),
		attribute.String("http.status_class", statusClass(status)),
		attribute.String("routing.outcome", outcome(routeTemplate)),
	})...)

	r.requestDuration.Record(ctx, time.Since(st.start).Seconds(), attrs)
	r.requestCount.Add(ctx, 1, attrs)
	if err != nil || status >= http.StatusBadRequest {
		r.errorCount.Add(ctx, 1, attrs)
	}
	if size > 0 {
		r.responseSize.Record(ctx, size, attrs)
	}
}

// OnDiagnostic implements routing.DiagnosticHandler by counting events per kind.
func (r *Recorder) OnDiagnostic(e routing.DiagnosticEvent) {
	r.diagnostics.Add(context.Background(), 1, metric.WithAttributes(
		slices.Concat(r.baseAttrs, []attribute.KeyValue{
			attribute.String("routing.diagnostic", string(e.Kind)),
		})...,
	))
}

func outcome(routeTemplate string) string {
	switch routeTemplate {
	case routing.NotFoundLabel:
		return "not_found"
	case routing.MethodNotAllowedLabel:
		return "method_not_allowed"
	default:
		return "found"
	}
}

func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}
