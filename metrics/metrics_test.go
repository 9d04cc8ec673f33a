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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rivaas.dev/routing"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func sumBy(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is %T", m.Name, m.Data)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.Emit()] += dp.Value
	}

	return out
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func newObservedRouter(t *testing.T, rec *Recorder) *routing.Router {
	t.Helper()

	r := routing.MustNew(routing.WithObserver(rec), routing.WithDiagnostics(rec))
	r.GET("/users/{id}", routing.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, p routing.Params) error {
		_, err := io.WriteString(w, "user "+p.Get("id"))
		return err
	}))
	r.GET("/health", routing.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}))

	return r
}

func TestRecorder_RecordsRequestsByRoute(t *testing.T) {
	t.Parallel()

	rec, reader := TestingRecorder(t, WithServiceName("api"))
	r := newObservedRouter(t, rec)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/users/1").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/users/2").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/missing").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodPost, "/users/1").Code)

	got := collect(t, reader)

	requests, ok := got["http.server.requests"]
	require.True(t, ok)
	assert.Equal(t, map[string]int64{
		"/users/{id}":                 2,
		routing.NotFoundLabel:         1,
		routing.MethodNotAllowedLabel: 1,
	}, sumBy(t, requests, "http.route"))
	assert.Equal(t, map[string]int64{
		"found":              2,
		"not_found":          1,
		"method_not_allowed": 1,
	}, sumBy(t, requests, "routing.outcome"))
	assert.Equal(t, map[string]int64{"api": 4}, sumBy(t, requests, "service.name"))

	errs, ok := got["http.server.errors"]
	require.True(t, ok)
	assert.Equal(t, map[string]int64{"404": 1, "405": 1}, sumBy(t, errs, "http.response.status_code"))

	active, ok := got["http.server.active_requests"]
	require.True(t, ok)
	for method, n := range sumBy(t, active, "http.request.method") {
		assert.Zero(t, n, "active requests for %s", method)
	}

	duration, ok := got["http.server.request.duration"]
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)

	_, ok = got["http.server.response.body.size"]
	assert.True(t, ok, "response sizes are recorded for non-empty bodies")
}

func TestRecorder_ExcludedPaths(t *testing.T) {
	t.Parallel()

	rec, reader := TestingRecorder(t,
		WithExcludePaths("/health"),
		WithExcludePrefixes("/users/"),
	)
	r := newObservedRouter(t, rec)

	serve(r, http.MethodGet, "/health")
	serve(r, http.MethodGet, "/users/7")

	_, ok := collect(t, reader)["http.server.requests"]
	assert.False(t, ok)
}

func TestRecorder_ExcludePatterns(t *testing.T) {
	t.Parallel()

	rec, reader := TestingRecorder(t, WithExcludePatterns(`^/users/\d+$`))
	r := newObservedRouter(t, rec)

	serve(r, http.MethodGet, "/users/7")
	serve(r, http.MethodGet, "/users/abc")

	requests := collect(t, reader)["http.server.requests"]
	assert.Equal(t, map[string]int64{"/users/{id}": 1}, sumBy(t, requests, "http.route"))
}

func TestRecorder_CountsDiagnostics(t *testing.T) {
	t.Parallel()

	rec, reader := TestingRecorder(t)
	r := newObservedRouter(t, rec)
	r.GET("/health", routing.HandlerFunc(func(http.ResponseWriter, *http.Request, routing.Params) error { return nil }))

	_, err := r.Build()
	require.NoError(t, err)

	diag, ok := collect(t, reader)["routing.diagnostics"]
	require.True(t, ok)
	assert.Equal(t, map[string]int64{string(routing.DiagDuplicateRoute): 1}, sumBy(t, diag, "routing.diagnostic"))
}

func TestRecorder_PrometheusHandler(t *testing.T) {
	t.Parallel()

	rec := MustNew(WithServiceName("api"), WithPrometheus())
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	assert.Equal(t, PrometheusProvider, rec.Provider())

	r := newObservedRouter(t, rec)
	serve(r, http.MethodGet, "/users/1")

	h, err := rec.Handler()
	require.NoError(t, err)

	resp := serve(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "http_server_requests_total")
	assert.Contains(t, body, `http_route="/users/{id}"`)
}

func TestRecorder_HandlerRequiresPrometheus(t *testing.T) {
	t.Parallel()

	rec, _ := TestingRecorder(t)
	_, err := rec.Handler()
	require.Error(t, err)
	assert.Empty(t, rec.Provider())
}

func TestRecorder_Shutdown(t *testing.T) {
	t.Parallel()

	rec := MustNew(WithStdout())
	assert.Equal(t, StdoutProvider, rec.Provider())

	ctx := context.Background()
	require.NoError(t, rec.ForceFlush(ctx))
	require.NoError(t, rec.Shutdown(ctx))
	require.NoError(t, rec.Shutdown(ctx), "second shutdown is a no-op")
	require.NoError(t, rec.ForceFlush(ctx), "flush after shutdown is a no-op")
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "conflicting providers", opts: []Option{WithPrometheus(), WithStdout()}},
		{name: "empty service name", opts: []Option{WithServiceName("")}},
		{name: "empty service version", opts: []Option{WithServiceVersion("")}},
		{name: "invalid exclude pattern", opts: []Option{WithExcludePatterns("(")}},
		{name: "nil meter provider", opts: []Option{WithMeterProvider(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.Panics(t, func() { MustNew(tt.opts...) })
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	rec, _ := TestingRecorder(t)
	assert.Equal(t, "rivaas-service", rec.ServiceName())
	assert.Equal(t, "1.0.0", rec.ServiceVersion())
}

func TestStatusClassAndOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"}, {301, "3xx"}, {404, "4xx"}, {503, "5xx"}, {99, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusClass(tt.status))
	}

	assert.Equal(t, "found", outcome("/users/{id}"))
	assert.Equal(t, "not_found", outcome(routing.NotFoundLabel))
	assert.Equal(t, "method_not_allowed", outcome(routing.MethodNotAllowedLabel))
}
