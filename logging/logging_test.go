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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routing"
	"rivaas.dev/routing/middleware/requestid"
)

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf, textBuf bytes.Buffer
	New(WithOutput(&jsonBuf), WithServiceName("api")).Info("hello", "k", "v")
	New(WithOutput(&textBuf), WithTextHandler()).Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "v", entry["k"])

	assert.Contains(t, textBuf.String(), "msg=hello")
	assert.Contains(t, textBuf.String(), "k=v")
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf), WithLevel(slog.LevelWarn))
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestContextHandler_TraceFields(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	var buf bytes.Buffer
	New(WithOutput(&buf)).InfoContext(ctx, "traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry[FieldTraceID])
	assert.Equal(t, "00f067aa0ba902b7", entry[FieldSpanID])

	buf.Reset()
	New(WithOutput(&buf)).InfoContext(context.Background(), "plain")
	assert.NotContains(t, buf.String(), FieldTraceID)
}

func TestContextHandler_RequestFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf)).With("component", "test").WithGroup("req")

	r := routing.MustNew()
	r.Use(requestid.New(requestid.WithGenerator(func() string { return "req-42" })))
	r.GET("/items/{id}", routing.HandlerFunc(func(_ http.ResponseWriter, req *http.Request, _ routing.Params) error {
		logger.InfoContext(req.Context(), "handling")
		return nil
	}))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "test", entry["component"])

	group, ok := entry["req"].(map[string]any)
	require.True(t, ok, "fields land in the open group")
	assert.Equal(t, "req-42", group[FieldRequestID])
	assert.Equal(t, "/items/{id}", group[FieldRoute])
}
