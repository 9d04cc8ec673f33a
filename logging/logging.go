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
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routing"
	"rivaas.dev/routing/middleware/requestid"
)

// Field names added by the context handler.
const (
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRequestID = "request_id"
	FieldRoute     = "route"
)

// HandlerType selects the output encoding.
type HandlerType string

const (
	// JSONHandler writes one JSON object per record (default).
	JSONHandler HandlerType = "json"
	// TextHandler writes key=value pairs.
	TextHandler HandlerType = "text"
)

// Option configures New.
type Option func(*config)

type config struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.Leveler
	addSource   bool
	serviceName string
}

// WithJSONHandler uses JSON output.
func WithJSONHandler() Option { return WithHandlerType(JSONHandler) }

// WithTextHandler uses key=value output.
func WithTextHandler() Option { return WithHandlerType(TextHandler) }

// WithHandlerType sets the output encoding.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) {
		c.handlerType = t
	}
}

// WithOutput sets the destination. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLevel sets the minimum level. Defaults to slog.LevelInfo.
func WithLevel(level slog.Leveler) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithSource adds the caller's file and line.
func WithSource() Option {
	return func(c *config) {
		c.addSource = true
	}
}

// WithServiceName adds a "service" attribute to every record.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.serviceName = name
	}
}

// New returns a logger wrapped in a context handler.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	var h slog.Handler
	if cfg.handlerType == TextHandler {
		h = slog.NewTextHandler(cfg.output, hopts)
	} else {
		h = slog.NewJSONHandler(cfg.output, hopts)
	}

	logger := slog.New(NewContextHandler(h))
	if cfg.serviceName != "" {
		logger = logger.With("service", cfg.serviceName)
	}

	return logger
}

// ContextHandler adds correlation fields from the record's context before
// passing it to the wrapped handler.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil {
		return h.next.Handle(ctx, r)
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String(FieldTraceID, sc.TraceID().String()),
			slog.String(FieldSpanID, sc.SpanID().String()),
		)
	}
	if id := requestid.Get(ctx); id != "" {
		r.AddAttrs(slog.String(FieldRequestID, id))
	}
	if rt := routing.RouteFromContext(ctx); rt != nil {
		r.AddAttrs(slog.String(FieldRoute, rt.Path()))
	}

	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
