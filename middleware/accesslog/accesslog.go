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

package accesslog

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rivaas.dev/routing"
	"rivaas.dev/routing/middleware/requestid"
	"rivaas.dev/routing/problem"
	"rivaas.dev/routing/tracing"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	excludePaths  map[string]bool
	slowThreshold time.Duration
	errorsOnly    bool
}

func defaultConfig() *config {
	return &config{
		logger:       slog.Default(),
		excludePaths: make(map[string]bool),
	}
}

// WithLogger sets the destination logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithExcludePaths skips logging for the given request paths.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithSlowThreshold logs requests slower than d at warn level.
func WithSlowThreshold(d time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = d
	}
}

// WithErrorsOnly logs only failed requests (status 400 and above) and slow ones.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.errorsOnly = true
	}
}

// New returns the access log middleware.
//
// The status of a request whose chain returned an error is taken from the
// error (problem.StatusCoder), defaulting to 500, because the error
// response is written after the middleware returns.
func New(opts ...Option) routing.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) error {
		if cfg.excludePaths[r.URL.Path] {
			return next.Handle(w, r)
		}

		start := time.Now()
		sw := routing.NewStatusWriter(w)
		err := next.Handle(sw, r)
		elapsed := time.Since(start)

		status := sw.StatusCode()
		if err != nil && !sw.Written() {
			status = http.StatusInternalServerError
			var sc problem.StatusCoder
			if errors.As(err, &sc) {
				status = sc.HTTPStatus()
			}
		}

		slow := cfg.slowThreshold > 0 && elapsed > cfg.slowThreshold
		if cfg.errorsOnly && status < http.StatusBadRequest && !slow {
			return err
		}

		ctx := r.Context()
		attrs := make([]slog.Attr, 0, 10)
		attrs = append(attrs,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int64("bytes", sw.Size()),
			slog.Duration("duration", elapsed),
			slog.String("remote", r.RemoteAddr),
		)
		if rt := routing.RouteFromContext(ctx); rt != nil {
			attrs = append(attrs, slog.String("route", rt.Path()))
			if name := rt.Name(); name != "" {
				attrs = append(attrs, slog.String("route_name", name))
			}
		}
		if id := requestid.Get(ctx); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if id := tracing.TraceID(ctx); id != "" {
			attrs = append(attrs, slog.String("trace_id", id))
		}
		if slow {
			attrs = append(attrs, slog.Bool("slow", true))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest, slow:
			level = slog.LevelWarn
		}
		cfg.logger.LogAttrs(ctx, level, "access", attrs...)

		return err
	})
}
