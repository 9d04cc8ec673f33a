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

package timeout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"rivaas.dev/routing"
	"rivaas.dev/routing/problem"
)

// ErrTimeout is matched by errors returned when a request times out.
var ErrTimeout = errors.New("request timeout")

// Error reports a request that exceeded its deadline.
type Error struct {
	Timeout time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("request exceeded %s timeout", e.Timeout)
}

// Is reports whether target is ErrTimeout or context.DeadlineExceeded.
func (e *Error) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// HTTPStatus returns 503.
func (e *Error) HTTPStatus() int { return http.StatusServiceUnavailable }

// Code returns "timeout".
func (e *Error) Code() string { return "timeout" }

// Handler writes the response for a timed-out request.
type Handler func(w http.ResponseWriter, r *http.Request, err *Error)

// Option configures the timeout middleware.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      Handler
	skipPaths    map[string]bool
	skipPrefixes []string
	skipSuffixes []string
	skipFunc     func(r *http.Request) bool
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		logger:    routing.NoopLogger(),
		handler:   defaultHandler,
		skipPaths: make(map[string]bool),
	}
}

var defaultFormatter = problem.New("")

func defaultHandler(w http.ResponseWriter, r *http.Request, err *Error) {
	_ = problem.Write(w, defaultFormatter.Format(r, err))
}

// WithDuration sets the timeout. Defaults to 30s. Non-positive values are
// ignored.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.duration = d
		}
	}
}

// WithLogger logs timeouts at Warn level on logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithHandler replaces the response written on timeout.
func WithHandler(h Handler) Option {
	return func(cfg *config) {
		if h != nil {
			cfg.handler = h
		}
	}
}

// WithSkipPaths exempts exact paths.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.skipPaths[p] = true
		}
	}
}

// WithSkipPrefix exempts paths starting with any of prefixes.
func WithSkipPrefix(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.skipPrefixes = append(cfg.skipPrefixes, prefixes...)
	}
}

// WithSkipSuffix exempts paths ending with any of suffixes.
func WithSkipSuffix(suffixes ...string) Option {
	return func(cfg *config) {
		cfg.skipSuffixes = append(cfg.skipSuffixes, suffixes...)
	}
}

// WithSkip exempts requests for which fn returns true.
func WithSkip(fn func(r *http.Request) bool) Option {
	return func(cfg *config) {
		cfg.skipFunc = fn
	}
}

func (cfg *config) skip(r *http.Request) bool {
	path := r.URL.Path
	if cfg.skipPaths[path] {
		return true
	}
	for _, p := range cfg.skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, s := range cfg.skipSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}

	return cfg.skipFunc != nil && cfg.skipFunc(r)
}

// New returns the timeout middleware.
func New(opts ...Option) routing.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) error {
		if cfg.skip(r) {
			return next.Handle(w, r)
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.duration)
		defer cancel()
		r = r.WithContext(ctx)

		tw := &timeoutWriter{w: w, h: make(http.Header)}
		done := make(chan error, 1)
		panicked := make(chan any, 1)

		go func() {
			defer func() {
				if p := recover(); p != nil {
					panicked <- p
					close(done)
				}
			}()
			done <- next.Handle(tw, r)
		}()

		select {
		case err := <-done:
			select {
			case p := <-panicked:
				panic(p)
			default:
			}
			tw.mu.Lock()
			defer tw.mu.Unlock()
			tw.flushHeader()

			return err
		case <-ctx.Done():
		}

		tw.mu.Lock()
		tw.timedOut = true
		started := tw.wroteHeader
		tw.mu.Unlock()

		terr := &Error{Timeout: cfg.duration}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			cfg.logger.WarnContext(r.Context(), "request timeout",
				"method", r.Method,
				"path", r.URL.Path,
				"timeout", cfg.duration.String(),
			)
			if !started {
				cfg.handler(w, r, terr)
			}
		}

		// The handler goroutine shares r; wait for it before returning.
		<-done
		select {
		case p := <-panicked:
			panic(p)
		default:
		}

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ctx.Err()
		}

		return terr
	})
}

// timeoutWriter buffers headers until the first write and rejects writes
// once the deadline has passed.
type timeoutWriter struct {
	w           http.ResponseWriter
	h           http.Header
	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
	code        int
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.code = code
	tw.flushHeader()
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.code = http.StatusOK
		tw.flushHeader()
	}

	return tw.w.Write(b)
}

// flushHeader copies buffered headers and sends the status once a status
// is known. Callers hold mu.
func (tw *timeoutWriter) flushHeader() {
	if tw.wroteHeader {
		return
	}
	dst := tw.w.Header()
	for k, vs := range tw.h {
		dst[k] = vs
	}
	if tw.code == 0 {
		return
	}
	tw.wroteHeader = true
	tw.w.WriteHeader(tw.code)
}
