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

package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"rivaas.dev/routing"
)

// ErrPanic is matched by every *PanicError.
var ErrPanic = errors.New("panic recovered")

// PanicError wraps a recovered panic value.
type PanicError struct {
	Value any
	Stack []byte
}

// Error returns the panic value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}

// Unwrap returns ErrPanic and, if the panic value was an error, that error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanic, err}
	}

	return []error{ErrPanic}
}

// HTTPStatus implements problem.StatusCoder.
func (e *PanicError) HTTPStatus() int { return http.StatusInternalServerError }

// Code implements problem.Coder.
func (e *PanicError) Code() string { return "panic" }

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	handler     func(w http.ResponseWriter, r *http.Request, recovered any) error
	stackTrace  bool
	stackSize   int
	prettyStack *bool
}

func defaultConfig() *config {
	return &config{
		logger:     slog.Default(),
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

// WithoutLogging disables logging of recovered panics.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithLogger sets the logger for recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithHandler replaces the default behaviour of returning a *PanicError.
// Its return value becomes the chain's result.
func WithHandler(handler func(w http.ResponseWriter, r *http.Request, recovered any) error) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithStackTrace controls stack capture. Defaults to true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize sets the stack buffer size in bytes. Defaults to 4 KiB.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}

// WithPrettyStack forces the stack to be printed to stderr instead of
// logged as an attribute. By default this happens when stderr is a
// terminal.
func WithPrettyStack(enabled bool) Option {
	return func(cfg *config) {
		cfg.prettyStack = &enabled
	}
}

func (cfg *config) pretty() bool {
	if cfg.prettyStack != nil {
		return *cfg.prettyStack
	}

	return term.IsTerminal(int(os.Stderr.Fd()))
}

// New returns the recovery middleware.
func New(opts ...Option) routing.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	pretty := cfg.pretty()

	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) (err error) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(rec)
			}

			perr := &PanicError{Value: rec}
			if cfg.stackTrace {
				buf := make([]byte, cfg.stackSize)
				perr.Stack = buf[:runtime.Stack(buf, false)]
			}

			if span := trace.SpanFromContext(r.Context()); span.IsRecording() {
				span.RecordError(perr)
				span.SetStatus(codes.Error, "panic")
			}

			if cfg.logger != nil {
				attrs := []any{"method", r.Method, "path", r.URL.Path, "panic", rec}
				if rt := routing.RouteFromContext(r.Context()); rt != nil {
					attrs = append(attrs, "route", rt.Path())
				}
				if len(perr.Stack) > 0 && !pretty {
					attrs = append(attrs, "stack", string(perr.Stack))
				}
				cfg.logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				if len(perr.Stack) > 0 && pretty {
					_, _ = os.Stderr.Write(perr.Stack)
				}
			}

			if cfg.handler != nil {
				err = cfg.handler(w, r, rec)
				return
			}
			err = perr
		}()

		return next.Handle(w, r)
	})
}
