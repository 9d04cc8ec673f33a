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

package routing

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
)

// Route labels reported to an Observer when no route handled the request.
// Using them instead of raw paths keeps metric cardinality bounded.
const (
	NotFoundLabel         = "_not_found"
	MethodNotAllowedLabel = "_method_not_allowed"
)

// Observer receives request lifecycle hooks from ServeHTTP.
//
// Lifecycle:
//  1. OnRequestStart returns an enriched context and an opaque state. The
//     context is always used; a nil state excludes the request from the
//     remaining hooks.
//  2. WrapResponseWriter wraps the writer when state is not nil.
//  3. The request is dispatched and served.
//  4. OnRequestEnd receives a writer implementing ResponseInfo, the route
//     template (or NotFoundLabel / MethodNotAllowedLabel) and the error
//     returned by the chain, if any.
//
// Implementations must be safe for concurrent use.
type Observer interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter
	OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string, err error)
}

// ResponseInfo is implemented by writers that track what was written.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
	Written() bool
}

// Observers fans hooks out to several observers. States are kept per
// observer, so each only sees its own.
type Observers []Observer

type observersState struct {
	states []any
}

// OnRequestStart implements Observer.
func (obs Observers) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	st := &observersState{states: make([]any, len(obs))}
	var active bool
	for i, o := range obs {
		ctx, st.states[i] = o.OnRequestStart(ctx, req)
		active = active || st.states[i] != nil
	}
	if !active {
		return ctx, nil
	}

	return ctx, st
}

// WrapResponseWriter implements Observer.
func (obs Observers) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	st, ok := state.(*observersState)
	if !ok {
		return w
	}
	for i, o := range obs {
		if st.states[i] != nil {
			w = o.WrapResponseWriter(w, st.states[i])
		}
	}

	return w
}

// OnRequestEnd implements Observer. Observers are notified in reverse order.
func (obs Observers) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string, err error) {
	st, ok := state.(*observersState)
	if !ok {
		return
	}
	for i := len(obs) - 1; i >= 0; i-- {
		if st.states[i] != nil {
			obs[i].OnRequestEnd(ctx, st.states[i], w, routeTemplate, err)
		}
	}
}

// StatusWriter records the status code and body size written through it.
type StatusWriter struct {
	http.ResponseWriter
	status  int
	size    int64
	written bool
}

// NewStatusWriter wraps w. If w already is a *StatusWriter it is returned.
func NewStatusWriter(w http.ResponseWriter) *StatusWriter {
	if sw, ok := w.(*StatusWriter); ok {
		return sw
	}

	return &StatusWriter{ResponseWriter: w}
}

// WriteHeader records code and forwards it once.
func (w *StatusWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

// Write forwards b, writing an implicit 200 first if needed.
func (w *StatusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)

	return n, err
}

// StatusCode returns the written status, or 200 if nothing was written.
func (w *StatusWriter) StatusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}

	return w.status
}

// Size returns the number of body bytes written.
func (w *StatusWriter) Size() int64 { return w.size }

// Written reports whether the header has been sent.
func (w *StatusWriter) Written() bool { return w.written }

// Unwrap returns the wrapped writer for http.ResponseController.
func (w *StatusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Flush implements http.Flusher when the wrapped writer does.
func (w *StatusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// Hijack implements http.Hijacker when the wrapped writer does.
func (w *StatusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T does not implement http.Hijacker", w.ResponseWriter)
	}

	return h.Hijack()
}
