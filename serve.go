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
	"errors"
	"net/http"
	"net/url"

	"rivaas.dev/routing/problem"
)

// RequestURL returns the absolute URL of req as seen by the router. The
// scheme is https when the connection used TLS and http otherwise, and the
// host comes from the Host header.
func RequestURL(req *http.Request) *url.URL {
	u := *req.URL
	if u.Scheme == "" {
		u.Scheme = "http"
		if req.TLS != nil {
			u.Scheme = "https"
		}
	}
	if u.Host == "" {
		u.Host = req.Host
	}

	return &u
}

// Handle dispatches req and runs the middleware chain. Dispatch failures are
// returned as *NotFoundError or *MethodNotAllowedError and nothing is
// written to w.
func (d *Dispatcher) Handle(w http.ResponseWriter, req *http.Request) error {
	_, err := d.handle(w, req)
	return err
}

func (d *Dispatcher) handle(w http.ResponseWriter, req *http.Request) (string, error) {
	m, err := d.Dispatch(req.Method, RequestURL(req))
	if err != nil {
		if errors.Is(err, ErrMethodNotAllowed) {
			return MethodNotAllowedLabel, err
		}

		return NotFoundLabel, err
	}

	req = req.WithContext(withMatch(req.Context(), m))

	return m.Route.path, d.Queue(m).Handle(w, req)
}

// ServeHTTP implements http.Handler. Errors returned by the chain are
// rendered with the error formatter unless the response was already
// started; server errors are logged.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var state any
	if d.observer != nil {
		ctx, state = d.observer.OnRequestStart(ctx, req)
		req = req.WithContext(ctx)
		if state != nil {
			w = d.observer.WrapResponseWriter(w, state)
		}
	}

	sw := NewStatusWriter(w)
	template, err := d.handle(sw, req)
	if err != nil {
		d.writeError(sw, req, template, err)
	}

	if state != nil {
		d.observer.OnRequestEnd(ctx, state, sw, template, err)
	}
}

func (d *Dispatcher) writeError(w *StatusWriter, req *http.Request, template string, err error) {
	resp := d.formatter.Format(req, err)
	if resp.Status >= http.StatusInternalServerError {
		d.logger.ErrorContext(req.Context(), "request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"route", template,
			"error", err,
		)
	}

	if w.Written() {
		return
	}
	if writeErr := problem.Write(w, resp); writeErr != nil {
		d.logger.WarnContext(req.Context(), "failed to write error response", "error", writeErr)
	}
}

// ServeHTTP builds the router on first use and serves req. A build failure
// is answered with 500 and logged.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	d, err := r.Build()
	if err != nil {
		r.logger.ErrorContext(req.Context(), "router build failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	d.ServeHTTP(w, req)
}
