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
	"fmt"
	"net/http"
)

// Handler serves a matched route. Params holds the values captured from the
// path; it belongs to this request only.
type Handler interface {
	Serve(w http.ResponseWriter, r *http.Request, params Params) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params Params) error

// Serve calls f(w, r, params).
func (f HandlerFunc) Serve(w http.ResponseWriter, r *http.Request, params Params) error {
	return f(w, r, params)
}

// Next continues the middleware chain.
type Next interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// Middleware intercepts a request. It either returns without calling next,
// or delegates to next and may act on the result.
type Middleware interface {
	Process(w http.ResponseWriter, r *http.Request, next Next) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(w http.ResponseWriter, r *http.Request, next Next) error

// Process calls f(w, r, next).
func (f MiddlewareFunc) Process(w http.ResponseWriter, r *http.Request, next Next) error {
	return f(w, r, next)
}

// MiddlewareRef refers to a middleware either directly or by an identifier
// resolved when the middleware is about to run.
type MiddlewareRef struct {
	mw Middleware
	id string
}

// Instance refers to m directly.
func Instance(m Middleware) MiddlewareRef { return MiddlewareRef{mw: m} }

// Named refers to the middleware registered under id.
func Named(id string) MiddlewareRef { return MiddlewareRef{id: id} }

// IsNamed reports whether the reference is resolved lazily.
func (m MiddlewareRef) IsNamed() bool { return m.mw == nil }

// String returns the identifier, or the dynamic type of an instance.
func (m MiddlewareRef) String() string {
	if m.mw == nil {
		return m.id
	}

	return fmt.Sprintf("%T", m.mw)
}

func (m MiddlewareRef) resolve(res Resolver) (Middleware, error) {
	if m.mw != nil {
		return m.mw, nil
	}
	if res == nil {
		return nil, fmt.Errorf("%w: middleware %q", ErrNotRegistered, m.id)
	}

	return res.Middleware(m.id)
}

// HandlerRef refers to a route handler directly or by identifier.
type HandlerRef struct {
	h  Handler
	id string
}

// HandlerInstance refers to h directly.
func HandlerInstance(h Handler) HandlerRef { return HandlerRef{h: h} }

// NamedHandler refers to the handler registered under id.
func NamedHandler(id string) HandlerRef { return HandlerRef{id: id} }

// IsZero reports whether the reference points at nothing.
func (h HandlerRef) IsZero() bool { return h.h == nil && h.id == "" }

// String returns the identifier, or the dynamic type of an instance.
func (h HandlerRef) String() string {
	if h.h == nil {
		return h.id
	}

	return fmt.Sprintf("%T", h.h)
}

func (h HandlerRef) resolve(res Resolver) (Handler, error) {
	if h.h != nil {
		return h.h, nil
	}
	if res == nil {
		return nil, fmt.Errorf("%w: handler %q", ErrNotRegistered, h.id)
	}

	return res.Handler(h.id)
}
