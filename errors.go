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
	"fmt"
	"net/http"
	"strings"

	"rivaas.dev/routing/pattern"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("no route matches the request")

	// ErrMethodNotAllowed is matched by every *MethodNotAllowedError.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrRouteNotFound indicates that no route carries the requested name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrEndOfStack is returned when a middleware calls next after the route
	// handler has already run.
	ErrEndOfStack = errors.New("end of middleware stack reached")

	// ErrRouterBuilt is the panic value for registrations after Build.
	ErrRouterBuilt = errors.New("router already built: routes cannot be registered after Build")

	// ErrNotRegistered indicates a named handler or middleware the resolver
	// does not know.
	ErrNotRegistered = errors.New("identifier not registered")

	// ErrNilHandler indicates a route registered without a handler.
	ErrNilHandler = errors.New("route handler is nil")

	// ErrNilMiddleware indicates a nil middleware passed to Use.
	ErrNilMiddleware = errors.New("middleware is nil")

	// ErrMissingParam is matched by every *MissingParamError.
	ErrMissingParam = pattern.ErrMissingParam

	// ErrBloomFilterSizeZero indicates that the bloom filter size must be greater than zero.
	ErrBloomFilterSizeZero = errors.New("bloom filter size must be non-zero")

	// ErrBloomHashFunctionsInvalid indicates that the number of bloom hash functions must be positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")
)

// MissingParamError names the first placeholder without a value during
// reverse routing.
type MissingParamError = pattern.MissingParamError

// NotFoundError is returned when no route accepts the request, including
// when the matched route's conditions reject the request URI.
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// HTTPStatus returns 404.
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// Code returns "not_found".
func (e *NotFoundError) Code() string { return "not_found" }

// MethodNotAllowedError is returned when the path is routed for other
// methods only.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string // sorted
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allowed: %s)", e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

// Is makes errors.Is(err, ErrMethodNotAllowed) succeed.
func (e *MethodNotAllowedError) Is(target error) bool { return target == ErrMethodNotAllowed }

// HTTPStatus returns 405.
func (e *MethodNotAllowedError) HTTPStatus() int { return http.StatusMethodNotAllowed }

// Code returns "method_not_allowed".
func (e *MethodNotAllowedError) Code() string { return "method_not_allowed" }

// Headers returns the Allow header required on a 405 response.
func (e *MethodNotAllowedError) Headers() http.Header {
	return http.Header{"Allow": []string{strings.Join(e.Allowed, ", ")}}
}

// Details exposes the allowed methods.
func (e *MethodNotAllowedError) Details() any { return e.Allowed }

// RouteError wraps a failure to resolve a route: its handler could not be
// resolved, or no route has the requested name.
type RouteError struct {
	Route string // route name or template
	Err   error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q: %v", e.Route, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// HTTPStatus returns 500.
func (e *RouteError) HTTPStatus() int { return http.StatusInternalServerError }

// Code returns "route_error".
func (e *RouteError) Code() string { return "route_error" }

// MiddlewareError wraps a failure in the middleware pipeline.
type MiddlewareError struct {
	Middleware string // empty when the stack was exhausted
	Err        error
}

func (e *MiddlewareError) Error() string {
	if e.Middleware == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("middleware %q: %v", e.Middleware, e.Err)
}

func (e *MiddlewareError) Unwrap() error { return e.Err }

// HTTPStatus returns 500.
func (e *MiddlewareError) HTTPStatus() int { return http.StatusInternalServerError }

// Code returns "middleware_error".
func (e *MiddlewareError) Code() string { return "middleware_error" }
