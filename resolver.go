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
	"maps"
	"slices"
	"sync"
)

// Resolver turns identifiers into handlers and middleware. It is consulted
// while a request is being served, so implementations must be safe for
// concurrent use.
type Resolver interface {
	Middleware(id string) (Middleware, error)
	Handler(id string) (Handler, error)
}

// Registry is the default Resolver. Entries are factories, so a
// registration may build a fresh value per request or return a shared one.
type Registry struct {
	mu         sync.RWMutex
	middleware map[string]func() (Middleware, error)
	handlers   map[string]func() (Handler, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		middleware: make(map[string]func() (Middleware, error)),
		handlers:   make(map[string]func() (Handler, error)),
	}
}

// RegisterMiddleware registers a shared middleware under id.
func (r *Registry) RegisterMiddleware(id string, m Middleware) {
	r.RegisterMiddlewareFactory(id, func() (Middleware, error) { return m, nil })
}

// RegisterMiddlewareFactory registers a factory called each time id is
// resolved. A later registration replaces an earlier one.
func (r *Registry) RegisterMiddlewareFactory(id string, factory func() (Middleware, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware[id] = factory
}

// RegisterHandler registers a shared handler under id.
func (r *Registry) RegisterHandler(id string, h Handler) {
	r.RegisterHandlerFactory(id, func() (Handler, error) { return h, nil })
}

// RegisterHandlerFactory registers a factory called each time id is resolved.
func (r *Registry) RegisterHandlerFactory(id string, factory func() (Handler, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = factory
}

// Middleware implements Resolver.
func (r *Registry) Middleware(id string) (Middleware, error) {
	r.mu.RLock()
	factory, ok := r.middleware[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: middleware %q", ErrNotRegistered, id)
	}

	m, err := factory()
	if err != nil {
		return nil, fmt.Errorf("middleware %q: %w", id, err)
	}

	return m, nil
}

// Handler implements Resolver.
func (r *Registry) Handler(id string) (Handler, error) {
	r.mu.RLock()
	factory, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: handler %q", ErrNotRegistered, id)
	}

	h, err := factory()
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", id, err)
	}

	return h, nil
}

// MiddlewareIDs returns the registered middleware identifiers, sorted.
func (r *Registry) MiddlewareIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.middleware))
}

// HandlerIDs returns the registered handler identifiers, sorted.
func (r *Registry) HandlerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.handlers))
}
