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
	"net/http"
)

// Queue is a request-scoped middleware chain ending in a terminal
// middleware, usually the matched route. Each call to Handle runs the next
// entry, so a queue is consumed as the request progresses and must not be
// shared between requests.
type Queue struct {
	resolver Resolver
	refs     []MiddlewareRef
	terminal Middleware
	pos      int
}

// Compose builds a queue running the layers in order and then terminal.
// The layers are copied, so callers may pass slices they keep using.
//
// Example:
//
//	q := routing.Compose(reg, terminal, global, groupMW, routeMW)
//	err := q.Handle(w, r)
func Compose(resolver Resolver, terminal Middleware, layers ...[]MiddlewareRef) *Queue {
	var n int
	for _, l := range layers {
		n += len(l)
	}

	refs := make([]MiddlewareRef, 0, n)
	for _, l := range layers {
		refs = append(refs, l...)
	}

	return &Queue{resolver: resolver, refs: refs, terminal: terminal}
}

// Handle runs the next middleware. A named middleware is resolved right
// before it runs; a resolution failure stops the chain with a
// *MiddlewareError. Calling Handle after the terminal has run returns a
// *MiddlewareError wrapping ErrEndOfStack.
func (q *Queue) Handle(w http.ResponseWriter, r *http.Request) error {
	if q.pos < len(q.refs) {
		ref := q.refs[q.pos]
		q.pos++

		m, err := ref.resolve(q.resolver)
		if err != nil {
			return &MiddlewareError{Middleware: ref.String(), Err: err}
		}

		return m.Process(w, r, q)
	}

	if q.pos == len(q.refs) && q.terminal != nil {
		q.pos++
		return q.terminal.Process(w, r, q)
	}

	return &MiddlewareError{Err: ErrEndOfStack}
}

// Remaining returns how many entries, terminal included, have not run yet.
func (q *Queue) Remaining() int {
	n := len(q.refs) - q.pos
	if q.terminal != nil {
		n++
	}

	return max(n, 0)
}

// routeTerminal ends the chain by serving the matched route.
type routeTerminal struct {
	route    *Route
	params   Params
	resolver Resolver
}

func (t *routeTerminal) Process(w http.ResponseWriter, r *http.Request, _ Next) error {
	h, err := t.route.handler.resolve(t.resolver)
	if err != nil {
		return &RouteError{Route: t.route.path, Err: err}
	}

	return h.Serve(w, r, t.params)
}
