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
	"log/slog"
	"net/url"
	"slices"

	"rivaas.dev/routing/compiler"
	"rivaas.dev/routing/problem"
)

// Match is the result of a successful dispatch.
type Match struct {
	Route  *Route
	Params Params // fresh per dispatch
}

// Dispatcher is the compiled, read-only form of a Router. All methods are
// safe for concurrent use.
type Dispatcher struct {
	table      *compiler.Table[*Route]
	routes     []*Route
	groups     []*Group
	names      map[string]*Route
	middleware []MiddlewareRef
	resolver   Resolver
	logger     *slog.Logger
	observer   Observer
	formatter  problem.Formatter
}

// Dispatch finds the route for method and uri. The escaped form of the
// path is matched; captured parameters are returned decoded.
//
// Static routes are tried first, then variable routes in registration
// order; the first acceptor wins. If the winning route declares scheme,
// host or port conditions that uri does not satisfy, the result is a
// *NotFoundError: no other route is tried.
func (d *Dispatcher) Dispatch(method string, uri *url.URL) (*Match, error) {
	path := "/"
	if uri != nil {
		if escaped := uri.EscapedPath(); escaped != "" {
			path = escaped
		}
	}

	res := d.table.Match(method, path)
	switch res.Outcome {
	case compiler.Found:
	case compiler.MethodNotAllowed:
		return nil, &MethodNotAllowedError{Method: method, Path: path, Allowed: res.Allowed}
	default:
		return nil, &NotFoundError{Method: method, Path: path}
	}

	rt := res.Value
	if !rt.conditions.Matches(uri) {
		return nil, &NotFoundError{Method: method, Path: path}
	}

	return &Match{Route: rt, Params: unescapeParams(res.Params)}, nil
}

// unescapeParams decodes captured values. Matching runs on the escaped path
// so an encoded slash stays inside one segment.
func unescapeParams(params map[string]string) Params {
	for k, v := range params {
		if u, err := url.PathUnescape(v); err == nil {
			params[k] = u
		}
	}

	return params
}

// Queue composes the middleware chain for m: global middleware, then the
// middleware of each enclosing group from the outermost in, then the
// route's own, ending with the route handler.
func (d *Dispatcher) Queue(m *Match) *Queue {
	layers := make([][]MiddlewareRef, 0, 4)
	layers = append(layers, d.middleware)
	if g := m.Route.group; g != noGroup {
		for _, grp := range d.groups[g].chain() {
			layers = append(layers, grp.middleware)
		}
	}
	layers = append(layers, m.Route.middleware)

	terminal := &routeTerminal{route: m.Route, params: m.Params, resolver: d.resolver}

	return Compose(d.resolver, terminal, layers...)
}

// Routes returns every route in registration order, group routes included.
func (d *Dispatcher) Routes() []*Route {
	return slices.Clone(d.routes)
}

// NamedRoute returns the first route registered with name.
func (d *Dispatcher) NamedRoute(name string) (*Route, error) {
	rt, ok := d.names[name]
	if !ok {
		return nil, &RouteError{Route: name, Err: ErrRouteNotFound}
	}

	return rt, nil
}
