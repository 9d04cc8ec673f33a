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
	"slices"

	"rivaas.dev/routing/route"
)

// Group shares a path prefix, conditions and middleware between routes.
// The callback passed to Router.Group runs exactly once, during Build.
//
// Example:
//
//	r.Group("/api", func(g *routing.Group) {
//	    g.Use(auth)
//	    g.GET("/users/{id:numeric}", showUser)
//	}).SetHost("api.example.com")
type Group struct {
	router     *Router
	index      int
	parent     int
	prefix     string
	middleware []MiddlewareRef
	conditions route.Conditions
	fn         func(*Group)
}

// Use appends middleware run after global and parent-group middleware.
func (g *Group) Use(mw ...Middleware) *Group {
	g.router.checkMutable()
	for _, m := range mw {
		if m == nil {
			g.router.recordError(fmt.Errorf("group %s: %w", g.prefix, ErrNilMiddleware))
			continue
		}
		g.middleware = append(g.middleware, Instance(m))
	}

	return g
}

// UseNamed appends middleware resolved by identifier at request time.
func (g *Group) UseNamed(ids ...string) *Group {
	g.router.checkMutable()
	for _, id := range ids {
		g.middleware = append(g.middleware, Named(id))
	}

	return g
}

// SetScheme restricts member routes to a scheme.
func (g *Group) SetScheme(scheme string) *Group {
	g.router.checkMutable()
	s, err := route.ParseScheme(scheme)
	if err != nil {
		g.router.recordError(fmt.Errorf("group %s: %w", g.prefix, err))
		return g
	}
	g.conditions.Scheme = s

	return g
}

// SetHost restricts member routes to a host.
func (g *Group) SetHost(host string) *Group {
	g.router.checkMutable()
	g.conditions.Host = host

	return g
}

// SetPort restricts member routes to a port.
func (g *Group) SetPort(port int) *Group {
	g.router.checkMutable()
	if err := route.ValidatePort(port); err != nil {
		g.router.recordError(fmt.Errorf("group %s: %w", g.prefix, err))
		return g
	}
	g.conditions.Port = port

	return g
}

// Prefix returns the full prefix, including parent prefixes.
func (g *Group) Prefix() string { return g.prefix }

// Conditions returns the group's own conditions.
func (g *Group) Conditions() route.Conditions { return g.conditions }

// Parent returns the enclosing group, or nil.
func (g *Group) Parent() *Group {
	if g.parent == noGroup {
		return nil
	}

	return g.router.groups[g.parent]
}

// Group declares a nested group. Its middleware runs after g's.
func (g *Group) Group(prefix string, fn func(*Group)) *Group {
	return g.router.newGroup(route.JoinPath(g.prefix, prefix), g.index, fn)
}

// Add registers a route under the group prefix.
func (g *Group) Add(methods []string, path string, h HandlerRef) *Route {
	return g.router.addRoute(methods, route.JoinPath(g.prefix, path), h, g.index)
}

// Any registers h for every allowed method.
func (g *Group) Any(path string, h Handler) *Route {
	return g.Add(route.AllowedMethods, path, HandlerInstance(h))
}

// GET registers h for GET requests.
func (g *Group) GET(path string, h Handler) *Route {
	return g.Add([]string{http.MethodGet}, path, HandlerInstance(h))
}

// POST registers h for POST requests.
func (g *Group) POST(path string, h Handler) *Route {
	return g.Add([]string{http.MethodPost}, path, HandlerInstance(h))
}

// PUT registers h for PUT requests.
func (g *Group) PUT(path string, h Handler) *Route {
	return g.Add([]string{http.MethodPut}, path, HandlerInstance(h))
}

// PATCH registers h for PATCH requests.
func (g *Group) PATCH(path string, h Handler) *Route {
	return g.Add([]string{http.MethodPatch}, path, HandlerInstance(h))
}

// DELETE registers h for DELETE requests.
func (g *Group) DELETE(path string, h Handler) *Route {
	return g.Add([]string{http.MethodDelete}, path, HandlerInstance(h))
}

// HEAD registers h for HEAD requests.
func (g *Group) HEAD(path string, h Handler) *Route {
	return g.Add([]string{http.MethodHead}, path, HandlerInstance(h))
}

// OPTIONS registers h for OPTIONS requests.
func (g *Group) OPTIONS(path string, h Handler) *Route {
	return g.Add([]string{http.MethodOptions}, path, HandlerInstance(h))
}

// chain returns g and its ancestors, outermost first.
func (g *Group) chain() []*Group {
	var out []*Group
	for cur := g; cur != nil; cur = cur.Parent() {
		out = append(out, cur)
	}
	slices.Reverse(out)

	return out
}
