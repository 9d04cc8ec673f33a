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
	"slices"

	"rivaas.dev/routing/pattern"
	"rivaas.dev/routing/route"
)

// noGroup marks a route registered outside any group.
const noGroup = -1

// Route is a registered endpoint. Setters return the route for chaining and
// may only be called before the router is built. Invalid values are
// recorded and reported by Router.Build.
type Route struct {
	router     *Router
	path       string
	methods    []string
	name       string
	middleware []MiddlewareRef
	conditions route.Conditions
	group      int
	handler    HandlerRef
	pattern    *pattern.Pattern
}

// SetName names the route for reverse routing and lookup. Names are not
// required to be unique; the first route registered with a name wins.
func (r *Route) SetName(name string) *Route {
	r.router.checkMutable()
	r.name = name

	return r
}

// Use appends middleware run after global and group middleware.
func (r *Route) Use(mw ...Middleware) *Route {
	r.router.checkMutable()
	for _, m := range mw {
		if m == nil {
			r.router.recordError(fmt.Errorf("route %s: %w", r.path, ErrNilMiddleware))
			continue
		}
		r.middleware = append(r.middleware, Instance(m))
	}

	return r
}

// UseNamed appends middleware resolved by identifier at request time.
func (r *Route) UseNamed(ids ...string) *Route {
	r.router.checkMutable()
	for _, id := range ids {
		r.middleware = append(r.middleware, Named(id))
	}

	return r
}

// SetScheme restricts the route to a scheme: "http" or "https". A trailing
// "://" is accepted.
func (r *Route) SetScheme(scheme string) *Route {
	r.router.checkMutable()
	s, err := route.ParseScheme(scheme)
	if err != nil {
		r.router.recordError(fmt.Errorf("route %s: %w", r.path, err))
		return r
	}
	r.conditions.Scheme = s

	return r
}

// SetHost restricts the route to a host, compared case-insensitively.
func (r *Route) SetHost(host string) *Route {
	r.router.checkMutable()
	r.conditions.Host = host

	return r
}

// SetPort restricts the route to a port. The port only applies together
// with a host, and the scheme's default port is not enforced.
func (r *Route) SetPort(port int) *Route {
	r.router.checkMutable()
	if err := route.ValidatePort(port); err != nil {
		r.router.recordError(fmt.Errorf("route %s: %w", r.path, err))
		return r
	}
	r.conditions.Port = port

	return r
}

// Path returns the normalised template, including any group prefix.
func (r *Route) Path() string { return r.path }

// Methods returns the sanitised methods.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

// Name returns the route name, or "".
func (r *Route) Name() string { return r.name }

// Conditions returns the declared conditions. After Build they include the
// conditions inherited from the route's groups.
func (r *Route) Conditions() route.Conditions { return r.conditions }

// Middleware returns the route's own middleware references.
func (r *Route) Middleware() []MiddlewareRef { return slices.Clone(r.middleware) }

// Handler returns the handler reference.
func (r *Route) Handler() HandlerRef { return r.handler }

// Group returns the owning group, or nil.
func (r *Route) Group() *Group {
	if r.group == noGroup {
		return nil
	}

	return r.router.groups[r.group]
}

// Pattern returns the compiled template, or nil before Build.
func (r *Route) Pattern() *pattern.Pattern { return r.pattern }

// String renders the route as "GET|POST /path".
func (r *Route) String() string {
	return fmt.Sprintf("%v %s", r.methods, r.path)
}
