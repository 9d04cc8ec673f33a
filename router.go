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
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"rivaas.dev/routing/compiler"
	"rivaas.dev/routing/pattern"
	"rivaas.dev/routing/problem"
	"rivaas.dev/routing/route"
)

const (
	// defaultBloomFilterSize is the bit count of the static-route bloom filter.
	defaultBloomFilterSize = 1000

	// defaultBloomHashFunctions is the number of hash functions used by the
	// static-route bloom filter.
	defaultBloomHashFunctions = 3
)

// Router collects routes, groups and global middleware. It is a builder:
// Build compiles everything into an immutable *Dispatcher exactly once and
// any registration after that panics with ErrRouterBuilt.
//
// Registration is not safe for concurrent use. Serving is: ServeHTTP builds
// on first use and then only reads.
type Router struct {
	routes     []*Route
	groups     []*Group
	middleware []MiddlewareRef
	errs       []error

	aliases            map[string]string
	resolver           Resolver
	logger             *slog.Logger
	diagnostics        DiagnosticHandler
	observer           Observer
	formatter          problem.Formatter
	bloomFilterSize    uint64
	bloomHashFunctions int

	frozen     atomic.Bool
	buildOnce  sync.Once
	dispatcher *Dispatcher
	buildErr   error
}

// New creates a router. Options are validated immediately.
//
// Example:
//
//	r, err := routing.New(routing.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.GET("/foo/{id:numeric}", showFoo).SetName("foo")
//	http.ListenAndServe(":8080", r)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		resolver:           NewRegistry(),
		logger:             NoopLogger(),
		formatter:          problem.New(""),
		bloomFilterSize:    defaultBloomFilterSize,
		bloomHashFunctions: defaultBloomHashFunctions,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("routing.MustNew: %v", err))
	}

	return r
}

func (r *Router) validate() error {
	if r.bloomFilterSize == 0 {
		return ErrBloomFilterSizeZero
	}
	if r.bloomHashFunctions <= 0 {
		return fmt.Errorf("%w: got %d", ErrBloomHashFunctionsInvalid, r.bloomHashFunctions)
	}
	if r.resolver == nil {
		r.resolver = NewRegistry()
	}
	if r.logger == nil {
		r.logger = NoopLogger()
	}
	if r.formatter == nil {
		r.formatter = problem.New("")
	}

	return nil
}

// Resolver returns the resolver used for named handlers and middleware.
func (r *Router) Resolver() Resolver { return r.resolver }

// Registry returns the resolver when it is the default *Registry, or nil.
func (r *Router) Registry() *Registry {
	reg, _ := r.resolver.(*Registry)
	return reg
}

func (r *Router) checkMutable() {
	if r.frozen.Load() {
		panic(ErrRouterBuilt)
	}
}

func (r *Router) recordError(err error) {
	r.errs = append(r.errs, err)
}

// SetAliases adds placeholder aliases after construction, with the same
// semantics as WithAliases.
func (r *Router) SetAliases(aliases map[string]string) {
	r.checkMutable()
	WithAliases(aliases)(r)
}

// Use appends global middleware, run before any group or route middleware.
func (r *Router) Use(mw ...Middleware) {
	r.checkMutable()
	for _, m := range mw {
		if m == nil {
			r.recordError(fmt.Errorf("global middleware: %w", ErrNilMiddleware))
			continue
		}
		r.middleware = append(r.middleware, Instance(m))
	}
}

// UseNamed appends global middleware resolved by identifier at request time.
func (r *Router) UseNamed(ids ...string) {
	r.checkMutable()
	for _, id := range ids {
		r.middleware = append(r.middleware, Named(id))
	}
}

// Group declares a group. fn runs once during Build; the routes it
// registers are added after routes registered directly on the router, in
// group declaration order.
func (r *Router) Group(prefix string, fn func(*Group)) *Group {
	return r.newGroup(route.NormalizePath(prefix), noGroup, fn)
}

func (r *Router) newGroup(prefix string, parent int, fn func(*Group)) *Group {
	r.checkMutable()
	g := &Group{
		router: r,
		index:  len(r.groups),
		parent: parent,
		prefix: prefix,
		fn:     fn,
	}
	r.groups = append(r.groups, g)

	return g
}

// Add registers a route for methods. Methods are upper-cased and filtered
// to GET, POST, PUT, PATCH, DELETE, HEAD and OPTIONS; an empty result is a
// configuration error reported by Build.
func (r *Router) Add(methods []string, path string, h HandlerRef) *Route {
	return r.addRoute(methods, route.NormalizePath(path), h, noGroup)
}

func (r *Router) addRoute(methods []string, path string, h HandlerRef, group int) *Route {
	r.checkMutable()
	rt := &Route{
		router:  r,
		path:    path,
		group:   group,
		handler: h,
	}

	sanitized, err := route.SanitizeMethods(methods)
	if err != nil {
		r.recordError(fmt.Errorf("route %s: %w", path, err))
	}
	rt.methods = sanitized

	if h.IsZero() {
		r.recordError(fmt.Errorf("route %s: %w", path, ErrNilHandler))
	}

	r.routes = append(r.routes, rt)

	return rt
}

// Any registers h for every allowed method.
func (r *Router) Any(path string, h Handler) *Route {
	return r.Add(route.AllowedMethods, path, HandlerInstance(h))
}

// GET registers h for GET requests.
func (r *Router) GET(path string, h Handler) *Route {
	return r.Add([]string{http.MethodGet}, path, HandlerInstance(h))
}

// POST registers h for POST requests.
func (r *Router) POST(path string, h Handler) *Route {
	return r.Add([]string{http.MethodPost}, path, HandlerInstance(h))
}

// PUT registers h for PUT requests.
func (r *Router) PUT(path string, h Handler) *Route {
	return r.Add([]string{http.MethodPut}, path, HandlerInstance(h))
}

// PATCH registers h for PATCH requests.
func (r *Router) PATCH(path string, h Handler) *Route {
	return r.Add([]string{http.MethodPatch}, path, HandlerInstance(h))
}

// DELETE registers h for DELETE requests.
func (r *Router) DELETE(path string, h Handler) *Route {
	return r.Add([]string{http.MethodDelete}, path, HandlerInstance(h))
}

// HEAD registers h for HEAD requests.
func (r *Router) HEAD(path string, h Handler) *Route {
	return r.Add([]string{http.MethodHead}, path, HandlerInstance(h))
}

// OPTIONS registers h for OPTIONS requests.
func (r *Router) OPTIONS(path string, h Handler) *Route {
	return r.Add([]string{http.MethodOptions}, path, HandlerInstance(h))
}

// Routes returns the registered routes in registration order. Before Build
// it does not include routes declared inside group callbacks.
func (r *Router) Routes() []*Route {
	return slices.Clone(r.routes)
}

// NamedRoute returns the first route registered with name, building the
// router if needed.
func (r *Router) NamedRoute(name string) (*Route, error) {
	d, err := r.Build()
	if err != nil {
		return nil, err
	}

	return d.NamedRoute(name)
}

// Build expands groups, compiles every template and returns the dispatcher.
// It runs once; later calls return the same dispatcher and error.
// Configuration errors recorded during registration are joined into the
// returned error.
func (r *Router) Build() (*Dispatcher, error) {
	r.buildOnce.Do(func() {
		r.dispatcher, r.buildErr = r.build()
	})

	return r.dispatcher, r.buildErr
}

// MustBuild is like Build but panics on error.
func (r *Router) MustBuild() *Dispatcher {
	d, err := r.Build()
	if err != nil {
		panic(err)
	}

	return d
}

func (r *Router) build() (*Dispatcher, error) {
	// Group callbacks may declare nested groups, which are appended to
	// r.groups and picked up by this loop.
	for i := 0; i < len(r.groups); i++ {
		if fn := r.groups[i].fn; fn != nil {
			fn(r.groups[i])
		}
	}
	r.frozen.Store(true)

	aliases := pattern.DefaultAliases().Merge(r.aliases)
	errs := slices.Clone(r.errs)

	for _, rt := range r.routes {
		if g := rt.Group(); g != nil {
			for _, ancestor := range slices.Backward(g.chain()) {
				rt.conditions = rt.conditions.Inherit(ancestor.conditions)
			}
		}

		p, err := pattern.Compile(rt.path, aliases)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %s: %w", rt.path, err))
			continue
		}
		rt.pattern = p
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		r.logger.Error("router build failed", "errors", len(errs), "error", err)

		return nil, err
	}

	builder := compiler.NewBuilder[*Route](compiler.WithBloomFilter(r.bloomFilterSize, r.bloomHashFunctions))
	names := make(map[string]*Route)
	for _, rt := range r.routes {
		builder.Add(rt.methods, rt.pattern, rt)

		if rt.name == "" {
			continue
		}
		if first, dup := names[rt.name]; dup {
			r.emit(DiagnosticEvent{
				Kind:    DiagDuplicateName,
				Message: "route name already used; the first route keeps it",
				Fields:  map[string]any{"name": rt.name, "path": rt.path, "first_path": first.path},
			})
			continue
		}
		names[rt.name] = rt
	}
	for _, dup := range builder.Duplicates() {
		r.emit(DiagnosticEvent{
			Kind:    DiagDuplicateRoute,
			Message: "route shadowed by an earlier registration",
			Fields:  map[string]any{"method": dup.Method, "path": dup.Template},
		})
	}

	d := &Dispatcher{
		table:      builder.Build(),
		routes:     slices.Clone(r.routes),
		groups:     slices.Clone(r.groups),
		names:      names,
		middleware: slices.Clone(r.middleware),
		resolver:   r.resolver,
		logger:     r.logger,
		observer:   r.observer,
		formatter:  r.formatter,
	}

	static, variable := d.table.Len()
	r.logger.Debug("router built",
		"routes", len(d.routes),
		"groups", len(r.groups),
		"static", static,
		"variable", variable,
	)

	return d, nil
}
