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

// Package routing matches HTTP requests to registered routes, runs an
// ordered middleware chain around the matched handler, and builds paths
// back from route names.
//
// # Registration and build
//
// A Router collects routes, groups and global middleware:
//
//	r := routing.MustNew()
//	r.Use(logRequests)
//	r.GET("/", home)
//	r.GET("/foo/{id:numeric}", showFoo).SetName("foo")
//	r.Group("/admin", func(g *routing.Group) {
//	    g.Use(requireAdmin)
//	    g.POST("/users", createUser)
//	}).SetScheme("https")
//
// Build compiles every template once and returns an immutable *Dispatcher.
// Registration errors (unknown methods, bad schemes or ports, malformed
// templates) are collected and returned together by Build. ServeHTTP builds
// on first use.
//
// # Matching
//
// Static paths are looked up first. Variable paths are then tried in
// registration order and the first match wins, so register specific
// patterns before general ones. Placeholders default to one or more non-slash
// characters; {name:alias} uses an alias (numeric, alpha, alphanum,
// alphanum_dash, or one added with WithAliases) and {name:regex} a raw
// expression.
//
// Scheme, host and port conditions are checked after a route matched. A
// mismatch yields a *NotFoundError; sibling routes are not tried.
//
// # Middleware
//
// For each request a fresh Queue runs global middleware, then the
// middleware of the enclosing groups from the outermost in, then the
// route's own middleware, and finally the route handler. Middleware may be
// referenced by identifier (UseNamed) and is then resolved through the
// router's Resolver right before it runs.
//
// # Reverse routing
//
//	path, err := r.PathFromName("foo", map[string]string{"id": "123"}) // "/foo/123"
//
// A missing value is reported as *MissingParamError naming the first
// unresolved placeholder.
package routing
