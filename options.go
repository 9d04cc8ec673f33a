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

	"rivaas.dev/routing/problem"
)

// Option configures a Router.
type Option func(*Router)

// WithAliases adds placeholder aliases, merged over the built-in ones
// (numeric, alpha, alphanum, alphanum_dash). Later calls override earlier
// ones for the same name.
//
// Example:
//
//	r := routing.MustNew(routing.WithAliases(map[string]string{"slug": `[a-z0-9-]+`}))
//	r.GET("/posts/{slug:slug}", showPost)
func WithAliases(aliases map[string]string) Option {
	return func(r *Router) {
		if r.aliases == nil {
			r.aliases = make(map[string]string, len(aliases))
		}
		for name, expr := range aliases {
			r.aliases[name] = expr
		}
	}
}

// WithResolver sets the resolver for named handlers and middleware.
// The default is an empty *Registry.
func WithResolver(res Resolver) Option {
	return func(r *Router) {
		r.resolver = res
	}
}

// WithLogger sets the logger. Build logs a summary at debug level and
// ServeHTTP logs server errors at error level. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDiagnostics sets a handler for build-time diagnostic events such as
// duplicate route names.
//
// Example:
//
//	handler := routing.DiagnosticHandlerFunc(func(e routing.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := routing.MustNew(routing.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithObserver sets the request observer used by ServeHTTP.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		r.observer = o
	}
}

// WithErrorFormatter sets how ServeHTTP renders errors. The default is an
// RFC 9457 problem formatter.
func WithErrorFormatter(f problem.Formatter) Option {
	return func(r *Router) {
		r.formatter = f
	}
}

// WithBloomFilterSize sets the bit count of the bloom filter guarding
// static route lookups. Zero is rejected by New.
func WithBloomFilterSize(size uint64) Option {
	return func(r *Router) {
		r.bloomFilterSize = size
	}
}

// WithBloomFilterHashFunctions sets the number of bloom filter hash
// functions, clamped to at most 10. Values below one are rejected by New.
func WithBloomFilterHashFunctions(numFuncs int) Option {
	return func(r *Router) {
		r.bloomHashFunctions = min(numFuncs, 10)
	}
}
