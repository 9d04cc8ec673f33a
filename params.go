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

import "context"

// Params maps placeholder names to the path-decoded values captured from the
// request path.
type Params map[string]string

// Get returns the value for name, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Lookup returns the value for name and whether it was captured.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

type matchKey struct{}

// withMatch stores the match on ctx for handlers and middleware.
func withMatch(ctx context.Context, m *Match) context.Context {
	return context.WithValue(ctx, matchKey{}, m)
}

// MatchFromContext returns the match of the request being served.
func MatchFromContext(ctx context.Context) (*Match, bool) {
	m, ok := ctx.Value(matchKey{}).(*Match)
	return m, ok
}

// ParamsFromContext returns the captured parameters, or nil outside a
// matched request.
func ParamsFromContext(ctx context.Context) Params {
	if m, ok := MatchFromContext(ctx); ok {
		return m.Params
	}

	return nil
}

// RouteFromContext returns the matched route, or nil.
func RouteFromContext(ctx context.Context) *Route {
	if m, ok := MatchFromContext(ctx); ok {
		return m.Route
	}

	return nil
}
