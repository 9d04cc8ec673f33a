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

package compiler

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/routing/pattern"
)

const (
	defaultBloomFilterSize    = 1000
	defaultBloomHashFunctions = 3

	// minStaticForBloom is the static route count below which the map is
	// probed directly.
	minStaticForBloom = 10
)

// Outcome is the kind of result produced by Table.Match.
type Outcome int

const (
	// NotFound means no route accepts the path for any method.
	NotFound Outcome = iota
	// Found means a route accepts the method and path.
	Found
	// MethodNotAllowed means the path is routed, but not for this method.
	MethodNotAllowed
)

// String returns a lowercase name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Result is returned by Table.Match.
type Result[T any] struct {
	Outcome Outcome
	Value   T                 // set when Outcome is Found
	Params  map[string]string // fresh per match; empty for static routes
	Allowed []string          // sorted; set when Outcome is MethodNotAllowed
}

// Duplicate records a registration that can never match because an earlier
// one has the same method and template.
type Duplicate struct {
	Method   string
	Template string
}

type entry[T any] struct {
	pattern *pattern.Pattern
	value   T
}

// Option configures a Builder.
type Option func(*settings)

type settings struct {
	bloomSize      uint64
	bloomHashFuncs int
}

// WithBloomFilter sets the bloom filter size in bits and the number of hash
// functions. Zero size keeps the default; the hash count is clamped to 1..10.
func WithBloomFilter(size uint64, hashFuncs int) Option {
	return func(s *settings) {
		if size > 0 {
			s.bloomSize = size
		}
		s.bloomHashFuncs = max(1, min(hashFuncs, 10))
	}
}

// Builder collects routes. It is not safe for concurrent use.
type Builder[T any] struct {
	settings   settings
	static     map[string]map[string]T
	variable   map[string][]entry[T]
	seen       map[string]map[string]struct{} // method -> template
	duplicates []Duplicate
}

// NewBuilder returns an empty builder.
func NewBuilder[T any](opts ...Option) *Builder[T] {
	b := &Builder[T]{
		settings: settings{
			bloomSize:      defaultBloomFilterSize,
			bloomHashFuncs: defaultBloomHashFunctions,
		},
		static:   make(map[string]map[string]T),
		variable: make(map[string][]entry[T]),
		seen:     make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(&b.settings)
	}

	return b
}

// Add registers v under every method for pattern p. Methods are expected
// to be sanitised already. A method and template pair that was added before
// is recorded as a duplicate and otherwise ignored, so the first
// registration wins.
func (b *Builder[T]) Add(methods []string, p *pattern.Pattern, v T) {
	for _, method := range methods {
		templates := b.seen[method]
		if templates == nil {
			templates = make(map[string]struct{})
			b.seen[method] = templates
		}
		if _, dup := templates[p.Template]; dup {
			b.duplicates = append(b.duplicates, Duplicate{Method: method, Template: p.Template})
			continue
		}
		templates[p.Template] = struct{}{}

		if p.Static() {
			byPath := b.static[method]
			if byPath == nil {
				byPath = make(map[string]T)
				b.static[method] = byPath
			}
			byPath[p.Template] = v

			continue
		}
		b.variable[method] = append(b.variable[method], entry[T]{pattern: p, value: v})
	}
}

// Duplicates returns the registrations ignored by Add, in the order seen.
func (b *Builder[T]) Duplicates() []Duplicate {
	return slices.Clone(b.duplicates)
}

// Build returns an immutable table. The builder may keep being used; later
// additions do not affect tables already built.
func (b *Builder[T]) Build() *Table[T] {
	t := &Table[T]{
		static:   make(map[string]map[string]T, len(b.static)),
		variable: make(map[string][]entry[T], len(b.variable)),
	}

	methods := make(map[string]struct{})
	paths := make(map[string]struct{})
	for method, byPath := range b.static {
		t.static[method] = maps.Clone(byPath)
		methods[method] = struct{}{}
		for path := range byPath {
			paths[path] = struct{}{}
		}
		t.staticCount += len(byPath)
	}
	for method, entries := range b.variable {
		t.variable[method] = slices.Clone(entries)
		methods[method] = struct{}{}
		t.variableCount += len(entries)
	}
	t.methods = slices.Sorted(maps.Keys(methods))

	if len(paths) >= minStaticForBloom {
		t.bloom = newBloomFilter(b.settings.bloomSize, b.settings.bloomHashFuncs)
		for path := range paths {
			t.bloom.add(path)
		}
	}

	return t
}

// Table is a compiled, read-only route table.
type Table[T any] struct {
	static        map[string]map[string]T
	variable      map[string][]entry[T]
	methods       []string
	bloom         *bloomFilter
	staticCount   int
	variableCount int
}

// Len returns the number of static and variable entries, counted per method.
func (t *Table[T]) Len() (static, variable int) {
	return t.staticCount, t.variableCount
}

// Methods returns the sorted methods that have at least one route.
func (t *Table[T]) Methods() []string {
	return slices.Clone(t.methods)
}

// Match resolves method and path. Path comparison is case-sensitive.
// HEAD falls back to the GET route when no HEAD route matches.
func (t *Table[T]) Match(method, path string) Result[T] {
	method = strings.ToUpper(method)
	maybeStatic := t.bloom == nil || t.bloom.test(path)

	if v, params, ok := t.lookup(method, path, maybeStatic); ok {
		return Result[T]{Outcome: Found, Value: v, Params: params}
	}
	if method == http.MethodHead {
		if v, params, ok := t.lookup(http.MethodGet, path, maybeStatic); ok {
			return Result[T]{Outcome: Found, Value: v, Params: params}
		}
	}

	var allowed []string
	for _, m := range t.methods {
		if m == method {
			continue
		}
		if _, _, ok := t.lookup(m, path, maybeStatic); ok {
			allowed = append(allowed, m)
		}
	}
	if len(allowed) > 0 {
		return Result[T]{Outcome: MethodNotAllowed, Allowed: allowed}
	}

	return Result[T]{Outcome: NotFound}
}

func (t *Table[T]) lookup(method, path string, maybeStatic bool) (T, map[string]string, bool) {
	if maybeStatic {
		if v, ok := t.static[method][path]; ok {
			return v, map[string]string{}, true
		}
	}
	for _, e := range t.variable[method] {
		if params, ok := e.pattern.Match(path); ok {
			return e.value, params, true
		}
	}

	var zero T

	return zero, nil, false
}
