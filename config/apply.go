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

package config

import (
	"errors"
	"net/http"

	"rivaas.dev/routing"
)

// Apply registers f on r: aliases first, then global middleware, then
// routes, then groups. Handlers and middleware are registered as named
// references. Invalid values are reported by r.Build like any other
// registration error. Applying to a built router returns an error.
func Apply(r *routing.Router, f *File) (err error) {
	if f == nil {
		return NewError("apply", "apply", errors.New("nil route file"))
	}

	defer func() {
		if rec := recover(); rec != nil {
			if rec != routing.ErrRouterBuilt { //nolint:errorlint // panic value identity
				panic(rec)
			}
			err = NewError("apply", "apply", routing.ErrRouterBuilt)
		}
	}()

	if len(f.Aliases) > 0 {
		r.SetAliases(f.Aliases)
	}
	if len(f.Middleware) > 0 {
		r.UseNamed(f.Middleware...)
	}
	for i := range f.Routes {
		applyRoute(r.Add, &f.Routes[i])
	}
	for i := range f.Groups {
		g := &f.Groups[i]
		applyGroup(r.Group(g.Prefix, groupCallback(g)), g)
	}

	return nil
}

type addFunc func(methods []string, path string, h routing.HandlerRef) *routing.Route

func applyRoute(add addFunc, rc *Route) {
	methods := rc.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	rt := add(methods, rc.Path, routing.NamedHandler(rc.Handler))
	if rc.Name != "" {
		rt.SetName(rc.Name)
	}
	if len(rc.Middleware) > 0 {
		rt.UseNamed(rc.Middleware...)
	}
	if rc.Scheme != "" {
		rt.SetScheme(rc.Scheme)
	}
	if rc.Host != "" {
		rt.SetHost(rc.Host)
	}
	if rc.Port != 0 {
		rt.SetPort(rc.Port)
	}
}

func applyGroup(g *routing.Group, gc *Group) {
	if len(gc.Middleware) > 0 {
		g.UseNamed(gc.Middleware...)
	}
	if gc.Scheme != "" {
		g.SetScheme(gc.Scheme)
	}
	if gc.Host != "" {
		g.SetHost(gc.Host)
	}
	if gc.Port != 0 {
		g.SetPort(gc.Port)
	}
}

func groupCallback(gc *Group) func(*routing.Group) {
	return func(g *routing.Group) {
		for i := range gc.Routes {
			applyRoute(g.Add, &gc.Routes[i])
		}
		for i := range gc.Groups {
			child := &gc.Groups[i]
			applyGroup(g.Group(child.Prefix, groupCallback(child)), child)
		}
	}
}
