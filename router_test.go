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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routing/route"
)

// ok is a handler that writes nothing and succeeds.
var ok = HandlerFunc(func(http.ResponseWriter, *http.Request, Params) error { return nil })

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

func TestDispatchStatic(t *testing.T) {
	t.Parallel()

	r := MustNew()
	home := r.GET("/", ok)
	about := r.Add([]string{"get", "post"}, "about/", HandlerInstance(ok))
	d := r.MustBuild()

	tests := []struct {
		method string
		path   string
		want   *Route
	}{
		{method: "GET", path: "/", want: home},
		{method: "GET", path: "/about", want: about},
		{method: "POST", path: "/about", want: about},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			m, err := d.Dispatch(tt.method, mustURL(t, tt.path))
			require.NoError(t, err)
			assert.Same(t, tt.want, m.Route)
			assert.Empty(t, m.Params)
			assert.NotNil(t, m.Params)
		})
	}
}

func TestDispatchVariable(t *testing.T) {
	t.Parallel()

	r := MustNew()
	foo := r.GET("/foo/{id:numeric}", ok)
	d := r.MustBuild()

	m, err := d.Dispatch(http.MethodGet, mustURL(t, "/foo/42"))
	require.NoError(t, err)
	assert.Same(t, foo, m.Route)
	assert.Equal(t, Params{"id": "42"}, m.Params)

	_, err = d.Dispatch(http.MethodGet, mustURL(t, "/foo/abc"))
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "/foo/abc", nf.Path)
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus())
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.POST("/x", ok)
	r.GET("/x", ok)
	d := r.MustBuild()

	_, err := d.Dispatch(http.MethodDelete, mustURL(t, "/x"))
	require.ErrorIs(t, err, ErrMethodNotAllowed)

	var mna *MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, []string{"GET", "POST"}, mna.Allowed)
	assert.Equal(t, "GET, POST", mna.Headers().Get("Allow"))
	assert.Equal(t, http.StatusMethodNotAllowed, mna.HTTPStatus())
}

func TestDispatchConditions(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/default-port", ok).SetScheme("https").SetHost("example.com").SetPort(443)
	r.GET("/custom-port", ok).SetScheme("https://").SetHost("example.com").SetPort(8443)
	r.GET("/host-only", ok).SetHost("Example.COM")
	r.GET("/port-without-host", ok).SetPort(9000)
	r.GET("/no-scheme", ok).SetHost("example.com").SetPort(80)
	d := r.MustBuild()

	tests := []struct {
		name   string
		url    string
		wantOK bool
	}{
		{name: "https default port implicit", url: "https://example.com/default-port", wantOK: true},
		{name: "https default port elided", url: "https://example.com:8443/default-port", wantOK: true},
		{name: "wrong scheme", url: "http://example.com/default-port", wantOK: false},
		{name: "wrong host", url: "https://other.com/default-port", wantOK: false},
		{name: "custom port matches", url: "https://example.com:8443/custom-port", wantOK: true},
		{name: "custom port rejects 443", url: "https://example.com:443/custom-port", wantOK: false},
		{name: "custom port rejects implicit 443", url: "https://example.com/custom-port", wantOK: false},
		{name: "host is case-insensitive", url: "http://example.com:1234/host-only", wantOK: true},
		{name: "port without host is ignored", url: "http://anything/port-without-host", wantOK: true},
		{name: "no scheme never elides", url: "https://example.com/no-scheme", wantOK: false},
		{name: "no scheme explicit port", url: "https://example.com:80/no-scheme", wantOK: true},
		{name: "no scheme implicit http port", url: "http://example.com/no-scheme", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := mustURL(t, tt.url)
			_, err := d.Dispatch(http.MethodGet, u)
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestConditionMismatchDoesNotFallThrough(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/items/{id:numeric}", ok).SetHost("a.example.com")
	r.GET("/items/{id}", ok)
	d := r.MustBuild()

	_, err := d.Dispatch(http.MethodGet, mustURL(t, "http://b.example.com/items/1"))
	require.ErrorIs(t, err, ErrNotFound)

	m, err := d.Dispatch(http.MethodGet, mustURL(t, "http://b.example.com/items/x"))
	require.NoError(t, err)
	assert.Equal(t, "/items/{id}", m.Route.Path())
}

func TestDispatchNilURL(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/", ok)
	r.GET("/secure", ok).SetScheme("https")
	d := r.MustBuild()

	_, err := d.Dispatch(http.MethodGet, nil)
	require.NoError(t, err)
}

func TestDispatchIsIdempotent(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/a", ok)
	r.GET("/b/{id:numeric}", ok)

	first, err := r.Build()
	require.NoError(t, err)
	second, err := r.Build()
	require.NoError(t, err)
	assert.Same(t, first, second)

	m1, err := first.Dispatch(http.MethodGet, mustURL(t, "/b/7"))
	require.NoError(t, err)
	m2, err := first.Dispatch(http.MethodGet, mustURL(t, "/b/7"))
	require.NoError(t, err)
	assert.Same(t, m1.Route, m2.Route)
	assert.Equal(t, m1.Params, m2.Params)

	m1.Params["id"] = "mutated"
	assert.Equal(t, "7", m2.Params["id"])
}

func TestRegisterAfterBuildPanics(t *testing.T) {
	t.Parallel()

	r := MustNew()
	rt := r.GET("/a", ok)
	g := r.Group("/g", nil)
	r.MustBuild()

	assert.PanicsWithValue(t, ErrRouterBuilt, func() { r.GET("/b", ok) })
	assert.PanicsWithValue(t, ErrRouterBuilt, func() { r.Use(MiddlewareFunc(nil)) })
	assert.PanicsWithValue(t, ErrRouterBuilt, func() { r.Group("/x", nil) })
	assert.PanicsWithValue(t, ErrRouterBuilt, func() { rt.SetName("late") })
	assert.PanicsWithValue(t, ErrRouterBuilt, func() { g.GET("/c", ok) })
}

func TestDispatchHeadUsesGetRoute(t *testing.T) {
	t.Parallel()

	r := MustNew()
	h := r.GET("/h", ok)
	d := r.MustBuild()

	m, err := d.Dispatch(http.MethodHead, mustURL(t, "/h"))
	require.NoError(t, err)
	assert.Same(t, h, m.Route)
}

func TestDispatchEncodedPath(t *testing.T) {
	t.Parallel()

	r := MustNew()
	enc := r.GET("/enc/{id}", ok)
	d := r.MustBuild()

	m, err := d.Dispatch(http.MethodGet, mustURL(t, "/enc/a%2Fb"))
	require.NoError(t, err)
	assert.Same(t, enc, m.Route)
	assert.Equal(t, Params{"id": "a/b"}, m.Params)

	m, err = d.Dispatch(http.MethodGet, mustURL(t, "/enc/caf%C3%A9"))
	require.NoError(t, err)
	assert.Equal(t, "café", m.Params.Get("id"))

	_, err = d.Dispatch(http.MethodGet, mustURL(t, "/enc/a/b"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNilMiddlewareIsConfigurationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		register func(r *Router)
	}{
		{name: "router", register: func(r *Router) { r.Use(nil) }},
		{name: "group", register: func(r *Router) { r.Group("/g", nil).Use(nil) }},
		{name: "route", register: func(r *Router) { r.GET("/nilmw", ok).Use(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := MustNew()
			tt.register(r)

			_, err := r.Build()
			require.ErrorIs(t, err, ErrNilMiddleware)
		})
	}
}

func TestBuildCollectsConfigurationErrors(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.Add([]string{"TRACE"}, "/method", HandlerInstance(ok))
	r.GET("/scheme", ok).SetScheme("ftp")
	r.GET("/port", ok).SetPort(70000)
	r.GET("/template/{id", ok)
	r.GET("/dup/{a}/{a}", ok)
	r.Add([]string{"GET"}, "/nil", HandlerRef{})
	r.Group("/g", nil).SetPort(0)

	d, err := r.Build()
	require.Error(t, err)
	assert.Nil(t, d)

	assert.ErrorIs(t, err, route.ErrInvalidMethod)
	assert.ErrorIs(t, err, route.ErrInvalidScheme)
	assert.ErrorIs(t, err, route.ErrInvalidPort)
	assert.ErrorIs(t, err, ErrNilHandler)
	assert.Contains(t, err.Error(), "/template/{id")
	assert.Contains(t, err.Error(), "duplicate placeholder")

	_, again := r.Build()
	assert.Equal(t, err, again)
}

func TestNewValidatesOptions(t *testing.T) {
	t.Parallel()

	_, err := New(WithBloomFilterSize(0))
	require.ErrorIs(t, err, ErrBloomFilterSizeZero)

	_, err = New(WithBloomFilterHashFunctions(0))
	require.ErrorIs(t, err, ErrBloomHashFunctionsInvalid)

	assert.Panics(t, func() { MustNew(WithBloomFilterSize(0)) })

	r, err := New(WithLogger(nil), WithResolver(nil), WithErrorFormatter(nil), WithBloomFilterHashFunctions(50))
	require.NoError(t, err)
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.Registry())
	assert.NotNil(t, r.formatter)
	assert.Equal(t, 10, r.bloomHashFunctions)
}

func TestWithAliases(t *testing.T) {
	t.Parallel()

	r := MustNew(
		WithAliases(map[string]string{"slug": `[a-z-]+`}),
		WithAliases(map[string]string{"numeric": `[0-9]{3}`}),
	)
	r.GET("/posts/{slug:slug}", ok)
	r.GET("/codes/{code:numeric}", ok)
	d := r.MustBuild()

	_, err := d.Dispatch(http.MethodGet, mustURL(t, "/posts/hello-world"))
	require.NoError(t, err)
	_, err = d.Dispatch(http.MethodGet, mustURL(t, "/posts/Hello"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = d.Dispatch(http.MethodGet, mustURL(t, "/codes/404"))
	require.NoError(t, err)
	_, err = d.Dispatch(http.MethodGet, mustURL(t, "/codes/4040"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMethodHelpers(t *testing.T) {
	t.Parallel()

	r := MustNew()
	routes := map[string]*Route{
		http.MethodGet:     r.GET("/r", ok),
		http.MethodPost:    r.POST("/r", ok),
		http.MethodPut:     r.PUT("/r", ok),
		http.MethodPatch:   r.PATCH("/r", ok),
		http.MethodDelete:  r.DELETE("/r", ok),
		http.MethodHead:    r.HEAD("/r", ok),
		http.MethodOptions: r.OPTIONS("/r", ok),
	}
	anyRoute := r.Any("/any", ok)
	d := r.MustBuild()

	for method, want := range routes {
		m, err := d.Dispatch(method, mustURL(t, "/r"))
		require.NoError(t, err, method)
		assert.Same(t, want, m.Route)
		assert.Equal(t, []string{method}, want.Methods())
	}
	assert.Equal(t, route.AllowedMethods, anyRoute.Methods())
}

func TestGroups(t *testing.T) {
	t.Parallel()

	var calls int
	r := MustNew()
	r.GET("/before", ok)
	api := r.Group("api/", func(g *Group) {
		calls++
		g.GET("/users/{id:numeric}", ok).SetName("user")
		g.Group("/v2", func(v2 *Group) {
			v2.GET("/users", ok).SetName("v2-users").SetHost("v2.example.com")
		}).SetScheme("https")
	}).SetHost("api.example.com").SetPort(8080)
	r.GET("/after", ok)
	d := r.MustBuild()

	assert.Equal(t, 1, calls)
	_, err := r.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	paths := make([]string, 0, 4)
	for _, rt := range d.Routes() {
		paths = append(paths, rt.Path())
	}
	assert.Equal(t, []string{"/before", "/after", "/api/users/{id:numeric}", "/api/v2/users"}, paths)

	user, err := d.NamedRoute("user")
	require.NoError(t, err)
	assert.Same(t, api, user.Group())
	assert.Equal(t, route.Conditions{Host: "api.example.com", Port: 8080}, user.Conditions())

	v2, err := d.NamedRoute("v2-users")
	require.NoError(t, err)
	assert.Equal(t, route.Conditions{Scheme: "https", Host: "v2.example.com", Port: 8080}, v2.Conditions())
	assert.Same(t, api, v2.Group().Parent())
	assert.Equal(t, "/api/v2", v2.Group().Prefix())

	_, err = d.Dispatch(http.MethodGet, mustURL(t, "http://api.example.com:8080/api/users/1"))
	require.NoError(t, err)
	_, err = d.Dispatch(http.MethodGet, mustURL(t, "http://api.example.com/api/users/1"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateNamesFirstWins(t *testing.T) {
	t.Parallel()

	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	first := r.GET("/one", ok).SetName("dup")
	r.GET("/two", ok).SetName("dup")
	r.GET("/one", ok)
	d := r.MustBuild()

	rt, err := d.NamedRoute("dup")
	require.NoError(t, err)
	assert.Same(t, first, rt)

	require.Len(t, events, 2)
	assert.Equal(t, DiagDuplicateName, events[0].Kind)
	assert.Equal(t, "/two", events[0].Fields["path"])
	assert.Equal(t, DiagDuplicateRoute, events[1].Kind)
	assert.Equal(t, "/one", events[1].Fields["path"])
}

func TestNamedRouteUnknown(t *testing.T) {
	t.Parallel()

	r := MustNew()
	_, err := r.NamedRoute("missing")
	require.ErrorIs(t, err, ErrRouteNotFound)

	var re *RouteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "missing", re.Route)
}

func TestRouteAccessors(t *testing.T) {
	t.Parallel()

	r := MustNew()
	mw := MiddlewareFunc(func(w http.ResponseWriter, req *http.Request, next Next) error { return next.Handle(w, req) })
	rt := r.Add([]string{"post", "GET"}, "/a/{b}", NamedHandler("h")).Use(mw).UseNamed("auth")

	assert.Nil(t, rt.Pattern())
	r.MustBuild()

	assert.Equal(t, "/a/{b}", rt.Path())
	assert.Equal(t, []string{"POST", "GET"}, rt.Methods())
	assert.Equal(t, "h", rt.Handler().String())
	assert.Nil(t, rt.Group())
	require.NotNil(t, rt.Pattern())
	assert.Equal(t, []string{"b"}, rt.Pattern().ParamNames)
	assert.Equal(t, "[POST GET] /a/{b}", rt.String())

	refs := rt.Middleware()
	require.Len(t, refs, 2)
	assert.False(t, refs[0].IsNamed())
	assert.True(t, refs[1].IsNamed())
	assert.Equal(t, "auth", refs[1].String())
}
