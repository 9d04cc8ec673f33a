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
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFromName(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/foo/{id:numeric}", ok).SetName("foo")
	r.GET("/about", ok).SetName("about")
	r.GET("/users/{uid}/posts/{pid:numeric}", ok).SetName("post")

	tests := []struct {
		name        string
		route       string
		params      map[string]string
		want        string
		wantMissing string
	}{
		{name: "substitutes", route: "foo", params: map[string]string{"id": "123"}, want: "/foo/123"},
		{name: "missing param", route: "foo", params: map[string]string{}, wantMissing: "id"},
		{name: "nil params", route: "foo", wantMissing: "id"},
		{name: "literal needs no params", route: "about", want: "/about"},
		{name: "extra params ignored", route: "about", params: map[string]string{"x": "1"}, want: "/about"},
		{name: "first missing reported", route: "post", params: map[string]string{}, wantMissing: "uid"},
		{name: "second missing reported", route: "post", params: map[string]string{"uid": "u"}, wantMissing: "pid"},
		{name: "two params", route: "post", params: map[string]string{"uid": "u", "pid": "9"}, want: "/users/u/posts/9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.PathFromName(tt.route, tt.params)
			if tt.wantMissing != "" {
				require.ErrorIs(t, err, ErrMissingParam)

				var missing *MissingParamError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.wantMissing, missing.Param)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathFromNameUnknown(t *testing.T) {
	t.Parallel()

	r := MustNew()
	_, err := r.PathFromName("nope", nil)
	require.ErrorIs(t, err, ErrRouteNotFound)

	_, err = r.URL("nope", nil, nil)
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestPathFromNameBuildError(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.Add(nil, "/x", HandlerInstance(ok)).SetName("x")

	_, err := r.PathFromName("x", nil)
	require.Error(t, err)
	_, err = r.URL("x", nil, nil)
	require.Error(t, err)
	_, err = r.NamedRoute("x")
	require.Error(t, err)
}

func TestURL(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/search/{kind:alpha}", ok).SetName("search")

	got, err := r.URL("search", map[string]string{"kind": "books"}, url.Values{"q": {"go lang"}, "page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "/search/books?page=2&q=go+lang", got)

	got, err = r.URL("search", map[string]string{"kind": "books"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/search/books", got)

	_, err = r.URL("search", nil, url.Values{"q": {"x"}})
	require.ErrorIs(t, err, ErrMissingParam)
}

func TestParams(t *testing.T) {
	t.Parallel()

	p := Params{"id": "1"}
	assert.Equal(t, "1", p.Get("id"))
	assert.Empty(t, p.Get("nope"))

	v, found := p.Lookup("id")
	assert.True(t, found)
	assert.Equal(t, "1", v)
	_, found = p.Lookup("nope")
	assert.False(t, found)

	ctx := context.Background()
	assert.Nil(t, ParamsFromContext(ctx))
	assert.Nil(t, RouteFromContext(ctx))

	m := &Match{Params: p}
	got, found := MatchFromContext(withMatch(ctx, m))
	assert.True(t, found)
	assert.Same(t, m, got)
}
