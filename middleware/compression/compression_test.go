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

package compression

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routing"
)

var body = strings.Repeat("routing compresses repetitive payloads well. ", 64)

func serve(t *testing.T, mw routing.Middleware, h routing.HandlerFunc, path, accept string) *httptest.ResponseRecorder {
	t.Helper()

	r := routing.MustNew()
	r.Use(mw)
	r.Any(path, h)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func text(s string) routing.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.Header().Set("Content-Type", "text/plain")
		_, err := io.WriteString(w, s)
		return err
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var rd io.Reader
	switch rec.Header().Get("Content-Encoding") {
	case "br":
		rd = brotli.NewReader(rec.Body)
	case "gzip":
		gr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		rd = gr
	default:
		rd = rec.Body
	}
	out, err := io.ReadAll(rd)
	require.NoError(t, err)

	return string(out)
}

func TestNew_Negotiation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   []Option
		accept string
		want   string
	}{
		{name: "brotli preferred", accept: "gzip, br", want: "br"},
		{name: "gzip only", accept: "gzip", want: "gzip"},
		{name: "gzip rated higher", accept: "br;q=0.5, gzip;q=0.9", want: "gzip"},
		{name: "brotli refused", accept: "br;q=0, gzip", want: "gzip"},
		{name: "brotli disabled", opts: []Option{WithBrotliDisabled()}, accept: "br, gzip", want: "gzip"},
		{name: "gzip disabled", opts: []Option{WithGzipDisabled()}, accept: "gzip", want: ""},
		{name: "identity", accept: "identity", want: ""},
		{name: "no header", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, New(tt.opts...), text(body), "/doc", tt.accept)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, body, decode(t, rec))
			if tt.want != "" {
				assert.Less(t, rec.Body.Len(), len(body))
				assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
			}
		})
	}
}

func TestNew_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		path    string
		handler routing.HandlerFunc
	}{
		{
			name:    "excluded path",
			opts:    []Option{WithExcludePaths("/raw")},
			path:    "/raw",
			handler: text(body),
		},
		{
			name:    "excluded extension",
			opts:    []Option{WithExcludeExtensions(".png")},
			path:    "/logo.png",
			handler: text(body),
		},
		{
			name: "excluded content type",
			opts: []Option{WithExcludeContentTypes("IMAGE/")},
			path: "/img",
			handler: func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
				w.Header().Set("Content-Type", "image/svg+xml")
				_, err := io.WriteString(w, body)
				return err
			},
		},
		{
			name: "event stream",
			path: "/events",
			handler: func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
				w.Header().Set("Content-Type", "text/event-stream")
				w.WriteHeader(http.StatusOK)
				_, err := io.WriteString(w, body)
				return err
			},
		},
		{
			name:    "below min size",
			opts:    []Option{WithMinSize(len(body) + 1)},
			path:    "/small",
			handler: text(body),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, New(tt.opts...), tt.handler, tt.path, "br, gzip")

			assert.Empty(t, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, body, rec.Body.String())
		})
	}
}

func TestNew_MinSizeReached(t *testing.T) {
	t.Parallel()

	h := func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		for chunk := range strings.SplitAfterSeq(body, ". ") {
			if _, err := io.WriteString(w, chunk); err != nil {
				return err
			}
		}
		return nil
	}
	rec := serve(t, New(WithMinSize(256)), h, "/chunks", "gzip")

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, body, decode(t, rec))
}

func TestNew_StatusPreserved(t *testing.T) {
	t.Parallel()

	created := func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.WriteHeader(http.StatusCreated)
		_, err := io.WriteString(w, body)
		return err
	}
	rec := serve(t, New(), created, "/items", "gzip")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, body, decode(t, rec))

	noContent := func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	rec = serve(t, New(), noContent, "/items", "gzip")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))

	accepted := func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.WriteHeader(http.StatusAccepted)
		return nil
	}
	rec = serve(t, New(WithMinSize(64)), accepted, "/items", "gzip")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestNew_HandlerErrorRendered(t *testing.T) {
	t.Parallel()

	failing := func(http.ResponseWriter, *http.Request, routing.Params) error {
		return errors.New("boom")
	}
	rec := serve(t, New(), failing, "/boom", "gzip")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte(`"status":500`)))
}

func TestQValue(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, qValue("gzip, br", "br"), 0)
	assert.InDelta(t, 0.4, qValue("gzip;q=0.8, br;q=0.4", "br"), 1e-9)
	assert.InDelta(t, -1.0, qValue("gzip", "br"), 0)
	assert.InDelta(t, 1.0, qValue("br;q=oops", "br"), 0)
}
