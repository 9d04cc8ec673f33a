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

//go:build integration

package accesslog_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/routing"
	"rivaas.dev/routing/middleware/accesslog"
	"rivaas.dev/routing/middleware/compression"
	"rivaas.dev/routing/middleware/recovery"
	"rivaas.dev/routing/middleware/requestid"
	"rivaas.dev/routing/middleware/timeout"
)

type logRecord struct {
	level slog.Level
	attrs map[string]any
}

type captureHandler struct {
	mu      sync.Mutex
	records []logRecord
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.records = append(h.records, logRecord{level: r.Level, attrs: attrs})

	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) last() logRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	Expect(h.records).NotTo(BeEmpty())
	return h.records[len(h.records)-1]
}

var _ = Describe("AccessLog Integration", Label("integration", "accesslog"), func() {
	var (
		logs   *captureHandler
		router *routing.Router
	)

	serve := func(method, path string, header http.Header) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for k, vs := range header {
			req.Header[k] = vs
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		logs = &captureHandler{}
		router = routing.MustNew()
		router.Use(
			requestid.New(),
			accesslog.New(accesslog.WithLogger(slog.New(logs))),
			recovery.New(recovery.WithoutLogging()),
			timeout.New(timeout.WithDuration(50*time.Millisecond)),
			compression.New(),
		)

		router.GET("/articles/{slug}", routing.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, p routing.Params) error {
			w.Header().Set("Content-Type", "text/plain")
			_, err := io.WriteString(w, strings.Repeat(p.Get("slug")+" ", 200))
			return err
		})).SetName("article.show")
		router.GET("/panic", routing.HandlerFunc(func(http.ResponseWriter, *http.Request, routing.Params) error {
			panic("boom")
		}))
		router.GET("/slow", routing.HandlerFunc(func(_ http.ResponseWriter, r *http.Request, _ routing.Params) error {
			<-r.Context().Done()
			return r.Context().Err()
		}))
	})

	Describe("with RequestID", func() {
		It("logs the ID sent in the response header", func() {
			rec := serve(http.MethodGet, "/articles/go", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			id := rec.Header().Get(requestid.DefaultHeader)
			Expect(id).NotTo(BeEmpty())

			entry := logs.last()
			Expect(entry.level).To(Equal(slog.LevelInfo))
			Expect(entry.attrs).To(HaveKeyWithValue("request_id", id))
			Expect(entry.attrs).To(HaveKeyWithValue("route", "/articles/{slug}"))
			Expect(entry.attrs).To(HaveKeyWithValue("route_name", "article.show"))
		})
	})

	Describe("with Compression", func() {
		It("logs the compressed size", func() {
			rec := serve(http.MethodGet, "/articles/go", http.Header{"Accept-Encoding": {"gzip"}})

			Expect(rec.Header().Get("Content-Encoding")).To(Equal("gzip"))
			entry := logs.last()
			Expect(entry.attrs["bytes"]).To(BeNumerically("<", len("go ")*200))
			Expect(entry.attrs["bytes"]).To(BeNumerically("==", rec.Body.Len()))
		})
	})

	Describe("with Recovery", func() {
		It("logs a recovered panic as a server error", func() {
			rec := serve(http.MethodGet, "/panic", nil)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			entry := logs.last()
			Expect(entry.level).To(Equal(slog.LevelError))
			Expect(entry.attrs).To(HaveKeyWithValue("status", int64(http.StatusInternalServerError)))
			Expect(entry.attrs["error"]).To(ContainSubstring("boom"))
		})
	})

	Describe("with Timeout", func() {
		It("logs the timeout response", func() {
			rec := serve(http.MethodGet, "/slow", nil)

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			entry := logs.last()
			Expect(entry.level).To(Equal(slog.LevelError))
			Expect(entry.attrs).To(HaveKeyWithValue("status", int64(http.StatusServiceUnavailable)))
		})
	})

	Describe("unmatched requests", func() {
		It("does not reach route middleware", func() {
			rec := serve(http.MethodGet, "/missing", nil)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			logs.mu.Lock()
			defer logs.mu.Unlock()
			Expect(logs.records).To(BeEmpty())
		})
	})
})
