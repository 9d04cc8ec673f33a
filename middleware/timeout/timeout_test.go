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

package timeout

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routing"
	"rivaas.dev/routing/middleware/recovery"
)

func slow(d time.Duration) routing.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ routing.Params) error {
		select {
		case <-time.After(d):
			_, err := io.WriteString(w, "late")
			return err
		case <-r.Context().Done():
			return r.Context().Err()
		}
	}
}

func TestNew_CompletesInTime(t *testing.T) {
	t.Parallel()

	r := routing.MustNew()
	r.Use(New(WithDuration(time.Second)))
	r.GET("/fast", routing.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, _ routing.Params) error {
		w.Header().Set("X-Handler", "yes")
		w.WriteHeader(http.StatusCreated)
		_, err := io.WriteString(w, "ok")
		return err
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Handler"))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNew_TimesOut(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	var chainErr error
	r := routing.MustNew()
	r.Use(routing.MiddlewareFunc(func(w http.ResponseWriter, req *http.Request, next routing.Next) error {
		chainErr = next.Handle(w, req)
		return chainErr
	}))
	r.Use(New(
		WithDuration(20*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	))
	r.GET("/slow", slow(time.Second))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	assert.Contains(t, rec.Body.String(), `"timeout"`)
	assert.NotContains(t, rec.Body.String(), "late")
	assert.Contains(t, logs.String(), "request timeout")

	require.Error(t, chainErr)
	require.ErrorIs(t, chainErr, ErrTimeout)
	require.ErrorIs(t, chainErr, context.DeadlineExceeded)
	var terr *Error
	require.ErrorAs(t, chainErr, &terr)
	assert.Equal(t, 20*time.Millisecond, terr.Timeout)
}

func TestNew_LateWritesRejected(t *testing.T) {
	t.Parallel()

	writeErr := make(chan error, 1)
	r := routing.MustNew()
	r.Use(New(WithDuration(10 * time.Millisecond)))
	r.GET("/stubborn", routing.HandlerFunc(func(w http.ResponseWriter, req *http.Request, _ routing.Params) error {
		<-req.Context().Done()
		_, err := io.WriteString(w, "too late")
		writeErr <- err
		return nil
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stubborn", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.ErrorIs(t, <-writeErr, http.ErrHandlerTimeout)
	assert.NotContains(t, rec.Body.String(), "too late")
}

func TestNew_CustomHandler(t *testing.T) {
	t.Parallel()

	r := routing.MustNew()
	r.Use(New(
		WithDuration(10*time.Millisecond),
		WithHandler(func(w http.ResponseWriter, _ *http.Request, err *Error) {
			w.WriteHeader(http.StatusGatewayTimeout)
			_, _ = io.WriteString(w, err.Error())
		}),
	))
	r.GET("/slow", slow(time.Second))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "request exceeded 10ms timeout", rec.Body.String())
}

func TestNew_Skip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
		path string
	}{
		{name: "exact path", opt: WithSkipPaths("/stream"), path: "/stream"},
		{name: "prefix", opt: WithSkipPrefix("/stream"), path: "/stream/1"},
		{name: "suffix", opt: WithSkipSuffix("/ws"), path: "/chat/ws"},
		{name: "func", opt: WithSkip(func(r *http.Request) bool { return r.Header.Get("X-No-Timeout") != "" }), path: "/any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := routing.MustNew()
			r.Use(New(WithDuration(5*time.Millisecond), tt.opt))
			r.GET(tt.path, slow(30*time.Millisecond))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("X-No-Timeout", "1")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "late", rec.Body.String())
		})
	}
}

func TestNew_PanicReachesRecovery(t *testing.T) {
	t.Parallel()

	var recovered error
	r := routing.MustNew()
	r.Use(routing.MiddlewareFunc(func(w http.ResponseWriter, req *http.Request, next routing.Next) error {
		recovered = next.Handle(w, req)
		return recovered
	}))
	r.Use(recovery.New(recovery.WithoutLogging()), New(WithDuration(time.Second)))
	r.GET("/panic", routing.HandlerFunc(func(http.ResponseWriter, *http.Request, routing.Params) error {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.ErrorIs(t, recovered, recovery.ErrPanic)
}

func TestError(t *testing.T) {
	t.Parallel()

	err := &Error{Timeout: time.Second}
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())
	assert.Equal(t, "timeout", err.Code())
	assert.False(t, errors.Is(err, context.Canceled))
}
