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

package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/routing"
)

// DefaultHeader carries the request ID.
const DefaultHeader = "X-Request-ID"

type contextKey struct{}

// Option configures the middleware.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    DefaultHeader,
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 returns a time-ordered UUID (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithHeader sets the header read from the request and written to the
// response.
func WithHeader(name string) Option {
	return func(cfg *config) {
		cfg.headerName = http.CanonicalHeaderKey(name)
	}
}

// WithGenerator replaces the ID generator.
func WithGenerator(gen func() string) Option {
	return func(cfg *config) {
		if gen != nil {
			cfg.generator = gen
		}
	}
}

// WithULID generates 26-character ULIDs instead of UUIDs.
func WithULID() Option {
	return WithGenerator(generateULID)
}

// WithAllowClientID controls whether an ID sent by the client is reused.
// Defaults to true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}

// New returns the request ID middleware.
func New(opts ...Option) routing.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) error {
		var id string
		if cfg.allowClientID {
			id = r.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		w.Header().Set(cfg.headerName, id)

		return next.Handle(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// Get returns the request ID stored in ctx, or "".
func Get(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
