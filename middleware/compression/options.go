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
	"compress/gzip"
	"log/slog"

	"rivaas.dev/routing"
)

// Option configures the compression middleware.
type Option func(*config)

type config struct {
	logger              *slog.Logger
	gzipLevel           int
	brotliLevel         int
	minSize             int
	enableGzip          bool
	enableBrotli        bool
	excludePaths        map[string]bool
	excludeExtensions   []string
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		logger:       routing.NoopLogger(),
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4,
		enableGzip:   true,
		enableBrotli: true,
		excludePaths: make(map[string]bool),
	}
}

// WithGzipLevel sets the gzip level, from gzip.HuffmanOnly to
// gzip.BestCompression. Out of range values fall back to the default.
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		if level < gzip.HuffmanOnly || level > gzip.BestCompression {
			level = gzip.DefaultCompression
		}
		cfg.gzipLevel = level
	}
}

// WithBrotliLevel sets the Brotli level, clamped to [0, 11]. For dynamic
// content 4 or 5 is a good trade-off; higher levels are CPU-expensive.
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		cfg.brotliLevel = max(0, min(level, 11))
	}
}

// WithBrotliDisabled restricts compression to gzip.
func WithBrotliDisabled() Option {
	return func(cfg *config) {
		cfg.enableBrotli = false
	}
}

// WithGzipDisabled restricts compression to Brotli.
func WithGzipDisabled() Option {
	return func(cfg *config) {
		cfg.enableGzip = false
	}
}

// WithMinSize buffers up to size bytes before deciding to compress. Bodies
// smaller than size are sent as is. Zero, the default, compresses
// everything.
func WithMinSize(size int) Option {
	return func(cfg *config) {
		cfg.minSize = max(0, size)
	}
}

// WithExcludePaths skips compression for exact request paths.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludeExtensions skips compression for paths ending in one of the
// extensions, e.g. ".png" or ".gz".
func WithExcludeExtensions(extensions ...string) Option {
	return func(cfg *config) {
		cfg.excludeExtensions = append(cfg.excludeExtensions, extensions...)
	}
}

// WithExcludeContentTypes skips compression when the response Content-Type
// contains one of the given values. Matching is case-insensitive.
func WithExcludeContentTypes(contentTypes ...string) Option {
	return func(cfg *config) {
		cfg.excludeContentTypes = append(cfg.excludeContentTypes, contentTypes...)
	}
}

// WithLogger sets the logger for finalization errors.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
