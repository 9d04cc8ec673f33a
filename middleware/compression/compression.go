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
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"rivaas.dev/routing"
)

const (
	encodingBrotli = "br"
	encodingGzip   = "gzip"
)

// New returns the compression middleware.
func New(opts ...Option) routing.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return routing.MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next routing.Next) error {
		if cfg.skipPath(r.URL.Path) || w.Header().Get("Content-Encoding") != "" {
			return next.Handle(w, r)
		}

		encoding := chooseEncoding(r.Header.Get("Accept-Encoding"), cfg)
		if encoding == "" {
			return next.Handle(w, r)
		}

		w.Header().Add("Vary", "Accept-Encoding")

		cw := &compressWriter{
			ResponseWriter: w,
			cfg:            cfg,
			encoding:       encoding,
			statusCode:     http.StatusOK,
		}
		if cfg.minSize > 0 {
			cw.buffer = make([]byte, 0, cfg.minSize)
		}

		err := next.Handle(cw, r)
		if closeErr := cw.Close(); closeErr != nil {
			cfg.logger.ErrorContext(r.Context(), "compression finalization failed", "error", closeErr)
		}

		return err
	})
}

func (cfg *config) skipPath(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, ext := range cfg.excludeExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// compressWriter defers the status line until it knows whether the body is
// compressed, because Content-Encoding must be set before it.
type compressWriter struct {
	http.ResponseWriter
	cfg      *config
	encoding string
	writer   io.WriteCloser

	buffer      []byte
	statusCode  int
	headersSent bool
	decided     bool
	compress    bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.headersSent || cw.decided {
		return
	}
	cw.statusCode = code

	if skipStatus(code) || skipContentType(cw.Header().Get("Content-Type"), cw.cfg.excludeContentTypes) ||
		cw.Header().Get("Content-Encoding") != "" {
		cw.decided = true
		cw.sendHeader()
	}
}

func (cw *compressWriter) Write(data []byte) (int, error) {
	if !cw.decided && skipContentType(cw.Header().Get("Content-Type"), cw.cfg.excludeContentTypes) {
		cw.decided = true
		cw.sendHeader()
	}

	if cw.decided {
		if cw.compress {
			return cw.writer.Write(data)
		}
		cw.sendHeader()

		return cw.ResponseWriter.Write(data)
	}

	if cw.cfg.minSize == 0 {
		cw.startCompression()
		return cw.writer.Write(data)
	}

	space := cap(cw.buffer) - len(cw.buffer)
	if len(data) < space {
		cw.buffer = append(cw.buffer, data...)
		return len(data), nil
	}

	// Threshold reached.
	cw.startCompression()
	if _, err := cw.writer.Write(cw.buffer); err != nil {
		return 0, err
	}
	cw.buffer = cw.buffer[:0]

	return cw.writer.Write(data)
}

// Flush pushes compressed data to the client.
func (cw *compressWriter) Flush() {
	if !cw.decided {
		cw.startCompression()
		if len(cw.buffer) > 0 {
			_, _ = cw.writer.Write(cw.buffer)
			cw.buffer = cw.buffer[:0]
		}
	}
	if f, ok := cw.writer.(interface{ Flush() error }); ok && cw.compress {
		_ = f.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

func (cw *compressWriter) sendHeader() {
	if cw.headersSent {
		return
	}
	cw.headersSent = true
	cw.ResponseWriter.WriteHeader(cw.statusCode)
}

func (cw *compressWriter) startCompression() {
	cw.decided = true
	cw.compress = true

	h := cw.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", cw.encoding)
	cw.sendHeader()

	switch cw.encoding {
	case encodingBrotli:
		bw := brotliPool(cw.cfg.brotliLevel).Get().(*brotli.Writer)
		bw.Reset(cw.ResponseWriter)
		cw.writer = bw
	default:
		gw := gzipPool(cw.cfg.gzipLevel).Get().(*gzip.Writer)
		gw.Reset(cw.ResponseWriter)
		cw.writer = gw
	}
}

// Close writes any buffered small body uncompressed, or finishes the
// compressed stream and returns the encoder to its pool.
func (cw *compressWriter) Close() error {
	if !cw.decided {
		cw.decided = true
		if len(cw.buffer) == 0 && !cw.headersSent && cw.statusCode == http.StatusOK {
			// Nothing written; leave the response to the caller.
			return nil
		}
		cw.sendHeader()
		if len(cw.buffer) > 0 {
			_, err := cw.ResponseWriter.Write(cw.buffer)
			return err
		}

		return nil
	}
	if !cw.compress || cw.writer == nil {
		return nil
	}

	err := cw.writer.Close()
	switch w := cw.writer.(type) {
	case *brotli.Writer:
		w.Reset(io.Discard)
		brotliPool(cw.cfg.brotliLevel).Put(w)
	case *gzip.Writer:
		w.Reset(io.Discard)
		gzipPool(cw.cfg.gzipLevel).Put(w)
	}
	cw.writer = nil

	return err
}

func skipStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		code == http.StatusPartialContent
}

func skipContentType(ct string, excludes []string) bool {
	if ct == "" {
		return false
	}
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "text/event-stream") ||
		strings.Contains(ct, "application/grpc") ||
		strings.Contains(ct, "application/octet-stream") {
		return true
	}
	for _, ex := range excludes {
		if strings.Contains(ct, strings.ToLower(ex)) {
			return true
		}
	}

	return false
}

var (
	poolsMu     sync.Mutex
	gzipPools   = make(map[int]*sync.Pool)
	brotliPools = make(map[int]*sync.Pool)
)

func gzipPool(level int) *sync.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()

	p, ok := gzipPools[level]
	if !ok {
		p = &sync.Pool{New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		}}
		gzipPools[level] = p
	}

	return p
}

func brotliPool(level int) *sync.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()

	p, ok := brotliPools[level]
	if !ok {
		p = &sync.Pool{New: func() any {
			return brotli.NewWriterLevel(io.Discard, level)
		}}
		brotliPools[level] = p
	}

	return p
}

// chooseEncoding picks Brotli or gzip from an Accept-Encoding header.
// Brotli wins ties.
func chooseEncoding(acceptEncoding string, cfg *config) string {
	if acceptEncoding == "" {
		return ""
	}
	ae := strings.ToLower(acceptEncoding)
	brQ := qValue(ae, encodingBrotli)
	gzQ := qValue(ae, encodingGzip)

	switch {
	case cfg.enableBrotli && brQ > 0 && brQ >= gzQ:
		return encodingBrotli
	case cfg.enableGzip && gzQ > 0:
		return encodingGzip
	case cfg.enableBrotli && brQ > 0:
		return encodingBrotli
	default:
		return ""
	}
}

// qValue returns the quality of encoding in an Accept-Encoding header: -1
// when absent, 1 when no q parameter is given.
func qValue(accept, encoding string) float64 {
	for part := range strings.SplitSeq(accept, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(name) != encoding {
			continue
		}
		for param := range strings.SplitSeq(params, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(k) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return 1
			}
			return q
		}

		return 1
	}

	return -1
}
