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

// Package compression provides middleware that compresses response bodies
// with Brotli or gzip, negotiated from the Accept-Encoding header.
//
//	r.Use(compression.New(
//	    compression.WithBrotliLevel(5),
//	    compression.WithMinSize(512),
//	    compression.WithExcludeContentTypes("image/"),
//	))
//
// Brotli is preferred when the client rates it at least as high as gzip.
// Responses with status 204, 206 or 304, responses that already carry a
// Content-Encoding, event streams and gRPC are passed through unchanged.
package compression
