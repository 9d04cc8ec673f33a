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

package problem

import (
	"encoding/json"
	"net/http"
)

// Formatter turns an error into response components.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(req *http.Request, err error) Response

// Format calls f(req, err).
func (f FormatterFunc) Format(req *http.Request, err error) Response {
	return f(req, err)
}

// Response is a formatted error response.
type Response struct {
	Status      int
	ContentType string
	Body        any         // encoded as JSON by Write
	Headers     http.Header // optional
}

// StatusCoder is implemented by errors that declare their HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// Coder is implemented by errors that carry a machine-readable code.
type Coder interface {
	error
	Code() string
}

// Detailer is implemented by errors that expose structured details.
type Detailer interface {
	error
	Details() any
}

// HeaderProvider is implemented by errors that require response headers,
// for example Allow on a 405.
type HeaderProvider interface {
	error
	Headers() http.Header
}

// Write sends resp to w: headers first, then the status line, then the
// JSON-encoded body.
func Write(w http.ResponseWriter, resp Response) error {
	h := w.Header()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if resp.ContentType != "" {
		h.Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)

	if resp.Body == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(resp.Body)
}
