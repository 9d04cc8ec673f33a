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
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// ContentType is the media type of every RFC 9457 response.
const ContentType = "application/problem+json; charset=utf-8"

// RFC9457 formats errors as problem details.
type RFC9457 struct {
	// BaseURL is prepended to error codes to form the problem type URI.
	BaseURL string

	// TypeResolver overrides the problem type. Optional.
	TypeResolver func(err error) string

	// StatusResolver overrides the status. Optional.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides the error_id extension. Defaults to a
	// random UUID.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// New returns an RFC9457 formatter using baseURL for problem types.
func New(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// Detail is an RFC 9457 problem detail object. Extensions are marshalled
// inline next to the standard members.
type Detail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges Extensions into the object. Extensions cannot replace
// the standard members.
func (d Detail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 5+len(d.Extensions))
	for k, v := range d.Extensions {
		m[k] = v
	}
	m["type"] = d.Type
	m["title"] = d.Title
	m["status"] = d.Status
	delete(m, "detail")
	delete(m, "instance")
	if d.Detail != "" {
		m["detail"] = d.Detail
	}
	if d.Instance != "" {
		m["instance"] = d.Instance
	}

	return json.Marshal(m)
}

// Format implements Formatter.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := f.status(err)

	d := Detail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		d.Instance = req.URL.Path
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			d.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			d.Extensions["error_id"] = uuid.NewString()
		}
	}

	var detailed Detailer
	if errors.As(err, &detailed) {
		d.Extensions["errors"] = detailed.Details()
	}

	var coded Coder
	if errors.As(err, &coded) {
		d.Extensions["code"] = coded.Code()
	}

	resp := Response{Status: status, ContentType: ContentType, Body: d}

	var withHeaders HeaderProvider
	if errors.As(err, &withHeaders) {
		resp.Headers = withHeaders.Headers().Clone()
	}

	return resp
}

func (f *RFC9457) status(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	var typed StatusCoder
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded Coder
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + coded.Code()
		}

		return coded.Code()
	}

	return "about:blank"
}
