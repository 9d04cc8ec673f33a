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

package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParam is matched by every MissingParamError.
var ErrMissingParam = errors.New("missing route parameter")

// MissingParamError is returned by Build when a placeholder has no value.
type MissingParamError struct {
	Template string
	Param    string
}

// Error implements the error interface.
func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing parameter %q for %q", e.Param, e.Template)
}

// Is makes errors.Is(err, ErrMissingParam) succeed.
func (e *MissingParamError) Is(target error) bool {
	return target == ErrMissingParam
}

// Build substitutes params into the template. Values are inserted verbatim;
// parameters without a placeholder are ignored. The first placeholder that
// has no value is reported as a *MissingParamError.
//
// Example:
//
//	p := pattern.MustCompile("/foo/{id:numeric}", nil)
//	path, _ := p.Build(map[string]string{"id": "123"}) // "/foo/123"
func (p *Pattern) Build(params map[string]string) (string, error) {
	if p.re == nil {
		return p.Template, nil
	}

	var b strings.Builder
	b.Grow(len(p.Template))
	for _, seg := range p.Segments {
		if !seg.Param {
			b.WriteString(seg.Value)
			continue
		}
		v, ok := params[seg.Value]
		if !ok {
			return "", &MissingParamError{Template: p.Template, Param: seg.Value}
		}
		b.WriteString(v)
	}

	return b.String(), nil
}
