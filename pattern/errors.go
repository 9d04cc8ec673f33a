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
)

// Sentinel errors reported by Compile. Use errors.Is to check for them.
var (
	// ErrMalformedTemplate indicates unbalanced braces, an empty or invalid
	// placeholder name, or a placeholder regex that does not compile.
	ErrMalformedTemplate = errors.New("malformed path template")

	// ErrDuplicateParam indicates the same placeholder name is used twice.
	ErrDuplicateParam = errors.New("duplicate placeholder name")

	// ErrCapturingGroup indicates a placeholder regex contains its own
	// capturing group, which would shift parameter positions.
	ErrCapturingGroup = errors.New("placeholder regex must not contain capturing groups")
)

// Error describes why a template failed to compile.
type Error struct {
	Template string
	Reason   string
	Kind     error // one of the sentinel errors above
	Cause    error // underlying regexp error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %s: %v", e.Kind, e.Template, e.Reason, e.Cause)
	}

	return fmt.Sprintf("%s %q: %s", e.Kind, e.Template, e.Reason)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

func newError(template string, kind error, reason string, cause error) *Error {
	return &Error{Template: template, Reason: reason, Kind: kind, Cause: cause}
}
