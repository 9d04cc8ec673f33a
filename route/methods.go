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

package route

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidMethod is returned when none of the requested HTTP methods is allowed.
var ErrInvalidMethod = errors.New("invalid HTTP method")

// AllowedMethods lists the HTTP methods a route can be registered for,
// in the order used by Any.
var AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// IsAllowedMethod reports whether method (already upper-cased) can be routed.
func IsAllowedMethod(method string) bool {
	return slices.Contains(AllowedMethods, method)
}

// SanitizeMethods upper-cases every method, drops the ones outside
// AllowedMethods and removes duplicates while keeping the first occurrence.
// It fails when no allowed method remains.
//
// Sanitising an already sanitised list returns an equal list.
func SanitizeMethods(methods []string) ([]string, error) {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !IsAllowedMethod(m) || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w %q: allowed methods are %s",
			ErrInvalidMethod, strings.Join(methods, ", "), strings.Join(AllowedMethods, ", "))
	}

	return out, nil
}
