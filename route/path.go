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

import "strings"

// NormalizePath returns path with exactly one leading slash and no trailing
// slash. The empty path and "/" both normalise to "/".
//
// Example:
//
//	NormalizePath("users/")   // "/users"
//	NormalizePath("//a/b//")  // "/a/b"
func NormalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}

	return "/" + trimmed
}

// JoinPath joins a group prefix and a member path and normalises the result.
//
// Example:
//
//	JoinPath("/api", "/users") // "/api/users"
//	JoinPath("/api", "/")      // "/api"
func JoinPath(prefix, path string) string {
	prefix = strings.Trim(prefix, "/")
	path = strings.Trim(path, "/")

	switch {
	case prefix == "":
		return NormalizePath(path)
	case path == "":
		return NormalizePath(prefix)
	default:
		var sb strings.Builder
		sb.Grow(len(prefix) + len(path) + 2)
		sb.WriteByte('/')
		sb.WriteString(prefix)
		sb.WriteByte('/')
		sb.WriteString(path)
		return sb.String()
	}
}
