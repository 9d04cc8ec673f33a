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

// Package pattern compiles route path templates into matchers.
//
// A template is a normalised path that may contain placeholders:
//
//	/users/{id}            // id matches one or more non-slash characters
//	/users/{id:numeric}    // numeric is an alias for \d+
//	/archive/{year:\d{4}}  // a raw regular expression
//
// Aliases are substituted textually before the template is turned into a
// regular expression. The four built-in aliases are numeric, alpha, alphanum
// and alphanum_dash; callers can add their own or override them with
// Aliases.Merge.
//
// Templates without placeholders are static and are matched by string
// equality. Every template error is reported by Compile, never by Match.
package pattern
