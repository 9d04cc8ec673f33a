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

// Package compiler builds the immutable route table used for dispatch.
//
// A table holds two kinds of entries per HTTP method:
//
//   - static routes, looked up by exact path in a hash map
//   - variable routes, scanned in registration order
//
// Static routes are always consulted first. Among variable routes the first
// registered pattern that accepts the path wins, so registration order is
// significant. When no route matches for the requested method but another
// method would match, the table reports MethodNotAllowed together with the
// sorted list of methods that do match.
//
// Tables are produced by a Builder and never change afterwards, so Match is
// safe for concurrent use without locking.
//
// # Bloom filter
//
// Once the static set reaches a threshold, static lookups are guarded by a
// bloom filter so paths that are certainly absent skip the map entirely.
// Size and hash count are configurable with WithBloomFilter.
package compiler
