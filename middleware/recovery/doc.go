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

// Package recovery provides middleware that turns handler panics into
// errors. The recovered panic is returned as a *PanicError, which the
// dispatcher renders as a 500 problem response.
//
//	r.Use(recovery.New())
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
package recovery
