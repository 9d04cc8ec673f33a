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

// Package timeout provides middleware that bounds how long the rest of the
// chain may run.
//
// The chain runs in its own goroutine with a context that expires after the
// configured duration. When it expires first, a 503 problem response is
// written, later writes from the handler fail with http.ErrHandlerTimeout,
// and the middleware returns a *Error once the handler goroutine has
// finished. Handlers should watch r.Context().Done() so that happens
// promptly.
//
//	r.Use(timeout.New(
//	    timeout.WithDuration(5*time.Second),
//	    timeout.WithSkipPrefix("/stream"),
//	))
//
// A panic in the handler goroutine is re-raised in the calling goroutine so
// recovery middleware further out still sees it.
package timeout
