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

// Package logging builds slog loggers whose records carry request
// correlation fields taken from the context: trace and span IDs from
// OpenTelemetry, the request ID, and the matched route.
//
//	logger := logging.New(logging.WithTextHandler(), logging.WithLevel(slog.LevelDebug))
//	r := routing.MustNew(routing.WithLogger(logger))
//
// Correlation fields are only added by the *Context logging methods, which
// receive the request context.
package logging
