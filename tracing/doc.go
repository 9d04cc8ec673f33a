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

// Package tracing creates OpenTelemetry server spans for requests served by
// a routing Dispatcher.
//
// A Tracer implements routing.Observer. Spans start before dispatch and are
// renamed to "METHOD /route/template" once the route is known:
//
//	tracer := tracing.MustNew(tracing.WithServiceName("api"), tracing.WithStdout())
//	defer tracer.Shutdown(context.Background())
//
//	r := routing.MustNew(routing.WithObserver(tracer))
//	r.Use(tracer.Annotate()) // route name and path parameters as attributes
//
// Incoming W3C trace context and baggage headers are honoured.
package tracing
