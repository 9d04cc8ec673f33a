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

// Package metrics records OpenTelemetry request metrics for a routing
// Dispatcher.
//
// A Recorder implements routing.Observer and routing.DiagnosticHandler:
//
//	rec := metrics.MustNew(metrics.WithServiceName("api"))
//	r := routing.MustNew(
//	    routing.WithObserver(rec),
//	    routing.WithDiagnostics(rec),
//	)
//
//	handler, _ := rec.Handler() // Prometheus scrape endpoint
//
// Requests are labelled by route template, never by raw path. Requests that
// match no route use routing.NotFoundLabel or routing.MethodNotAllowedLabel.
//
// Three providers are built in: Prometheus (default, pull), OTLP over HTTP
// and stdout. WithMeterProvider plugs in any other provider.
package metrics
