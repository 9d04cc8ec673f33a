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

// Package route holds the vocabulary shared by route and group definitions:
// HTTP method sanitisation, path normalisation and the scheme/host/port
// conditions a matched route may impose on the request URI.
//
// Everything in this package runs at registration time. The types are plain
// values so they can be copied into an immutable dispatcher without aliasing.
//
// # Conditions
//
// A route may be restricted to a scheme, a host and a port:
//
//	c, err := route.NewConditions("https://", "example.com", 443)
//	// c.EffectivePort() == 0: 443 is the https default and is elided
//
// A port without a host is ignored, and a route without a scheme never
// elides its port.
package route
