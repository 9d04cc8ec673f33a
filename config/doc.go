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

// Package config loads declarative route files and registers their routes
// on a router.
//
// A route file lists aliases, global middleware, routes and groups.
// Handlers and middleware are referenced by identifier and resolved through
// the router's Resolver when a request arrives:
//
//	aliases:
//	  slug: "[a-z0-9-]+"
//	middleware: [requestid, accesslog]
//	routes:
//	  - name: foo
//	    path: /foo/{id:numeric}
//	    methods: [GET]
//	    handler: foo.show
//	groups:
//	  - prefix: /admin
//	    scheme: https
//	    middleware: [auth]
//	    routes:
//	      - path: /users
//	        methods: GET,POST
//	        handler: admin.users
//
// YAML, TOML and JSON are supported, chosen by file extension. Several files
// are merged in order: maps are merged with later files winning, lists are
// appended. The merged document is validated against an embedded JSON
// Schema before it is decoded.
//
//	f, err := config.Load(ctx, "routes.yaml", "routes.local.yaml")
//	if err != nil {
//	    return err
//	}
//	err = config.Apply(r, f)
package config
