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

// Command routectl inspects route files: it lists the routes they declare,
// resolves requests against them and builds URLs from route names.
//
//	routectl -f routes.yaml routes
//	routectl -f routes.yaml match GET https://example.com/posts/hello
//	routectl -f routes.yaml url post.show -p slug=hello
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "routectl:", err)
		os.Exit(1)
	}
}
