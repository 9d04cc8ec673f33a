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

// Package problem renders routing errors as RFC 9457 problem details.
//
// Errors opt into richer output by implementing the small interfaces in
// this package: StatusCoder for the HTTP status, Coder for a machine-readable
// code that also becomes the problem type, Detailer for structured details,
// and HeaderProvider for extra response headers such as Allow.
//
//	f := problem.New("https://api.example.com/problems")
//	resp := f.Format(req, err)
//	_ = problem.Write(w, resp)
package problem
