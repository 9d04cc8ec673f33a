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

package tracing

import (
	"regexp"
	"strings"
)

// pathFilter decides which request paths are not traced.
type pathFilter struct {
	paths    map[string]bool
	prefixes []string
	patterns []*regexp.Regexp
}

func newPathFilter() *pathFilter {
	return &pathFilter{paths: make(map[string]bool)}
}

func (pf *pathFilter) addPaths(paths ...string) {
	for _, p := range paths {
		pf.paths[p] = true
	}
}

func (pf *pathFilter) addPrefixes(prefixes ...string) {
	pf.prefixes = append(pf.prefixes, prefixes...)
}

func (pf *pathFilter) addPatterns(patterns ...*regexp.Regexp) {
	pf.patterns = append(pf.patterns, patterns...)
}

func (pf *pathFilter) shouldExclude(path string) bool {
	if pf == nil {
		return false
	}
	if pf.paths[path] {
		return true
	}
	for _, prefix := range pf.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, re := range pf.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
