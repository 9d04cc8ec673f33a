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

package pattern

import (
	"maps"
	"slices"
)

// Aliases maps an alias name to the regular expression it stands for.
type Aliases map[string]string

// defaultAliases are available to every template.
var defaultAliases = Aliases{
	"numeric":       `\d+`,
	"alpha":         `[a-zA-Z]+`,
	"alphanum":      `[a-zA-Z0-9]+`,
	"alphanum_dash": `[a-zA-Z0-9-_]+`,
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() Aliases {
	return maps.Clone(defaultAliases)
}

// Merge returns a new table holding a's entries overridden by extra's.
// Neither a nor extra is modified.
//
// Example:
//
//	aliases := pattern.DefaultAliases().Merge(map[string]string{"slug": `[a-z0-9-]+`})
func (a Aliases) Merge(extra map[string]string) Aliases {
	out := make(Aliases, len(a)+len(extra))
	maps.Copy(out, a)
	maps.Copy(out, extra)

	return out
}

// Names returns the alias names in sorted order.
func (a Aliases) Names() []string {
	return slices.Sorted(maps.Keys(a))
}
