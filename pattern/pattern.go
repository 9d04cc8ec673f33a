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
	"regexp"
	"strings"
)

// defaultParamRegex is used by placeholders without an explicit pattern.
const defaultParamRegex = `[^/]+`

// Segment is one piece of a template: either literal text or a placeholder.
type Segment struct {
	Param bool   // true for a placeholder
	Value string // literal text, or the placeholder name
}

// Pattern is a compiled path template. It is immutable and safe for
// concurrent use.
type Pattern struct {
	// Template is the template as registered.
	Template string
	// Expanded is Template with every alias replaced by its regex.
	Expanded string
	// ParamNames lists placeholder names in template order.
	ParamNames []string
	// Segments describes the template for reverse routing.
	Segments []Segment

	re *regexp.Regexp // nil for static templates
}

// Static reports whether the template has no placeholders.
func (p *Pattern) Static() bool {
	return p.re == nil
}

// Regexp returns the anchored expression used for matching, or nil for a
// static template.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// Compile parses template, substitutes aliases and builds the matcher.
// A nil aliases table means DefaultAliases.
//
// Example:
//
//	p, err := pattern.Compile("/foo/{id:numeric}", nil)
//	params, ok := p.Match("/foo/42") // map[id:42], true
func Compile(template string, aliases Aliases) (*Pattern, error) {
	if aliases == nil {
		aliases = defaultAliases
	}

	idxs, err := braceIndices(template)
	if err != nil {
		return nil, err
	}

	p := &Pattern{Template: template}
	if len(idxs) == 0 {
		p.Expanded = template
		p.Segments = []Segment{{Value: template}}

		return p, nil
	}

	var (
		expr     strings.Builder
		expanded strings.Builder
		seen     = make(map[string]struct{}, len(idxs)/2)
		end      int
	)
	expr.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := template[end:idxs[i]]
		end = idxs[i+1]

		if raw != "" {
			p.Segments = append(p.Segments, Segment{Value: raw})
			expr.WriteString(regexp.QuoteMeta(raw))
		}
		expanded.WriteString(raw)

		name, patt, found := strings.Cut(template[idxs[i]+1:end-1], ":")
		name = strings.TrimSpace(name)
		patt = strings.TrimSpace(patt)
		if !validName(name) {
			return nil, newError(template, ErrMalformedTemplate, "invalid placeholder name "+quote(name), nil)
		}
		if _, dup := seen[name]; dup {
			return nil, newError(template, ErrDuplicateParam, quote(name), nil)
		}
		seen[name] = struct{}{}

		if !found || patt == "" {
			patt = defaultParamRegex
		} else if alias, ok := aliases[patt]; ok {
			patt = alias
		}

		sub, compileErr := regexp.Compile("^(?:" + patt + ")$")
		if compileErr != nil {
			return nil, newError(template, ErrMalformedTemplate, "placeholder "+quote(name), compileErr)
		}
		if sub.NumSubexp() > 0 {
			return nil, newError(template, ErrCapturingGroup, "placeholder "+quote(name), nil)
		}

		expr.WriteString("(" + patt + ")")
		expanded.WriteString("{" + name + ":" + patt + "}")
		p.ParamNames = append(p.ParamNames, name)
		p.Segments = append(p.Segments, Segment{Param: true, Value: name})
	}

	if tail := template[end:]; tail != "" {
		p.Segments = append(p.Segments, Segment{Value: tail})
		expr.WriteString(regexp.QuoteMeta(tail))
		expanded.WriteString(tail)
	}
	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, newError(template, ErrMalformedTemplate, "combined expression", err)
	}
	p.re = re
	p.Expanded = expanded.String()

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string, aliases Aliases) *Pattern {
	p, err := Compile(template, aliases)
	if err != nil {
		panic(err)
	}

	return p
}

// Match reports whether path satisfies the pattern and returns a fresh map
// of the captured parameters. Static templates compare by equality and
// return an empty map.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if p.re == nil {
		if path != p.Template {
			return nil, false
		}

		return map[string]string{}, true
	}

	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.ParamNames))
	for i, name := range p.ParamNames {
		params[name] = m[i+1]
	}

	return params, true
}

// braceIndices returns the first and last index of each top-level {...}
// pair. Nested braces inside a placeholder, as in {year:\d{4}}, are kept.
func braceIndices(s string) ([]int, error) {
	var level, idx int
	var idxs []int
	for i := range len(s) {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idx = i
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, idx, i+1)
			} else if level < 0 {
				return nil, newError(s, ErrMalformedTemplate, "unbalanced braces", nil)
			}
		}
	}
	if level != 0 {
		return nil, newError(s, ErrMalformedTemplate, "unbalanced braces", nil)
	}

	return idxs, nil
}

// validName accepts letters, digits, underscore and dash.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}

	return true
}

func quote(s string) string {
	return `"` + s + `"`
}
