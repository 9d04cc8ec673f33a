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

package routing

import "net/url"

// PathFromName builds the path of the named route. Placeholders are
// replaced by params in template order, values are inserted as given, and
// the first placeholder without a value is reported as *MissingParamError.
//
// Example:
//
//	path, err := d.PathFromName("foo", map[string]string{"id": "123"}) // "/foo/123"
func (d *Dispatcher) PathFromName(name string, params map[string]string) (string, error) {
	rt, err := d.NamedRoute(name)
	if err != nil {
		return "", err
	}

	return rt.pattern.Build(params)
}

// URL is PathFromName followed by the encoded query, if any.
func (d *Dispatcher) URL(name string, params map[string]string, query url.Values) (string, error) {
	path, err := d.PathFromName(name, params)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return path, nil
	}

	return path + "?" + query.Encode(), nil
}

// PathFromName builds the router if needed and calls
// Dispatcher.PathFromName.
func (r *Router) PathFromName(name string, params map[string]string) (string, error) {
	d, err := r.Build()
	if err != nil {
		return "", err
	}

	return d.PathFromName(name, params)
}

// URL builds the router if needed and calls Dispatcher.URL.
func (r *Router) URL(name string, params map[string]string, query url.Values) (string, error) {
	d, err := r.Build()
	if err != nil {
		return "", err
	}

	return d.URL(name, params, query)
}
