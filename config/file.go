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

package config

// File is a decoded route file.
type File struct {
	Aliases    map[string]string `mapstructure:"aliases" validate:"dive,keys,required,endkeys,required"`
	Middleware []string          `mapstructure:"middleware" validate:"dive,required"`
	Routes     []Route           `mapstructure:"routes" validate:"dive"`
	Groups     []Group           `mapstructure:"groups" validate:"dive"`
}

// Route declares one route. Methods defaults to GET.
type Route struct {
	Name       string   `mapstructure:"name"`
	Path       string   `mapstructure:"path"`
	Methods    []string `mapstructure:"methods" validate:"omitempty,dive,httpmethod"`
	Handler    string   `mapstructure:"handler" validate:"required"`
	Middleware []string `mapstructure:"middleware" validate:"dive,required"`
	Scheme     string   `mapstructure:"scheme"`
	Host       string   `mapstructure:"host" validate:"omitempty,hostname_rfc1123"`
	Port       int      `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// Group declares a group and its member routes and nested groups.
type Group struct {
	Prefix     string   `mapstructure:"prefix"`
	Middleware []string `mapstructure:"middleware" validate:"dive,required"`
	Scheme     string   `mapstructure:"scheme"`
	Host       string   `mapstructure:"host" validate:"omitempty,hostname_rfc1123"`
	Port       int      `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Routes     []Route  `mapstructure:"routes" validate:"dive"`
	Groups     []Group  `mapstructure:"groups" validate:"dive"`
}

// RouteCount returns the number of routes, including those in groups.
func (f *File) RouteCount() int {
	n := len(f.Routes)
	for i := range f.Groups {
		n += f.Groups[i].routeCount()
	}

	return n
}

func (g *Group) routeCount() int {
	n := len(g.Routes)
	for i := range g.Groups {
		n += g.Groups[i].routeCount()
	}

	return n
}
