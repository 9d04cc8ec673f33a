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

package main

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/routing"
)

func (a *app) matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match METHOD URL",
		Short: "Show which route a request would reach",
		Long: "Resolve METHOD and URL against the route files. URL may be a bare path " +
			"or an absolute URL; scheme, host and port conditions only apply to the latter.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			u, err := url.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid URL %q: %w", args[1], err)
			}

			m, err := d.Dispatch(strings.ToUpper(args[0]), u)
			if err != nil {
				var mna *routing.MethodNotAllowedError
				if errors.As(err, &mna) {
					fmt.Fprintf(cmd.OutOrStdout(), "allowed: %s\n", strings.Join(mna.Allowed, ", "))
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "route:   %s\n", m.Route.Path())
			fmt.Fprintf(out, "name:    %s\n", dash(m.Route.Name()))
			fmt.Fprintf(out, "handler: %s\n", m.Route.Handler())
			for _, k := range slices.Sorted(maps.Keys(m.Params)) {
				fmt.Fprintf(out, "param:   %s=%s\n", k, m.Params[k])
			}

			return nil
		},
	}
}

func (a *app) urlCmd() *cobra.Command {
	var (
		params map[string]string
		query  map[string]string
	)

	cmd := &cobra.Command{
		Use:   "url NAME",
		Short: "Build the path of a named route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			q := make(url.Values, len(query))
			for k, v := range query {
				q.Set(k, v)
			}

			u, err := d.URL(args[0], params, q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)

			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "placeholder value, name=value")
	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "query parameter, key=value")

	return cmd
}
