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
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"rivaas.dev/routing"
	"rivaas.dev/routing/config"
	"rivaas.dev/routing/logging"
)

type app struct {
	files      []string
	consulKeys []string
	verbose    bool
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: routing.NoopLogger()}

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Inspect route files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = logging.New(
				logging.WithTextHandler(),
				logging.WithOutput(cmd.ErrOrStderr()),
				logging.WithLevel(level),
			)
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceVarP(&a.files, "file", "f", nil, "route file; repeat to merge, later files override earlier ones")
	flags.StringSliceVar(&a.consulKeys, "consul", nil, "Consul KV key holding a route document; merged after files (address from CONSUL_HTTP_ADDR)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		a.routesCmd(),
		a.matchCmd(),
		a.urlCmd(),
		schemaCmd(),
	)

	return root
}

// dispatcher loads the route files and builds them. Handlers and middleware
// stay unresolved: nothing is served.
func (a *app) dispatcher(ctx context.Context) (*routing.Dispatcher, error) {
	if len(a.files) == 0 && len(a.consulKeys) == 0 {
		return nil, errors.New("no route files given (use --file or --consul)")
	}

	sources := make([]config.Source, 0, len(a.files)+len(a.consulKeys))
	for _, p := range a.files {
		sources = append(sources, config.FileSource{Path: p})
	}
	for _, key := range a.consulKeys {
		src, err := config.NewConsulSource(key, "", nil)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	f, err := config.LoadSources(ctx, sources...)
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "route files loaded", "sources", len(sources), "routes", f.RouteCount())

	r, err := routing.New(
		routing.WithLogger(a.logger),
		routing.WithDiagnostics(routing.DiagnosticHandlerFunc(func(e routing.DiagnosticEvent) {
			a.logger.Warn(e.Message, "kind", e.Kind)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err = config.Apply(r, f); err != nil {
		return nil, err
	}

	return r.Build()
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for route files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.Schema())
			return err
		},
	}
}
