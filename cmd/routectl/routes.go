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
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"rivaas.dev/routing"
	"rivaas.dev/routing/config/codec"
)

type routeRow struct {
	Methods    []string `json:"methods" yaml:"methods" toml:"methods"`
	Path       string   `json:"path" yaml:"path" toml:"path"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Conditions string   `json:"conditions,omitempty" yaml:"conditions,omitempty" toml:"conditions,omitempty"`
	Middleware []string `json:"middleware,omitempty" yaml:"middleware,omitempty" toml:"middleware,omitempty"`
	Handler    string   `json:"handler" yaml:"handler" toml:"handler"`
}

type routeList struct {
	Routes []routeRow `json:"routes" yaml:"routes" toml:"routes"`
}

func rowsOf(routes []*routing.Route) []routeRow {
	rows := make([]routeRow, 0, len(routes))
	for _, rt := range routes {
		row := routeRow{
			Methods:    rt.Methods(),
			Path:       rt.Path(),
			Name:       rt.Name(),
			Conditions: rt.Conditions().String(),
			Handler:    rt.Handler().String(),
		}
		for _, m := range rt.Middleware() {
			row.Middleware = append(row.Middleware, m.String())
		}
		rows = append(rows, row)
	}

	return rows
}

func (a *app) routesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes declared by the route files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}
			rows := rowsOf(d.Routes())

			if output == "table" {
				return renderTable(cmd.OutOrStdout(), rows)
			}

			c, err := codec.Get(codec.Type(output))
			if err != nil {
				return err
			}
			out, err := c.Encode(routeList{Routes: rows})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, yaml, toml or msgpack")

	return cmd
}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
}

// renderTable writes rows as a bordered table. Colors are downsampled to
// what w supports and stripped when w is not a terminal.
func renderTable(w io.Writer, rows []routeRow) error {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		methods := make([]string, len(row.Methods))
		for i, m := range row.Methods {
			methods[i] = m
			if style, ok := methodStyles[m]; ok {
				methods[i] = style.Render(m)
			}
		}
		cells = append(cells, []string{
			strings.Join(methods, ","),
			row.Path,
			dash(row.Name),
			dash(row.Conditions),
			row.Handler,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("METHODS", "PATH", "NAME", "CONDITIONS", "HANDLER").
		Rows(cells...)

	_, err := fmt.Fprintln(colorprofile.NewWriter(w, os.Environ()), t.Render())
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
