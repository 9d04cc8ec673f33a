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

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/routing/config/codec"
	"rivaas.dev/routing/route"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "routes.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	if err = c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}

	return c.Compile(schemaURL)
})

// structValidator checks decoded values the schema sees only in string
// form, such as comma-separated methods and quoted ports.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	err := v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return route.IsAllowedMethod(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	if err != nil {
		panic(fmt.Sprintf("config: register httpmethod validation: %v", err))
	}

	return v
})

// Schema returns the embedded JSON Schema route files are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Source provides one route document as a generic map.
type Source interface {
	Name() string
	Load(ctx context.Context) (map[string]any, error)
}

// FileSource reads a file whose format follows its extension.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Load reads and parses the file.
func (s FileSource) Load(_ context.Context) (map[string]any, error) {
	format, err := codec.ForPath(s.Path)
	if err != nil {
		return nil, NewError(s.Path, "read", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, NewError(s.Path, "read", err)
	}

	return parse(s.Path, format, data)
}

// BytesSource parses in-memory data.
type BytesSource struct {
	SourceName string
	Format     codec.Type
	Data       []byte
}

// Name returns SourceName.
func (s BytesSource) Name() string { return s.SourceName }

// Load parses Data.
func (s BytesSource) Load(_ context.Context) (map[string]any, error) {
	return parse(s.SourceName, s.Format, s.Data)
}

// parse decodes data and converts it to plain JSON values (map[string]any,
// []any, json.Number, string, bool, nil) so documents of every format merge
// and validate alike.
func parse(name string, format codec.Type, data []byte) (map[string]any, error) {
	c, err := codec.Get(format)
	if err != nil {
		return nil, NewError(name, "parse", err)
	}

	var raw map[string]any
	if err = c.Decode(data, &raw); err != nil {
		return nil, NewError(name, "parse", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, NewError(name, "parse", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, NewError(name, "parse", err)
	}

	values, ok := doc.(map[string]any)
	if !ok {
		return nil, NewError(name, "parse", fmt.Errorf("document root must be an object, got %T", doc))
	}

	return values, nil
}

// Load reads, merges, validates and decodes the route files at paths.
func Load(ctx context.Context, paths ...string) (*File, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, FileSource{Path: p})
	}

	return LoadSources(ctx, sources...)
}

// LoadSources merges sources in order and decodes the result. Later sources
// override map entries of earlier ones; lists are appended.
func LoadSources(ctx context.Context, sources ...Source) (*File, error) {
	merged := make(map[string]any)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		if err = mergo.Map(&merged, values, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return nil, NewError(src.Name(), "merge", err)
		}
	}

	return Decode(merged)
}

// Decode validates values against the schema and decodes them into a File.
func Decode(values map[string]any) (*File, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, NewError("schema", "compile", err)
	}
	if err = schema.Validate(any(values)); err != nil {
		return nil, NewError("merged", "validate", err)
	}

	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			intHook,
		),
		Result: &f,
	})
	if err != nil {
		return nil, NewError("merged", "decode", err)
	}
	if err = dec.Decode(values); err != nil {
		return nil, NewError("merged", "decode", err)
	}

	if err = structValidator().Struct(&f); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return nil, NewFieldError("merged", strings.TrimPrefix(fields[0].Namespace(), "File."), "validate", err)
		}

		return nil, NewError("merged", "validate", err)
	}

	return &f, nil
}

// intHook converts numbers and numeric strings for int fields such as port.
func intHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	return cast.ToIntE(data)
}
