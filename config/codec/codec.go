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

// Package codec encodes and decodes route files by format.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Type identifies a file format.
type Type string

// Encoder converts Go values into encoded bytes. Implementations must be
// safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded bytes into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec both encodes and decodes.
type Codec interface {
	Encoder
	Decoder
}

var registry = struct {
	sync.RWMutex
	codecs     map[Type]Codec
	extensions map[string]Type
}{
	codecs:     make(map[Type]Codec),
	extensions: make(map[string]Type),
}

// Register makes c available under name and for each file extension
// (with or without the leading dot).
func Register(name Type, c Codec, extensions ...string) {
	registry.Lock()
	defer registry.Unlock()

	registry.codecs[name] = c
	for _, ext := range extensions {
		registry.extensions["."+strings.TrimPrefix(strings.ToLower(ext), ".")] = name
	}
}

// Get returns the codec registered under name.
func Get(name Type) (Codec, error) {
	registry.RLock()
	defer registry.RUnlock()

	c, ok := registry.codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec not found for type: %s", name)
	}

	return c, nil
}

// ForPath picks the codec type from the extension of path.
func ForPath(path string) (Type, error) {
	registry.RLock()
	defer registry.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	t, ok := registry.extensions[ext]
	if !ok {
		return "", fmt.Errorf("no codec for file extension %q", ext)
	}

	return t, nil
}
