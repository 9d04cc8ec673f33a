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
	"context"
	"fmt"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/routing/config/codec"
)

// ConsulKV is the part of the Consul KV API that ConsulSource needs.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// ConsulSource reads a route document stored under one Consul key.
//
// The client follows the standard Consul environment variables
// (CONSUL_HTTP_ADDR, CONSUL_HTTP_TOKEN, ...). A missing key yields an empty
// document.
type ConsulSource struct {
	key       string
	format    codec.Type
	kv        ConsulKV
	lastIndex uint64
}

// NewConsulSource returns a source for key. An empty format is derived from
// the key's extension, e.g. "routes/api.yaml". A nil kv uses a client built
// from the environment.
func NewConsulSource(key string, format codec.Type, kv ConsulKV) (*ConsulSource, error) {
	if format == "" {
		t, err := codec.ForPath(key)
		if err != nil {
			return nil, NewError(key, "read", err)
		}
		format = t
	}

	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, NewError(key, "read", fmt.Errorf("failed to create consul client: %w", err))
		}
		kv = client.KV()
	}

	return &ConsulSource{key: key, format: format, kv: kv}, nil
}

// Name returns "consul:" and the key.
func (s *ConsulSource) Name() string { return "consul:" + s.key }

// LastIndex returns the Consul index seen by the most recent Load.
func (s *ConsulSource) LastIndex() uint64 { return s.lastIndex }

// Load fetches and parses the key.
func (s *ConsulSource) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := s.kv.Get(s.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, NewError(s.Name(), "read", fmt.Errorf("failed to get consul key: %w", err))
	}
	if meta != nil {
		s.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	return parse(s.Name(), s.format, pair.Value)
}
