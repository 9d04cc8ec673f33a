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

//go:build integration

package config

import (
	"context"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/consul"

	"rivaas.dev/routing"
)

type ConsulSourceSuite struct {
	suite.Suite
	container *consul.ConsulContainer
	client    *api.Client
}

func TestConsulSourceSuite(t *testing.T) {
	suite.Run(t, new(ConsulSourceSuite))
}

func (s *ConsulSourceSuite) SetupSuite() {
	ctx := context.Background()

	container, err := consul.Run(ctx, "hashicorp/consul:1.15", testcontainers.WithLogger(log.TestLogger(s.T())))
	s.Require().NoError(err)
	s.container = container

	endpoint, err := container.ApiEndpoint(ctx)
	s.Require().NoError(err)

	cfg := api.DefaultConfig()
	cfg.Address = endpoint
	s.client, err = api.NewClient(cfg)
	s.Require().NoError(err)
}

func (s *ConsulSourceSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *ConsulSourceSuite) put(key, value string) {
	_, err := s.client.KV().Put(&api.KVPair{Key: key, Value: []byte(value)}, nil)
	s.Require().NoError(err)
}

func (s *ConsulSourceSuite) TestLoadAndApply() {
	s.put("routing/base.yaml", `
routes:
  - name: user.show
    path: /users/{id:numeric}
    handler: user.show
`)
	s.put("routing/admin.json", `{"groups":[{"prefix":"/admin","routes":[{"name":"admin.home","path":"/","handler":"admin"}]}]}`)

	base, err := NewConsulSource("routing/base.yaml", "", s.client.KV())
	s.Require().NoError(err)
	admin, err := NewConsulSource("routing/admin.json", "", s.client.KV())
	s.Require().NoError(err)

	f, err := LoadSources(context.Background(), base, admin)
	s.Require().NoError(err)
	s.Equal(2, f.RouteCount())
	s.NotZero(base.LastIndex())

	r := routing.MustNew()
	s.Require().NoError(Apply(r, f))
	path, err := r.PathFromName("user.show", map[string]string{"id": "7"})
	s.Require().NoError(err)
	s.Equal("/users/7", path)
}

func (s *ConsulSourceSuite) TestMissingKey() {
	src, err := NewConsulSource("routing/absent.yaml", "", s.client.KV())
	s.Require().NoError(err)

	values, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Empty(values)
}
