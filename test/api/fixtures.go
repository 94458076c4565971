/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"fmt"

	"github.com/unikorn-cloud/posts-contract/pkg/config"
	"github.com/unikorn-cloud/posts-contract/pkg/fixture"
	"github.com/unikorn-cloud/posts-contract/pkg/posts"
)

// Environment is what a suite runs against.
type Environment struct {
	Config *config.TestConfig
	Client *APIClient

	// BaseURL is either the configured URL or the local fixture address.
	BaseURL string

	// Local is set when running against the in-process fixture.
	Local bool
}

// StartEnvironment loads configuration and, in local mode, starts a fixture
// server that lives until ctx is done.
func StartEnvironment(ctx context.Context) (*Environment, error) {
	cfg, err := config.LoadTestConfig()
	if err != nil {
		return nil, err
	}

	env := &Environment{
		Config:  cfg,
		BaseURL: cfg.BaseURL,
		Local:   cfg.FixtureMode == config.FixtureModeLocal,
	}

	if env.Local {
		server, err := fixture.NewServer(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating fixture server: %w", err)
		}

		if env.BaseURL, _, err = server.Start(ctx, "127.0.0.1:0"); err != nil {
			return nil, fmt.Errorf("starting fixture server: %w", err)
		}
	}

	if env.Client, err = NewAPIClientWithConfig(cfg, env.BaseURL); err != nil {
		return nil, err
	}

	return env, nil
}

// ExistingPost is the well known record every scenario reads and replaces.
func ExistingPost() posts.Post {
	return posts.Post{
		UserID: 1,
		ID:     3,
		Title:  "ea molestias quasi exercitationem repellat qui ipsa sit aut",
		Body:   "et iusto sed quo iure\nvoluptatem occaecati omnis eligendi aut ad\nvoluptatem doloribus vel accusantium quis pariatur\nmolestiae porro eius odio et labore et velit aut",
	}
}

// CreatedID is the ID the service assigns to every created post.
const CreatedID = fixture.CreatedID

// MissingID names a post that does not exist.
const MissingID = 1000
