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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/posts-contract/pkg/config"
	"github.com/unikorn-cloud/posts-contract/pkg/constants"
	"github.com/unikorn-cloud/posts-contract/pkg/contract"
	"github.com/unikorn-cloud/posts-contract/pkg/fixture"
	"github.com/unikorn-cloud/posts-contract/pkg/logging"
	"github.com/unikorn-cloud/posts-contract/pkg/scenarios"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

func main() {
	var filters contract.RegexFilters

	config.AddFlags(pflag.CommandLine)
	pflag.Var(&filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	pflag.Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")

	pflag.Parse()

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logging.Setup(cfg.DebugLogging)

	logger := log.Log.WithName("init")
	logger.Info("contract run starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision, "mode", cfg.FixtureMode)

	ctx, cancel := context.WithTimeout(cr.SetupSignalHandler(), cfg.TestTimeout)
	defer cancel()

	ctx = log.IntoContext(ctx, log.Log)

	results, err := run(ctx, cfg, filters.AsFilter())
	if err != nil {
		fmt.Println(err)
		os.Exit(1) //nolint:gocritic
	}

	fmt.Println()
	results.Print(os.Stdout)

	if !results.OK() {
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, cfg *config.TestConfig, filter contract.Filter) (contract.Results, error) {
	baseURL := cfg.BaseURL

	if cfg.FixtureMode == config.FixtureModeLocal {
		server, err := fixture.NewServer(ctx)
		if err != nil {
			return contract.Results{}, err
		}

		if baseURL, _, err = server.Start(ctx, "127.0.0.1:0"); err != nil {
			return contract.Results{}, err
		}
	}

	client, err := contract.New(baseURL,
		contract.WithTimeout(cfg.RequestTimeout),
		contract.WithRequestLogging(cfg.LogRequests),
		contract.WithResponseLogging(cfg.LogResponses))
	if err != nil {
		return contract.Results{}, err
	}

	cases, err := scenarios.Default()
	if err != nil {
		return contract.Results{}, err
	}

	log.FromContext(ctx).Info("running scenarios", "baseURL", client.BaseURL(), "count", len(cases), "concurrency", cfg.Concurrency)

	runner := contract.NewRunner(client,
		contract.WithConcurrency(cfg.Concurrency),
		contract.WithFilter(filter))

	return runner.Run(ctx, cases), nil
}
