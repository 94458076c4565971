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

// Package config loads test configuration from the environment, an optional
// .env file, and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the public fixture service.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// FixtureMode selects what the tests run against.
type FixtureMode string

const (
	// FixtureModeLocal runs against an in-process fixture server.
	FixtureModeLocal FixtureMode = "local"
	// FixtureModeRemote runs against BaseURL.
	FixtureModeRemote FixtureMode = "remote"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type TestConfig struct {
	BaseURL        string        `mapstructure:"api_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	TestTimeout    time.Duration `mapstructure:"test_timeout"`
	Concurrency    int           `mapstructure:"concurrency"`
	FixtureMode    FixtureMode   `mapstructure:"fixture_mode"`
	DebugLogging   bool          `mapstructure:"debug_logging"`
	LogRequests    bool          `mapstructure:"log_requests"`
	LogResponses   bool          `mapstructure:"log_responses"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"url":             "api_base_url",
	"request-timeout": "request_timeout",
	"test-timeout":    "test_timeout",
	"concurrency":     "concurrency",
	"fixture-mode":    "fixture_mode",
	"debug":           "debug_logging",
	"log-requests":    "log_requests",
	"log-responses":   "log_responses",
}

// AddFlags registers flags that override environment configuration.
func AddFlags(f *pflag.FlagSet) {
	f.String("url", DefaultBaseURL, "base URL of the posts service")
	f.Duration("request-timeout", 30*time.Second, "timeout for a single request")
	f.Duration("test-timeout", 2*time.Minute, "timeout for the whole run")
	f.Int("concurrency", 4, "number of scenarios to run in parallel")
	f.String("fixture-mode", string(FixtureModeLocal), "run against an in-process fixture (local) or the base URL (remote)")
	f.Bool("debug", false, "enable debug logging")
	f.Bool("log-requests", false, "log every request")
	f.Bool("log-responses", false, "log every response body")
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if configuration values are invalid.
func LoadTestConfig() (*TestConfig, error) {
	return Load(nil)
}

// Load is LoadTestConfig with explicitly set flags taking precedence.
func Load(flags *pflag.FlagSet) (*TestConfig, error) {
	loadEnvFile()

	v := viper.New()

	v.SetDefault("api_base_url", DefaultBaseURL)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("test_timeout", 2*time.Minute)
	v.SetDefault("concurrency", 4)
	v.SetDefault("fixture_mode", string(FixtureModeLocal))
	v.SetDefault("debug_logging", false)
	v.SetDefault("log_requests", false)
	v.SetDefault("log_responses", false)

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var config TestConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadEnvFile() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	envPath := findEnvFile(wd)
	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// findEnvFile returns the nearest .env walking up from dir, stopping at the
// module root, the directory holding go.mod.
func findEnvFile(dir string) string {
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

func validate(config *TestConfig) error {
	var problems []string

	switch config.FixtureMode {
	case FixtureModeLocal:
	case FixtureModeRemote:
		if config.BaseURL == "" {
			problems = append(problems, "API_BASE_URL is required in remote mode")
		}
	default:
		problems = append(problems, fmt.Sprintf("FIXTURE_MODE must be %q or %q, got %q", FixtureModeLocal, FixtureModeRemote, config.FixtureMode))
	}

	if config.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if config.TestTimeout <= 0 {
		problems = append(problems, "TEST_TIMEOUT must be positive")
	}

	if config.Concurrency <= 0 {
		problems = append(problems, "CONCURRENCY must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, ", "))
	}

	return nil
}
