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
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/posts-contract/pkg/constants"
	"github.com/unikorn-cloud/posts-contract/pkg/fixture"
	"github.com/unikorn-cloud/posts-contract/pkg/logging"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

func main() {
	listen := pflag.String("listen", "127.0.0.1:8080", "address to serve the fixture on")
	debug := pflag.Bool("debug", false, "log every request")

	pflag.Parse()

	logging.Setup(*debug)

	logger := log.Log.WithName("init")
	logger.Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	ctx := log.IntoContext(cr.SetupSignalHandler(), log.Log)

	server, err := fixture.NewServer(ctx)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	baseURL, done, err := server.Start(ctx, *listen)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger.Info("serving posts fixture", "baseURL", baseURL)

	<-done

	logger.Info("service stopped")
}
