// Command verbum answers questions about documents.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/verbum/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(func(opts cli.Options) (*cli.Services, error) {
		return Bootstrap(opts, os.LookupEnv)
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
