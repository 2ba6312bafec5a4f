// Package main is the entry point for the furiosa-env CLI.
//
// furiosa-env brings a FuriosaAI RNGD host from a bare Debian/Ubuntu install
// to a working NPU environment: package repository, driver and runtime,
// firmware, compiler and the furiosa-llm SDK, plus the model download,
// compile and serve workflow on top of it.
//
// For detailed usage information, run:
//
//	furiosa-env --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/furiosa-env/cmd/furiosa-env/commands"
	"github.com/imamik/furiosa-env/internal/fault"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if remedy := fault.Remedy(err); remedy != "" {
			fmt.Fprintln(os.Stderr, "Next:", remedy)
		}
		os.Exit(fault.ExitCode(err))
	}
}
