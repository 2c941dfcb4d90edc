package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "unused-files-seeker",
		Usage:   "Find unused files in JavaScript/TypeScript projects",
		Version: version,
		Description: `unused-files-seeker walks import, require, dynamic import() and
triple-slash reference directives from a project's entry point and reports
every file under the scan folder that is never reached.

Exit status is 1 when unused files are found or the scan fails, 0 otherwise.`,
		Commands: []*cli.Command{
			scanCmd(),
			initCmd(),
			watchCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
