package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/unused-files-seeker/pkg/config"
	"github.com/urfave/cli/v2"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a default configuration file",
		Description: `Writes the default configuration. The format follows the file extension:
.toml, .yaml/.yml, or JSON for anything else.

Examples:
  unused-files-seeker init                                   # unused-files-seeker.config.json
  unused-files-seeker init -c unused-files-seeker.config.toml
  unused-files-seeker init --force                           # overwrite an existing file`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

// initialConfig is the configuration init writes: the defaults with the
// conventional entry point filled in.
func initialConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.EntryPoint = "index.js"
	return cfg
}

func runInitCmd(c *cli.Context) error {
	path := c.String("config")

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", path)
	}

	if err := config.Write(path, initialConfig()); err != nil {
		return fmt.Errorf("error creating configuration: %w", err)
	}

	color.New(color.FgGreen).Fprintf(c.App.Writer, "Default configuration created: %s\n", path)
	return nil
}
