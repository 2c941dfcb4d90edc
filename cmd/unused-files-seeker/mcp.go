package main

import (
	"fmt"

	"github.com/panbanda/unused-files-seeker/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the unused-file
analysis as a tool LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "unused-files-seeker": {
        "command": "unused-files-seeker",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - find_unused_files    Files never reached from the entry point`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the server.json manifest and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}

	return mcpserver.NewServer(version).Run(c.Context)
}
