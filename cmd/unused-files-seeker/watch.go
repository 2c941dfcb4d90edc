package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/unused-files-seeker/internal/output"
	"github.com/panbanda/unused-files-seeker/internal/service/seeker"
	"github.com/panbanda/unused-files-seeker/pkg/config"
	"github.com/panbanda/unused-files-seeker/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Re-scan whenever a candidate file changes",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Value:   ".",
				Usage:   "Project root",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a change triggers a scan",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	root, err := filepath.Abs(c.String("project"))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cfg, err := loadProjectConfig(c, root)
	if err != nil {
		return err
	}

	w, err := watch.NewWatcher(root, cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	svc := seeker.New(
		seeker.WithLogger(statusLogger(c.App.ErrWriter)),
		seeker.WithWarnings(warningLogger(c.App.ErrWriter)),
	)
	scan := func(ctx context.Context) {
		res, err := svc.Run(ctx, root, cfg)
		if err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
			return
		}
		formatter := output.NewWriterFormatter(output.FormatText, c.App.Writer, true)
		if err := formatter.Output(res); err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
		}
	}

	scan(c.Context)

	w.SetCallback(func(paths []string) {
		rel := make([]string, len(paths))
		for i, p := range paths {
			if r, err := filepath.Rel(root, p); err == nil {
				rel[i] = r
			} else {
				rel[i] = p
			}
		}
		color.New(color.FgYellow).Fprintf(c.App.ErrWriter, "\nChanged: %s\n", strings.Join(rel, ", "))
		fmt.Fprintln(c.App.ErrWriter, strings.Repeat("-", 40))

		if slices.ContainsFunc(paths, isConfigFile(c.String("config"))) {
			reloaded, err := loadProjectConfig(c, root)
			if err != nil {
				color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
				return
			}
			cfg = reloaded
		}
		scan(c.Context)
	})

	color.New(color.FgCyan).Fprintf(c.App.ErrWriter, "Watching for changes in %s...\nPress Ctrl+C to stop\n", root)

	if err := w.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// isConfigFile matches the default config names and the base name of flagPath.
func isConfigFile(flagPath string) func(string) bool {
	return func(path string) bool {
		base := filepath.Base(path)
		return base == filepath.Base(flagPath) || slices.Contains(config.SearchNames, base)
	}
}
