package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/unused-files-seeker/internal/output"
	"github.com/panbanda/unused-files-seeker/internal/progress"
	"github.com/panbanda/unused-files-seeker/internal/service/seeker"
	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/panbanda/unused-files-seeker/pkg/analyzer/unused"
	"github.com/panbanda/unused-files-seeker/pkg/config"
	"github.com/urfave/cli/v2"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   config.DefaultFileName,
		Usage:   "Path to config file (JSON, YAML, or TOML)",
		EnvVars: []string{"UNUSED_FILES_SEEKER_CONFIG"},
	}
}

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan project for unused files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "Project root; repeat to scan several projects concurrently (default: current directory)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print every scanned file, the used-file table and import cycles",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the progress spinner",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Maximum number of projects analyzed at once (default: number of CPUs)",
			},
			&cli.BoolFlag{
				Name:  "clear-cache",
				Usage: "Empty the reference cache before scanning (when the cache is enabled)",
			},
		},
		Action: runScanCmd,
	}
}

// loadProjectConfig loads the --config file when given explicitly. Otherwise
// the project root is searched for any supported config file name.
func loadProjectConfig(c *cli.Context, root string) (*config.Config, error) {
	if c.IsSet("config") {
		return config.Load(c.String("config"))
	}
	cfg, _, err := config.LoadOrDefault(root)
	return cfg, err
}

func runScanCmd(c *cli.Context) error {
	projects := c.StringSlice("project")
	if len(projects) == 0 {
		projects = []string{"."}
	}
	format := output.ParseFormat(c.String("format"))
	verbose := c.Bool("verbose")
	errW := c.App.ErrWriter

	reqs := make([]seeker.Request, len(projects))
	for i, p := range projects {
		root, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid project path %s: %w", p, err)
		}
		cfg, err := loadProjectConfig(c, root)
		if err != nil {
			return err
		}
		reqs[i] = seeker.Request{Root: root, Config: cfg}
	}

	opts := []seeker.Option{
		seeker.WithLogger(statusLogger(errW)),
		seeker.WithWarnings(warningLogger(errW)),
		seeker.WithClearCache(c.Bool("clear-cache")),
		seeker.WithMaxWorkers(c.Int("jobs")),
	}

	var spinner *progress.Tracker
	switch {
	case verbose:
		opts = append(opts, seeker.WithProgress(scanTrace(errW, reqs)))
	case !c.Bool("no-progress"):
		spinner = progress.NewSpinnerTo(errW, "Scanning")
		opts = append(opts, seeker.WithProgress(spinner.Func()))
	}

	outcomes := seeker.New(opts...).RunAll(c.Context, reqs)

	var (
		views     output.Collection
		failed    int
		lastErr   error
		hasUnused bool
	)
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			lastErr = o.Err
		}
	}
	if spinner != nil {
		if failed > 0 {
			spinner.FinishError(fmt.Errorf("%d of %d projects failed", failed, len(outcomes)))
		} else {
			spinner.FinishSuccess()
		}
	}

	for _, o := range outcomes {
		if o.Err != nil {
			if len(outcomes) > 1 {
				color.New(color.FgRed).Fprintf(errW, "Error: %s: %v\n", o.Root, o.Err)
			}
			continue
		}
		hasUnused = hasUnused || o.Result.HasUnused()
		views = append(views, resultView(o.Result, format, verbose)...)
	}

	if len(views) > 0 {
		formatter := output.NewWriterFormatter(format, c.App.Writer, true)
		if path := c.String("output"); path != "" {
			var err error
			if formatter, err = output.NewFormatter(format, path, true); err != nil {
				return err
			}
		}
		defer formatter.Close()

		var data output.Renderable = views
		if len(views) == 1 {
			data = views[0]
		}
		if err := formatter.Output(data); err != nil {
			return err
		}
	}

	switch {
	case failed == 1 && len(outcomes) == 1:
		return lastErr
	case failed > 0:
		return fmt.Errorf("%d of %d projects failed", failed, len(outcomes))
	case hasUnused:
		return cli.Exit("", 1)
	}
	return nil
}

// resultView returns the renderables for one result. Verbose text and
// markdown output append the used-file and cycle tables.
func resultView(r *unused.ScanResult, format output.Format, verbose bool) []output.Renderable {
	views := []output.Renderable{r}
	if !verbose || format == output.FormatJSON || format == output.FormatTOON {
		return views
	}

	rows := make([][]string, 0, len(r.Used))
	for _, f := range r.Used {
		refs := make([]string, len(f.ReferencedBy))
		for i, ref := range f.ReferencedBy {
			refs[i] = r.Rel(ref)
		}
		rows = append(rows, []string{r.Rel(f.Path), strings.Join(refs, ", ")})
	}
	views = append(views, output.NewTable("Used Files", []string{"File", "Referenced By"}, rows, nil))

	if len(r.Cycles) > 0 {
		rows := make([][]string, len(r.Cycles))
		for i, cycle := range r.Cycles {
			rel := make([]string, len(cycle))
			for j, p := range cycle {
				rel[j] = r.Rel(p)
			}
			rows[i] = []string{fmt.Sprint(i + 1), strings.Join(rel, " -> ")}
		}
		views = append(views, output.NewTable("Import Cycles", []string{"#", "Files"}, rows, nil))
	}
	return views
}

// statusLogger prints status lines in cyan.
func statusLogger(w io.Writer) seeker.LogFunc {
	info := color.New(color.FgCyan)
	return func(format string, args ...any) {
		info.Fprintf(w, format+"\n", args...)
	}
}

// warningLogger prints files that could not be read in yellow.
func warningLogger(w io.Writer) unused.WarnFunc {
	warn := color.New(color.FgYellow)
	return func(fe unused.FileError) {
		warn.Fprintf(w, "error scanning %s: %v\n", fe.Path, fe.Err)
	}
}

// scanTrace prints every expanded file relative to the project that contains it.
func scanTrace(w io.Writer, reqs []seeker.Request) analyzer.ProgressFunc {
	return func(current, total int, path string) {
		rel := path
		for _, r := range reqs {
			if p, err := filepath.Rel(r.Root, path); err == nil && !strings.HasPrefix(p, "..") {
				rel = p
				break
			}
		}
		fmt.Fprintf(w, "Scanning: %s\n", rel)
	}
}
