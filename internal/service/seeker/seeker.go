// Package seeker wires configuration, the file scanner, the entry point
// locator and the unused-file analyzer into a single run per project.
package seeker

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/panbanda/unused-files-seeker/internal/cache"
	"github.com/panbanda/unused-files-seeker/internal/locator"
	"github.com/panbanda/unused-files-seeker/internal/scanner"
	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/panbanda/unused-files-seeker/pkg/analyzer/unused"
	"github.com/panbanda/unused-files-seeker/pkg/config"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// LogFunc receives status lines. It matches fmt.Printf.
type LogFunc func(format string, args ...any)

// Service runs unused-file analyses.
type Service struct {
	fs         afero.Fs
	logf       LogFunc
	warn       unused.WarnFunc
	progress   analyzer.ProgressFunc
	maxWorkers int
	clearCache bool
}

// Option configures a Service.
type Option func(*Service)

// WithFs sets the filesystem projects are read from.
func WithFs(fs afero.Fs) Option {
	return func(s *Service) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithLogger sets the sink for status lines.
func WithLogger(logf LogFunc) Option {
	return func(s *Service) {
		s.logf = logf
	}
}

// WithWarnings sets a callback for files that cannot be read during the walk.
func WithWarnings(fn unused.WarnFunc) Option {
	return func(s *Service) {
		s.warn = fn
	}
}

// WithClearCache empties each project's reference cache before it is used.
func WithClearCache(clear bool) Option {
	return func(s *Service) {
		s.clearCache = clear
	}
}

// WithProgress sets a callback invoked for every file the walk expands.
func WithProgress(fn analyzer.ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithMaxWorkers bounds how many projects RunAll analyzes at once.
func WithMaxWorkers(n int) Option {
	return func(s *Service) {
		s.maxWorkers = n
	}
}

// New creates a new seeker service.
func New(opts ...Option) *Service {
	s := &Service{
		fs:   afero.NewOsFs(),
		logf: func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}
	if s.maxWorkers <= 0 {
		s.maxWorkers = runtime.NumCPU()
	}
	return s
}

// Run analyzes the project at projectRoot: it collects the file universe,
// locates the entry point and walks the reference graph from it.
func (s *Service) Run(ctx context.Context, projectRoot string, cfg *config.Config) (*unused.ScanResult, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid project root %s: %w", projectRoot, err)
	}

	files, err := scanner.NewScanner(cfg, scanner.WithFs(s.fs)).ScanDir(root)
	if err != nil {
		return nil, err
	}

	entry, err := locator.Locate(root, cfg.EntryPoint, locator.WithFs(s.fs))
	if err != nil {
		return nil, err
	}

	others := len(files)
	for _, f := range files {
		if f == entry {
			others--
			break
		}
	}
	s.logf("%d files found (without entry point)", others)
	s.logf("Entry point: %s", rel(root, entry))

	var (
		extractor unused.Extractor = unused.NewPatternExtractor()
		refCache  *cache.Cache
		cached    *cache.Extractor
	)
	if cfg.Cache.Enabled {
		if refCache, err = s.openCache(root, cfg); err != nil {
			return nil, err
		}
		cached = cache.NewExtractor(extractor, refCache)
		extractor = cached
	}

	a := unused.New(
		unused.WithFs(s.fs),
		unused.WithExtractor(extractor),
		unused.WithExtensions(cfg.Extensions),
		unused.WithDependencyDir(cfg.DependencyDir),
		unused.WithWarnings(s.warn),
	)
	defer a.Close()

	if s.progress != nil {
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(s.progress))
	}

	result, err := a.Analyze(ctx, analyzer.Project{
		Root:       root,
		EntryPoint: entry,
		Files:      files,
	})
	if err != nil {
		return nil, err
	}

	if cached != nil {
		s.logCache(cached, refCache)
	}
	return result, nil
}

func (s *Service) openCache(root string, cfg *config.Config) (*cache.Cache, error) {
	dir := cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	c, err := cache.New(dir, cfg.Cache.TTL, true, cache.WithFs(s.fs))
	if err != nil {
		return nil, err
	}
	if s.clearCache {
		if err := c.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", dir, err)
		}
	}
	return c, nil
}

func (s *Service) logCache(e *cache.Extractor, c *cache.Cache) {
	hits, misses := e.Counts()
	stats, err := c.GetStats()
	if err != nil {
		s.logf("Cache: %d hits, %d misses", hits, misses)
		return
	}
	s.logf("Cache: %d hits, %d misses, %d entries (%d bytes)", hits, misses, stats.Entries, stats.TotalSize)
}

// Request names one project to analyze.
type Request struct {
	Root   string
	Config *config.Config
}

// Outcome is the result of one Request.
type Outcome struct {
	Root   string
	Result *unused.ScanResult
	Err    error
}

// RunAll analyzes every request concurrently. Outcomes are returned in
// request order; one project failing does not stop the others.
func (s *Service) RunAll(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	p := pool.New().WithMaxGoroutines(s.maxWorkers)
	for i, req := range reqs {
		p.Go(func() {
			res, err := s.Run(ctx, req.Root, req.Config)
			outcomes[i] = Outcome{Root: req.Root, Result: res, Err: err}
		})
	}
	p.Wait()

	return outcomes
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
