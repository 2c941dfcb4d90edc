// Package unused finds the source files of a JavaScript or TypeScript project
// that cannot be reached from its entry point.
//
// The pipeline has four steps: module references are extracted from source text
// with regular expressions, each reference is resolved to a file on disk, a
// breadth-first walk from the entry point records which files import which, and
// the candidate universe is partitioned into used and unused files.
package unused

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/panbanda/unused-files-seeker/pkg/source"
	"github.com/spf13/afero"
)

// DefaultExtensions is the default probe order for extension-less references.
var DefaultExtensions = []string{".js", ".ts", ".jsx", ".tsx"}

// Analyzer runs reachability analysis for one project at a time.
type Analyzer struct {
	src           source.Source
	extractor     Extractor
	extensions    []string
	dependencyDir string
	warn          WarnFunc
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithFs reads and probes files through fs instead of the local filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *Analyzer) {
		a.src = source.NewFromFs(fs)
	}
}

// WithExtractor replaces the regular-expression extractor.
func WithExtractor(e Extractor) Option {
	return func(a *Analyzer) {
		a.extractor = e
	}
}

// WithExtensions sets the extension probe order used by the resolver.
func WithExtensions(exts []string) Option {
	return func(a *Analyzer) {
		if len(exts) > 0 {
			a.extensions = slices.Clone(exts)
		}
	}
}

// WithDependencyDir sets the directory, relative to the project root, probed for bare references.
func WithDependencyDir(dir string) Option {
	return func(a *Analyzer) {
		if dir != "" {
			a.dependencyDir = dir
		}
	}
}

// WithWarnings sets a callback for files that cannot be read.
func WithWarnings(fn WarnFunc) Option {
	return func(a *Analyzer) {
		a.warn = fn
	}
}

// New creates a new unused-file analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		src:           source.NewFilesystem(),
		extractor:     NewPatternExtractor(),
		extensions:    slices.Clone(DefaultExtensions),
		dependencyDir: DefaultDependencyDir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile-time check that Analyzer implements ProjectAnalyzer.
var _ analyzer.ProjectAnalyzer[*ScanResult] = (*Analyzer)(nil)

// Analyze walks the project from its entry point and classifies every candidate file.
// The universe, queue and expanded set live only for the duration of the call.
func (a *Analyzer) Analyze(ctx context.Context, p analyzer.Project) (*ScanResult, error) {
	entry := filepath.Clean(p.EntryPoint)
	universe := NewUniverse(p.Files)

	resolver := NewResolver(a.src, p.Root, a.extensions, a.dependencyDir)
	walker := NewWalker(a.src, a.extractor, resolver, a.warn)

	warnings, err := walker.Walk(ctx, entry, universe)
	if err != nil {
		return nil, err
	}

	result := Classify(universe, entry)
	result.Root = p.Root
	result.Warnings = warnings
	result.Cycles = ImportCycles(universe)
	return result, nil
}

// Close is a no-op.
func (a *Analyzer) Close() {}
