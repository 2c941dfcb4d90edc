package locator

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/panbanda/unused-files-seeker/pkg/source"
	"github.com/spf13/afero"
)

// DefaultCandidates are tried, in order, after any configured entry point.
var DefaultCandidates = []string{
	"index.js",
	"index.ts",
	"src/index.js",
	"src/index.ts",
}

// ErrNotFound matches any EntryNotFoundError via errors.Is.
var ErrNotFound = errors.New("no entry point found")

// EntryNotFoundError lists every candidate that was tried.
type EntryNotFoundError struct {
	Tried []string
}

func (e *EntryNotFoundError) Error() string {
	return "no entry point found. Tried: " + strings.Join(e.Tried, ", ")
}

func (e *EntryNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Options configures the Locate behavior.
type Options struct {
	Fs afero.Fs
}

// Option is a functional option for Locate.
type Option func(*Options)

// WithFs sets the filesystem candidates are checked against.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		o.Fs = fs
	}
}

// Candidates returns the entry point names tried for configured, without duplicates.
func Candidates(configured string) []string {
	tried := make([]string, 0, len(DefaultCandidates)+1)
	if configured != "" {
		tried = append(tried, configured)
	}
	for _, c := range DefaultCandidates {
		if !slices.Contains(tried, c) {
			tried = append(tried, c)
		}
	}
	return tried
}

// Locate returns the absolute path of the first candidate that is a regular
// file under projectRoot. Absolute candidates are used as given.
func Locate(projectRoot, configured string, opts ...Option) (string, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	src := source.NewFromFs(options.Fs)

	tried := Candidates(configured)
	for _, c := range tried {
		path := c
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, c)
		}
		if src.IsFile(path) {
			return path, nil
		}
	}

	return "", &EntryNotFoundError{Tried: tried}
}
