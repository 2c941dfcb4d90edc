package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/unused-files-seeker/pkg/config"
	"github.com/spf13/afero"
)

// Scanner collects candidate files below a project's scan folder.
type Scanner struct {
	fs     afero.Fs
	config *config.Config

	matchers  []gitignore.Matcher
	matchRoot string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFs sets the filesystem to walk.
func WithFs(fs afero.Fs) Option {
	return func(s *Scanner) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config, opts ...Option) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{
		fs:     afero.NewOsFs(),
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanRoot returns the directory ScanDir walks for projectRoot.
func (s *Scanner) ScanRoot(projectRoot string) string {
	folder := s.config.ScanFolder
	if folder == "" {
		folder = config.DefaultConfig().ScanFolder
	}
	if filepath.IsAbs(folder) {
		return filepath.Clean(folder)
	}
	return filepath.Join(projectRoot, folder)
}

// ScanDir returns every file below the scan folder that carries a configured
// extension and is not ignored, in lexical walk order.
func (s *Scanner) ScanDir(projectRoot string) ([]string, error) {
	root := s.ScanRoot(projectRoot)

	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, &ScanRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanRootError{Path: root, Err: errNotDir}
	}

	walkRoot, err := s.resolveLinks(root)
	if err != nil {
		return nil, &ScanRootError{Path: root, Err: err}
	}

	s.matchers = nil
	if s.config.Gitignore {
		s.loadGitignore(projectRoot)
	}

	files := make([]string, 0, 256)
	walkErr := afero.Walk(s.fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if path == walkRoot {
			return nil
		}

		// Hidden entries are never candidates.
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil
		}
		// Report paths under the scan folder as configured, not its link target.
		path = filepath.Join(root, rel)

		if info.IsDir() {
			if s.Ignored(rel, true) || s.gitignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.Ignored(rel, false) || s.gitignored(path, false) {
			return nil
		}
		if s.config.HasExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, &ScanError{Path: root, Err: walkErr}
	}

	return files, nil
}

// resolveLinks returns the directory to walk for root. afero.Walk does not
// descend into a symlinked root, so on the real filesystem the link is
// resolved first.
func (s *Scanner) resolveLinks(root string) (string, error) {
	lstater, ok := s.fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	info, lstatCalled, err := lstater.LstatIfPossible(root)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return root, nil
	}
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return root, nil
	}
	return filepath.EvalSymlinks(root)
}

// Ignored reports whether rel, a slash or OS separated path relative to the
// scan root, falls under one of the configured ignore fragments.
func (s *Scanner) Ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	for _, frag := range s.config.IgnorePaths {
		frag = strings.Trim(filepath.ToSlash(frag), "/")
		if frag == "" {
			continue
		}
		if ok, _ := doublestar.Match("**/"+frag+"/**", rel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match("**/"+frag, rel); ok {
				return true
			}
		}
	}
	return false
}

// loadGitignore reads .gitignore patterns. On the real filesystem the
// enclosing repository's patterns are read recursively; on other filesystems
// only the project root's .gitignore is consulted.
func (s *Scanner) loadGitignore(projectRoot string) {
	var patterns []gitignore.Pattern

	if _, ok := s.fs.(*afero.OsFs); ok {
		s.matchRoot = projectRoot
		if repo, err := git.PlainOpenWithOptions(projectRoot, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
			if wt, err := repo.Worktree(); err == nil {
				s.matchRoot = wt.Filesystem.Root()
			}
		}
		if ps, err := gitignore.ReadPatterns(osfs.New(s.matchRoot), nil); err == nil {
			patterns = ps
		}
	} else {
		s.matchRoot = projectRoot
		data, err := afero.ReadFile(s.fs, filepath.Join(projectRoot, ".gitignore"))
		if err == nil {
			patterns = parsePatterns(data)
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func parsePatterns(data []byte) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func (s *Scanner) gitignored(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	rel, err := filepath.Rel(s.matchRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

var errNotDir = errors.New("not a directory")

// ScanRootError indicates the scan folder is missing or not a directory.
type ScanRootError struct {
	Path string
	Err  error
}

func (e *ScanRootError) Error() string {
	return "scan folder does not exist: " + e.Path
}

func (e *ScanRootError) Unwrap() error {
	return e.Err
}

// ScanError indicates the walk itself failed.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "error scanning files in " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
