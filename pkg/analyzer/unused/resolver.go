package unused

import (
	"path/filepath"

	"github.com/panbanda/unused-files-seeker/pkg/source"
)

// DefaultDependencyDir is the project-level directory probed for bare references.
const DefaultDependencyDir = "node_modules"

// Resolver maps a module reference to the file it denotes.
// It does no caching; every call probes the filesystem again.
type Resolver struct {
	src           source.Source
	projectRoot   string
	extensions    []string
	dependencyDir string
}

// NewResolver creates a resolver probing extensions in the given order.
// An empty dependencyDir selects DefaultDependencyDir.
func NewResolver(src source.Source, projectRoot string, extensions []string, dependencyDir string) *Resolver {
	if dependencyDir == "" {
		dependencyDir = DefaultDependencyDir
	}
	return &Resolver{
		src:           src,
		projectRoot:   projectRoot,
		extensions:    extensions,
		dependencyDir: dependencyDir,
	}
}

// Candidates returns the probe order for ref as imported from containingFile:
// the reference itself, ref+ext for each extension, ref/index+ext for each
// extension, then ref under the dependency directory.
// The extension is appended to the raw reference before the path is cleaned,
// so "./lib/" probes lib/.ts rather than lib.ts.
func (r *Resolver) Candidates(ref, containingFile string) []string {
	dir := filepath.Dir(containingFile)
	base := join(dir, ref)

	candidates := make([]string, 0, 2+2*len(r.extensions))
	candidates = append(candidates, base)
	for _, ext := range r.extensions {
		candidates = append(candidates, join(dir, ref+ext))
	}
	for _, ext := range r.extensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}
	candidates = append(candidates, join(filepath.Join(r.projectRoot, r.dependencyDir), ref))
	return candidates
}

// Resolve returns the first candidate that is an existing file.
func (r *Resolver) Resolve(ref, containingFile string) (string, bool) {
	for _, candidate := range r.Candidates(ref, containingFile) {
		if r.src.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// join resolves ref against dir the way a path resolver would:
// an absolute ref replaces dir entirely.
func join(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(dir, ref)
}
