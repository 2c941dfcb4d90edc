package unused

import (
	"fmt"
	"slices"
)

// CandidateFile is a file discovered by the scanner, annotated by the walker.
type CandidateFile struct {
	// Path is the absolute path and the file's identity.
	Path string `json:"path"`
	// Visited is set once the walker has expanded the file's references.
	Visited bool `json:"visited"`
	// ReferencedBy holds the distinct files importing this one, in discovery order.
	ReferencedBy []string `json:"referenced_by"`
}

// IsUsed reports whether at least one reference to the file was discovered.
func (f *CandidateFile) IsUsed() bool {
	return len(f.ReferencedBy) > 0
}

// addReferrer records from as an importer of f. Repeated imports count once.
func (f *CandidateFile) addReferrer(from string) {
	if slices.Contains(f.ReferencedBy, from) {
		return
	}
	f.ReferencedBy = append(f.ReferencedBy, from)
}

// Universe is the arena of candidate files for one run, addressed by absolute path.
// Membership is fixed at construction; only the walker annotates entries.
type Universe struct {
	files []*CandidateFile
	index map[string]uint32
}

// NewUniverse builds a universe from scanner output. Duplicate paths keep their first position.
func NewUniverse(paths []string) *Universe {
	u := &Universe{
		files: make([]*CandidateFile, 0, len(paths)),
		index: make(map[string]uint32, len(paths)),
	}
	for _, p := range paths {
		if _, ok := u.index[p]; ok {
			continue
		}
		u.index[p] = uint32(len(u.files))
		u.files = append(u.files, &CandidateFile{Path: p})
	}
	return u
}

// Len returns the number of candidate files.
func (u *Universe) Len() int {
	return len(u.files)
}

// lookup returns the candidate file for path.
func (u *Universe) lookup(path string) (*CandidateFile, bool) {
	idx, ok := u.index[path]
	if !ok {
		return nil, false
	}
	return u.files[idx], true
}

// Files returns the candidates in enumeration order.
func (u *Universe) Files() []*CandidateFile {
	return slices.Clone(u.files)
}

// FileError records a file that could not be read during traversal.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}
