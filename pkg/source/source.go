package source

import "github.com/spf13/afero"

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// Source is a ContentSource that can also answer existence probes.
type Source interface {
	ContentSource

	// IsFile reports whether path names an existing regular file.
	// Directories and missing paths report false.
	IsFile(path string) bool
}

// FilesystemSource reads files from an afero filesystem.
type FilesystemSource struct {
	fs afero.Fs
}

// NewFilesystem creates a source that reads from the local filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{fs: afero.NewOsFs()}
}

// NewFromFs creates a source backed by fs. A nil fs means the local filesystem.
func NewFromFs(fs afero.Fs) *FilesystemSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FilesystemSource{fs: fs}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// IsFile implements Source. Stat follows symlinks, so a dangling link is not a file.
func (f *FilesystemSource) IsFile(path string) bool {
	info, err := f.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
