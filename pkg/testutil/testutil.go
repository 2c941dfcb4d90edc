package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// MemFS creates an in-memory filesystem for testing.
func MemFS() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile writes content to a file in the given filesystem.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// CreateFileTree creates multiple files from a map of path -> content
// and returns their absolute paths sorted as a directory walk would visit them.
func CreateFileTree(t *testing.T, fs afero.Fs, root string, files map[string]string) []string {
	t.Helper()
	for name, content := range files {
		WriteFile(t, fs, filepath.Join(root, name), content)
	}
	return listFiles(t, fs, root)
}

// listFiles returns all files below root in walk order.
func listFiles(t *testing.T, fs afero.Fs, root string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk(%s) error: %v", root, err)
	}
	return files
}

// UnreadableFs wraps an afero.Fs and fails every open of the listed paths
// while leaving Stat intact, the way a permission error would.
type UnreadableFs struct {
	afero.Fs
	Paths map[string]bool
}

// NewUnreadableFs returns fs with the given paths made unreadable.
func NewUnreadableFs(fs afero.Fs, paths ...string) *UnreadableFs {
	u := &UnreadableFs{Fs: fs, Paths: make(map[string]bool, len(paths))}
	for _, p := range paths {
		u.Paths[p] = true
	}
	return u
}

// Open implements afero.Fs.
func (u *UnreadableFs) Open(name string) (afero.File, error) {
	if u.Paths[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return u.Fs.Open(name)
}

// OpenFile implements afero.Fs.
func (u *UnreadableFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if u.Paths[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return u.Fs.OpenFile(name, flag, perm)
}
