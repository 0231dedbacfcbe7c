// Package fs wraps an afero filesystem with the workspace-root path
// discipline every file-taking tool handler shares: paths resolve
// relative to the root, and anything escaping it is rejected before the
// filesystem is touched.
package fs

import (
	"github.com/spf13/afero"

	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Workspace is the bounded filesystem view handed to tool handlers. The
// production wiring uses the OS filesystem; tests swap in an in-memory
// one.
type Workspace struct {
	root string
	fs   afero.Fs
}

// New returns a Workspace over the OS filesystem rooted at root.
func New(root string) *Workspace {
	return &Workspace{root: root, fs: afero.NewOsFs()}
}

// NewWith returns a Workspace over an arbitrary afero filesystem,
// typically afero.NewMemMapFs() in tests.
func NewWith(root string, fsys afero.Fs) *Workspace {
	return &Workspace{root: root, fs: fsys}
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string { return w.root }

// Fs exposes the underlying afero filesystem for handlers that need
// operations beyond the convenience wrappers below.
func (w *Workspace) Fs() afero.Fs { return w.fs }

// Resolve normalizes raw against the workspace root and rejects any
// path that is not a descendant of it.
func (w *Workspace) Resolve(raw string) (string, error) {
	return toolsurface.ResolvePath(w.root, raw)
}

// ReadFile resolves raw and reads its contents.
func (w *Workspace) ReadFile(raw string) (string, []byte, error) {
	abs, err := w.Resolve(raw)
	if err != nil {
		return "", nil, err
	}
	data, err := afero.ReadFile(w.fs, abs)
	return abs, data, err
}

// Exists resolves raw and reports whether a file or directory is there.
func (w *Workspace) Exists(raw string) bool {
	abs, err := w.Resolve(raw)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(w.fs, abs)
	return err == nil && ok
}
