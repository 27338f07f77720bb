package render

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/klauspost/readahead"
)

// Filesystem supplies template sources to the renderer.
type Filesystem interface {
	// Read returns the contents of the template at path.
	Read(path string) (string, error)
	// Resolve returns the path of relative as referenced from the template
	// at current.
	Resolve(current, relative string) (string, error)
}

// ErrOutsideRoot is returned when a template reference escapes the root.
var ErrOutsideRoot = errors.New("path escapes template root")

// resolve joins relative onto the directory of current. A leading slash
// makes relative absolute with respect to the root.
func resolve(current, relative string) (string, error) {
	var joined string

	if rest, ok := strings.CutPrefix(relative, "/"); ok {
		joined = path.Clean(rest)
	} else {
		joined = path.Join(path.Dir(current), relative)
	}

	if !fs.ValidPath(joined) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, relative)
	}

	return joined, nil
}

// DirFS reads templates from a directory tree.
type DirFS struct {
	fsys fs.FS
	root string
}

// NewDirFS returns a [DirFS] rooted at dir.
func NewDirFS(dir string) *DirFS {
	return &DirFS{fsys: os.DirFS(dir), root: dir}
}

// Root returns the directory templates are read from.
func (d *DirFS) Root() string { return d.root }

// Read implements [Filesystem].
func (d *DirFS) Read(name string) (string, error) {
	f, err := d.fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	return string(data), nil
}

// Resolve implements [Filesystem].
func (d *DirFS) Resolve(current, relative string) (string, error) {
	return resolve(current, relative)
}

// MapFS is an in-memory [Filesystem] keyed by slash-separated path.
type MapFS map[string]string

// Read implements [Filesystem].
func (m MapFS) Read(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return src, nil
}

// Resolve implements [Filesystem].
func (m MapFS) Resolve(current, relative string) (string, error) {
	return resolve(current, relative)
}
