package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" when ctx carries no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// Data selects the data context that templates and expressions are
// evaluated against.
type Data struct {
	Context []string `help:"Data context file(s) or '-' for stdin, merged in order" placeholder:"FILE"          short:"c" type:"existingfile"`
	Format  string   `help:"Data context format (auto selects by file extension)"   enum:"auto,json,yaml" default:"auto"`

	// Stdin replaces os.Stdin as the "-" source.
	Stdin io.Reader `kong:"-"`
}

// Scope decodes the selected sources. A single source may hold any value;
// several sources must all be objects and are merged in order, later keys
// replacing earlier ones.
//
// Without context files the data context is read from stdin when it is
// redirected, and blank input yields an empty object. A terminal stdin is
// not read and also yields an empty object.
func (d *Data) Scope(ctx context.Context) (lang.Value, error) {
	paths, implicit := d.Context, false
	if len(paths) == 0 && (d.Stdin != nil || stdinRedirected()) {
		paths, implicit = []string{stdinSource}, true
	}

	srcs, err := openSources(paths, d.stdin())
	if err != nil {
		return lang.Value{}, ErrReadContext.Wrap(err)
	}
	defer srcs.Close()

	merged := lang.NewObject()

	for _, src := range srcs {
		if implicit {
			data, err := io.ReadAll(src)
			if err != nil {
				return lang.Value{}, ErrReadContext.Wrap(err).
					With(slog.String("source", src.name))
			}

			if len(bytes.TrimSpace(data)) == 0 {
				break
			}

			src.Reader = bytes.NewReader(data)
		}

		v, err := d.decode(ctx, src)
		if err != nil {
			return lang.Value{}, ErrReadContext.Wrap(err).
				With(slog.String("source", src.name))
		}

		if len(srcs) == 1 {
			return v, nil
		}

		if v.Kind() != lang.KindObject {
			return lang.Value{}, ErrMergeContext.With(
				slog.String("source", src.name),
				slog.String("kind", v.Kind().String()),
			)
		}

		for k, val := range v.Object().All() {
			merged.Set(k, val)
		}
	}

	log.DebugContext(ctx, "data context loaded",
		slog.Int("sources", len(srcs)),
		slog.Int("keys", merged.Len()))

	return lang.ObjectValue(merged), nil
}

func (d *Data) stdin() io.Reader {
	if d.Stdin != nil {
		return d.Stdin
	}

	return os.Stdin
}

// stdinRedirected reports whether os.Stdin is a pipe or a regular file.
func stdinRedirected() bool {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return false
	}

	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeNamedPipe != 0 || info.Mode().IsRegular()
}

func (d *Data) decode(ctx context.Context, src source) (lang.Value, error) {
	if d.formatOf(src.name) == "yaml" {
		return lang.DecodeYAML(ctx, src)
	}

	return lang.DecodeJSON(src)
}

func (d *Data) formatOf(name string) string {
	if d.Format != "" && d.Format != "auto" {
		return d.Format
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// source is one opened data context input.
type source struct {
	io.Reader

	closer io.Closer
	name   string
}

type sources []source

// Close closes every opened file. Stdin is left open.
func (s sources) Close() {
	for _, src := range s {
		if src.closer != nil {
			_ = src.closer.Close()
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources opens the given paths in order, skipping files already opened
// under another name. Every occurrence of "-", and any path naming the
// same file as os.Stdin, collapses into a single source reading stdin,
// placed last.
func openSources(paths []string, stdin io.Reader) (srcs sources, err error) {
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	stdinOK := false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, stdinOK = makeFileKey(info)
	}

	hasStdin := false

	defer func() {
		if err != nil {
			srcs.Close()
			srcs = nil
		}
	}()

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, err
		}

		if file == nil {
			continue
		}

		if stdinOK && key == stdinKey {
			_ = file.Close()
			hasStdin = true

			continue
		}

		srcs = append(srcs, source{Reader: file, closer: file, name: path})
	}

	if hasStdin {
		srcs = append(srcs, source{Reader: stdin, name: stdinSource})
	}

	return srcs, nil
}

// openUniqueFile opens the file at path unless a file with the same device
// and inode is already in seen, in which case it returns a nil file.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// stdout returns w, or os.Stdout when w is nil.
func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

// stderr returns w, or os.Stderr when w is nil.
func stderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}

	return w
}
