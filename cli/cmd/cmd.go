package cmd

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/modforge/luex/log"
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

// luaExt is the file extension recognized as Lua source.
const luaExt = ".lua"

// input is a source file together with the root directory it was found
// under. The root anchors relative paths when mirroring directory structure
// into an output directory.
type input struct {
	path string
	root string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// uniquePath reports whether path names a file not already in seen, and
// records it. Symlinks are resolved so the same file reached through
// different paths is counted once.
func uniquePath(path string, seen map[fileKey]struct{}) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return false
	}

	if _, exists := seen[key]; exists {
		return false
	}

	seen[key] = struct{}{}

	return true
}

// expandInputs resolves the given paths into a deduplicated list of Lua
// source files. A directory contributes its immediate *.lua entries, or its
// whole subtree when recursive is set. Files named explicitly are accepted
// regardless of extension. Unreadable paths are logged and skipped.
func expandInputs(
	ctx context.Context,
	paths []string,
	recursive bool,
) []input {
	seen := make(map[fileKey]struct{})
	inputs := make([]input, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			log.WarnContext(ctx, "skipping input",
				slog.String("path", path),
				slog.Any("error", err),
			)

			continue
		}

		if !info.IsDir() {
			if uniquePath(path, seen) {
				inputs = append(inputs, input{
					path: path,
					root: filepath.Dir(path),
				})
			}

			continue
		}

		for _, found := range findLuaFiles(ctx, path, recursive) {
			if uniquePath(found, seen) {
				inputs = append(inputs, input{path: found, root: path})
			}
		}
	}

	return inputs
}

// findLuaFiles returns the *.lua files under dir, in lexical walk order.
func findLuaFiles(ctx context.Context, dir string, recursive bool) []string {
	var found []string

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WarnContext(ctx, "skipping path",
				slog.String("path", path),
				slog.Any("error", err),
			)

			return nil
		}

		if d.IsDir() {
			if !recursive && path != dir {
				return fs.SkipDir
			}

			return nil
		}

		if strings.EqualFold(filepath.Ext(path), luaExt) {
			found = append(found, path)
		}

		return nil
	}

	_ = filepath.WalkDir(dir, walk)

	return found
}
