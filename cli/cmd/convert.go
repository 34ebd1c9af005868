package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modforge/luex/cli/picker"
	"github.com/modforge/luex/log"
	"github.com/modforge/luex/luadata"
)

// defaultDirMode is the permission mode for created output directories.
var defaultDirMode os.FileMode = 0o755

// Convert extracts prototype data tables from Lua source files and writes
// them as JSON or YAML documents.
type Convert struct {
	Paths     []string `arg:""          help:"Lua source file(s) or directories"    name:"path" optional:"" type:"path"`
	Output    string   `                help:"Output file or directory, '-' for stdout"         short:"o"   type:"path"`
	Format    string   `default:"json"  help:"Output encoding"                                  enum:"json,yaml"`
	Indent    int      `default:"2"     help:"Indentation width"`
	Recursive bool     `                help:"Recurse into directories for *.lua files"         short:"r"`
	Pick      bool     `                help:"Select input files interactively"`
	NoInterp  bool     `                help:"Disable the embedded Lua interpreter" name:"no-interp"`
}

// Run executes the convert command.
func (c *Convert) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	paths := c.Paths
	if len(paths) == 0 || c.Pick {
		paths, err = c.pickInputs(ctx)
		if err != nil {
			return err
		}
	}

	inputs := expandInputs(ctx, paths, c.Recursive)
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	var failed int

	for _, in := range inputs {
		err := c.convertFile(ctx, in, len(inputs) > 1)
		if err != nil {
			failed++

			log.ErrorContext(ctx, "convert failed",
				slog.String("path", in.path),
				slog.Any("error", err),
			)
		}
	}

	if failed > 0 {
		return ErrConvertBatch.With(
			slog.Int("failed", failed),
			slog.Int("total", len(inputs)),
		)
	}

	return nil
}

// pickInputs presents an interactive selector over the candidate files. The
// candidates are the explicit paths expanded, or the *.lua files under the
// working directory when no paths were given.
func (c *Convert) pickInputs(ctx context.Context) ([]string, error) {
	roots := c.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}

	expanded := expandInputs(ctx, roots, c.Recursive)

	candidates := make([]string, 0, len(expanded))
	for _, in := range expanded {
		candidates = append(candidates, in.path)
	}

	if len(candidates) == 0 {
		return nil, ErrNoInputs
	}

	return picker.Run(ctx, candidates)
}

// convertFile converts a single source file and writes the encoded result.
func (c *Convert) convertFile(
	ctx context.Context,
	in input,
	batch bool,
) error {
	src, err := os.ReadFile(in.path)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("path", in.path))
	}

	values := luadata.Convert(string(src),
		luadata.WithInterpreter(!c.NoInterp),
		luadata.WithCompanion(
			luadata.DirCompanionLoader(filepath.Dir(in.path)),
		),
	)

	out, dest, err := c.openOutput(ctx, in, batch)
	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("path", in.path))
	}

	if closer, ok := out.(io.Closer); ok {
		defer closer.Close()
	}

	switch c.Format {
	case "yaml":
		err = luadata.EncodeYAML(out, values, c.Indent)
	default:
		err = luadata.EncodeJSON(out, values, c.Indent)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("path", dest))
	}

	log.InfoContext(ctx, "converted",
		slog.String("source", in.path),
		slog.String("output", dest),
		slog.Int("tables", len(values)),
	)

	return nil
}

// openOutput resolves and opens the destination for a converted file.
// The default is a sibling of the source with the encoding's extension. An
// --output directory receives the source's path relative to its input root,
// mirroring directory structure for recursive conversions.
func (c *Convert) openOutput(
	ctx context.Context,
	in input,
	batch bool,
) (io.Writer, string, error) {
	if c.Output == "-" {
		if ktx := kongContextFrom(ctx); ktx != nil {
			return ktx.Stdout, "-", nil
		}

		return os.Stdout, "-", nil
	}

	ext := "." + c.Format

	var dest string

	switch {
	case c.Output == "":
		stem := strings.TrimSuffix(filepath.Base(in.path), filepath.Ext(in.path))
		dest = filepath.Join(filepath.Dir(in.path), stem+ext)

	case isOutputDir(c.Output) || batch:
		rel, err := filepath.Rel(in.root, in.path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(in.path)
		}

		dest = filepath.Join(
			c.Output,
			strings.TrimSuffix(rel, filepath.Ext(rel))+ext,
		)

	default:
		dest = c.Output
	}

	err := os.MkdirAll(filepath.Dir(dest), defaultDirMode)
	if err != nil {
		return nil, dest, err
	}

	file, err := os.Create(dest)
	if err != nil {
		return nil, dest, err
	}

	return file, dest, nil
}

// isOutputDir reports whether path names an existing directory or is spelled
// with a trailing separator.
func isOutputDir(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
