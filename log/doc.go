// Package log wraps [log/slog] with the small surface the luex command
// needs: leveled package-level functions writing to a process-wide
// default logger, functional options for level, format, timestamp layout,
// and caller info, and an optional colorized text handler for terminals.
//
// The default logger is reconfigured in place by [Config], which the CLI
// calls as early as flag parsing allows so that even errors produced
// while parsing flags are formatted per the user's preference.
package log
