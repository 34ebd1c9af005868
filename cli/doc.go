// Package cli contains the command line interface for luex.
//
// # Usage
//
// The default command converts Lua data files to JSON:
//
//	luex convert data.lua
//	luex *.lua --format yaml --output out/
//
// Run without arguments (or with --pick) to choose input files from an
// interactive fuzzy-filtered picker.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text-format output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/luex/pprof)
package cli
