package luadata

import (
	"log/slog"

	"github.com/modforge/luex/log"
)

// config collects the per-conversion options.
type config struct {
	interp    bool
	companion CompanionLoader
}

// Option configures one Convert call.
type Option func(*config)

// WithInterpreter enables or disables the interpreter-backed expression
// strategy. The pattern fallback is always available; disabling the
// interpreter only reduces expression-resolution completeness, never the
// parsing of literal content.
func WithInterpreter(enable bool) Option {
	return func(c *config) { c.interp = enable }
}

// WithCompanion sets the loader that supplies an optional companion
// module to the interpreter strategy.
func WithCompanion(load CompanionLoader) Option {
	return func(c *config) { c.companion = load }
}

// Convert parses all call sites in one file's text and returns the
// parsed tables as one flat sequence: call sites in file order, tables
// within a call site in literal order. A table that fails to parse is
// replaced by a diagnostic value in its position, so the sequence length
// always equals the number of table literals found.
//
// Each call builds a fresh evaluator; no state carries across files.
func Convert(src string, opts ...Option) []Value {
	cfg := config{interp: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	evals := make(chain, 0, 2)

	if cfg.interp {
		interp := newLuaEvaluator(cfg.companion)
		defer interp.Close()

		evals = append(evals, interp)
	}

	evals = append(evals, patternEvaluator{ctx: ScanContext(src)})

	blocks := ExtractBlocks(src)
	values := make([]Value, 0, len(blocks))

	for _, block := range blocks {
		if block.Truncated {
			log.Warn("call site not terminated; consumed to end of input",
				slog.Int("offset", block.Start),
			)
		}

		for _, tab := range SplitTables(block.Inner()) {
			v, err := ParseTable(tab, evals)
			if err != nil {
				log.Debug("table literal failed to parse",
					slog.Any("error", err),
					slog.Int("length", len(tab)),
				)

				v = Diagnostic(tab, err)
			}

			values = append(values, v)
		}
	}

	return values
}
