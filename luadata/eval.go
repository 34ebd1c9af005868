package luadata

import (
	"regexp"
	"strings"
)

// Evaluator resolves a non-literal scalar expression into a value. The
// second return value reports whether the expression was resolved; a miss
// is not an error, the caller keeps the original text.
type Evaluator interface {
	Evaluate(expr string) (Value, bool)
}

// Context maps dotted variable paths to values resolved best-effort from
// the file being converted. It is built fresh per file and never persists
// across files.
type Context map[string]Value

// defaultModPrefix is the conventional module prefix exposed to
// expressions via data_util.mod_prefix, matching the Space Exploration
// family of data files this tool was written against.
const defaultModPrefix = "se-"

// knownConstants is the small fixed table of domain constants the
// pattern-fallback strategy resolves dotted paths against.
var knownConstants = Context{
	"data_util.mod_prefix": String(defaultModPrefix),
}

// assignStatement matches simple top-level assignments whose right-hand
// side is a quoted string or a number literal. Anything fancier is left
// to the interpreter strategy.
var assignStatement = regexp.MustCompile(
	`(?m)^\s*(?:local\s+)?` +
		`([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)*)\s*=\s*` +
		`("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|-?[0-9]+(?:\.[0-9]+)?)\s*$`,
)

// ScanContext collects simple assignments from the file text into a
// Context for the pattern-fallback strategy. Only string and number
// right-hand sides are recognized.
func ScanContext(src string) Context {
	ctx := make(Context)

	for _, m := range assignStatement.FindAllStringSubmatch(src, -1) {
		path, rhs := m[1], m[2]

		if inner, ok := fullyQuoted(rhs); ok {
			ctx[path] = String(inner)

			continue
		}

		ctx[path] = parseNumberToken(rhs)
	}

	return ctx
}

// patternEvaluator is the fallback strategy used when no interpreter is
// available or the interpreter failed on an expression. It recognizes
// exactly two shapes: a dotted path concatenated with a quoted literal,
// and a bare dotted path. Everything else is unresolved.
type patternEvaluator struct {
	ctx Context
}

var (
	concatExpr = regexp.MustCompile(
		`^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)+)\s*\.\.\s*` +
			`("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')$`,
	)
	dottedExpr = regexp.MustCompile(
		`^[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)+$`,
	)
)

// Evaluate implements Evaluator.
func (e patternEvaluator) Evaluate(expr string) (Value, bool) {
	expr = strings.TrimSpace(expr)

	if m := concatExpr.FindStringSubmatch(expr); m != nil {
		base, ok := e.resolve(m[1])
		if !ok || base.Kind != KindString {
			return Value{}, false
		}

		lit := m[2][1 : len(m[2])-1]

		return String(base.Str + lit), true
	}

	if dottedExpr.MatchString(expr) {
		return e.resolve(expr)
	}

	return Value{}, false
}

// resolve looks a dotted path up in the per-file context first, then the
// fixed constants table.
func (e patternEvaluator) resolve(path string) (Value, bool) {
	if v, ok := e.ctx[path]; ok {
		return v, true
	}

	if v, ok := knownConstants[path]; ok {
		return v, true
	}

	return Value{}, false
}

// chain tries each evaluator in order; the first strategy to resolve an
// expression wins.
type chain []Evaluator

// Evaluate implements Evaluator.
func (c chain) Evaluate(expr string) (Value, bool) {
	for _, ev := range c {
		if v, ok := ev.Evaluate(expr); ok {
			return v, true
		}
	}

	return Value{}, false
}
