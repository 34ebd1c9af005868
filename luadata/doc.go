// Package luadata extracts and parses the table literals registered by
// data:extend call sites in Factorio-style Lua data files.
//
// The package is not a Lua interpreter. It locates each call site shaped
// like
//
//	data:extend({ <table>, <table>, ... })
//
// splits the argument list into independent top-level table literals, and
// parses each literal into a [Value] tree that marshals losslessly to
// JSON. Literal content (tables, quoted strings, numbers, booleans, nil,
// comments) is parsed structurally. Non-literal scalar expressions are
// resolved best-effort by an [Evaluator]: an embedded Lua interpreter when
// enabled, falling back to a pattern matcher that understands dotted
// variable references and string concatenation. Anything the evaluator
// cannot resolve is preserved verbatim as an opaque string.
//
// Parsing is deliberately tolerant. A table literal that fails to parse
// becomes a [KindDiagnostic] value carrying the raw source text and the
// error message, and its siblings are unaffected. A call site whose braces
// never balance is consumed to end of input and flagged, never looped on.
//
// One quirk is preserved on purpose: a table's array-vs-map shape is
// decided once from its first significant token and held for the whole
// table. Entries that do not match the decided shape are still fed through
// the same-mode entry parser, which can drop or misplace data for
// genuinely mixed-shape tables. Downstream consumers depend on this exact
// behavior.
package luadata
