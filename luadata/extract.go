package luadata

import (
	"regexp"
	"strings"
)

// callSite matches the head of a registration call, up to and including
// the opening brace of its argument-list literal: <name>:extend( {
// Whitespace is tolerated around the punctuation.
var callSite = regexp.MustCompile(
	`[A-Za-z_][A-Za-z0-9_.]*\s*:\s*extend\s*\(\s*\{`,
)

// Block is the raw argument-list literal of one call site, braces
// included, together with its span in the source text.
type Block struct {
	Raw   string // the {...} literal, or the remainder of input if truncated
	Start int    // byte offset of the opening brace
	End   int    // byte offset one past the closing brace (or len(src))

	// Truncated is set when end of input was reached before the braces
	// balanced. The block is closed at end of input rather than discarded,
	// a bounded-but-imperfect recovery.
	Truncated bool
}

// scanState tracks brace depth and quoting across a left-to-right scan.
// A backslash inside a string sets a one-shot escape so the following
// character never terminates the string early. Braces inside strings do
// not affect depth.
type scanState struct {
	depth   int
	quote   byte // active quote char, or 0 outside strings
	escaped bool
}

// step advances the state by one input byte and reports the depth after
// consuming it. The opener and closer arguments select which bracket pair
// adjusts the depth.
func (s *scanState) step(c, opener, closer byte) int {
	switch {
	case s.escaped:
		s.escaped = false

	case s.quote != 0:
		switch c {
		case '\\':
			s.escaped = true
		case s.quote:
			s.quote = 0
		}

	case c == '"' || c == '\'':
		s.quote = c

	case c == opener:
		s.depth++

	case c == closer:
		s.depth--
	}

	return s.depth
}

// ExtractBlocks scans full file text and returns one Block per call site,
// in source order. The search resumes immediately after each matched
// block, so call sites never overlap or nest into each other.
func ExtractBlocks(src string) []Block {
	var blocks []Block

	pos := 0

	for pos < len(src) {
		loc := callSite.FindStringIndex(src[pos:])
		if loc == nil {
			break
		}

		// The match ends at the opening brace.
		start := pos + loc[1] - 1
		state := scanState{depth: 1}

		end := -1

		for i := start + 1; i < len(src); i++ {
			if state.step(src[i], '{', '}') == 0 {
				end = i + 1

				break
			}
		}

		if end < 0 {
			// Depth never returned to zero: close at end of input.
			blocks = append(blocks, Block{
				Raw:       src[start:],
				Start:     start,
				End:       len(src),
				Truncated: true,
			})

			break
		}

		blocks = append(blocks, Block{
			Raw:   src[start:end],
			Start: start,
			End:   end,
		})

		pos = end
	}

	return blocks
}

// Inner returns the block's text with the braces of the outer array
// stripped, ready for SplitTables. A truncated block has no closing brace
// to strip.
func (b Block) Inner() string {
	s := strings.TrimPrefix(b.Raw, "{")

	if !b.Truncated {
		s = strings.TrimSuffix(s, "}")
	}

	return s
}

// SplitTables divides one block's inner text into the top-level
// table-literal substrings it contains, each a complete {...}. Characters
// at depth zero between tables (commas, whitespace, comments) are
// discarded.
//
// If the input ends while a table is still open, the partial accumulated
// substring is returned as the final element so the caller can report it
// as a diagnostic in its source position.
func SplitTables(inner string) []string {
	var (
		tables []string
		state  scanState
		start  = -1
	)

	for i := 0; i < len(inner); i++ {
		before := state.depth
		after := state.step(inner[i], '{', '}')

		switch {
		case before == 0 && after == 1:
			start = i

		case before == 1 && after == 0:
			tables = append(tables, inner[start:i+1])
			start = -1
		}
	}

	if start >= 0 {
		tables = append(tables, inner[start:])
	}

	return tables
}
