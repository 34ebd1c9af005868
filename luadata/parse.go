package luadata

import (
	"errors"
	"log/slog"
	"strings"
)

// ParseTable parses one table-literal substring into an Array or Table
// value. The input must begin with '{' (after leading whitespace and
// comments) and end with the matching '}'.
//
// The evaluator resolves non-literal scalar expressions and may be nil,
// in which case such expressions are kept verbatim as opaque values.
func ParseTable(text string, ev Evaluator) (Value, error) {
	p := &parser{input: text, eval: ev}

	p.skipSpace()

	if p.eof() || p.peek() != '{' {
		return Value{}, ErrExpectedBrace.
			With(slog.Int("pos", p.pos))
	}

	p.pos++

	return p.parseTableBody()
}

// parser holds the parse cursor for one table literal. Each parse call
// owns its cursor; there is no shared state.
type parser struct {
	input string
	pos   int
	eval  Evaluator
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte { return p.input[p.pos] }

// skipSpace advances past whitespace, line comments (-- to end of line),
// and block comments (--[[ to the first following ]], or end of input if
// unterminated).
func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
			c == '\v' || c == '\f':
			p.pos++

		case strings.HasPrefix(p.input[p.pos:], "--[["):
			end := strings.Index(p.input[p.pos+4:], "]]")
			if end < 0 {
				p.pos = len(p.input)
			} else {
				p.pos += 4 + end + 2
			}

		case strings.HasPrefix(p.input[p.pos:], "--"):
			nl := strings.IndexByte(p.input[p.pos:], '\n')
			if nl < 0 {
				p.pos = len(p.input)
			} else {
				p.pos += nl + 1
			}

		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

// readIdent consumes an identifier ([A-Za-z_][A-Za-z0-9_-]*) at the
// cursor, or returns "" without advancing.
func (p *parser) readIdent() string {
	if p.eof() || !isIdentStart(p.peek()) {
		return ""
	}

	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}

	return p.input[start:p.pos]
}

// parseTableBody parses entries after the opening brace has been
// consumed. The table's array-vs-map shape is decided here, once, from
// the first significant token, and held for the entire table.
func (p *parser) parseTableBody() (Value, error) {
	save := p.pos
	isMap := p.looksLikeKey()
	p.pos = save

	if isMap {
		return p.parseMapEntries()
	}

	return p.parseArrayItems()
}

// looksLikeKey reports whether the next significant token is an
// identifier followed by '='.
func (p *parser) looksLikeKey() bool {
	p.skipSpace()

	if p.readIdent() == "" {
		return false
	}

	p.skipSpace()

	return !p.eof() && p.peek() == '='
}

// parseArrayItems parses the table in array mode. A bracketed key form
// [ <value> ] = <value> is accepted and stored positionally as a
// one-entry table without switching the overall classification.
func (p *parser) parseArrayItems() (Value, error) {
	items := []Value{}

	for {
		p.skipSpace()

		if p.eof() {
			return Value{}, ErrUnterminatedTable.
				With(slog.Int("items", len(items)))
		}

		switch p.peek() {
		case '}':
			p.pos++

			return Array(items...), nil

		case '[':
			entry, err := p.parseBracketedEntry()
			if err != nil {
				return Value{}, err
			}

			items = append(items, Table(entry))

		default:
			v, err := p.parseValue()
			if errors.Is(err, ErrEmptyScalar) {
				// Nothing recognizable here; skip one character so the
				// scan always terminates.
				p.pos++

				continue
			}

			if err != nil {
				return Value{}, err
			}

			items = append(items, v)
		}

		p.skipSpace()

		// A comma between entries is optional before a closing brace.
		if !p.eof() && p.peek() == ',' {
			p.pos++
		}
	}
}

// parseMapEntries parses the table in map mode. Any character that does
// not begin a recognizable key=value pair is skipped one at a time rather
// than aborting the table.
func (p *parser) parseMapEntries() (Value, error) {
	entries := []Entry{}

	for {
		p.skipSpace()

		if p.eof() {
			return Value{}, ErrUnterminatedTable.
				With(slog.Int("entries", len(entries)))
		}

		switch {
		case p.peek() == '}':
			p.pos++

			return Table(entries...), nil

		case p.peek() == '[':
			entry, err := p.parseBracketedEntry()
			if err != nil {
				return Value{}, err
			}

			entries = append(entries, entry)

		default:
			key, ok := p.tryKey()
			if !ok {
				p.pos++

				continue
			}

			v, err := p.parseValue()
			if errors.Is(err, ErrEmptyScalar) {
				p.pos++

				continue
			}

			if err != nil {
				return Value{}, err
			}

			entries = append(entries, Entry{Key: key, Value: v})
		}

		p.skipSpace()

		if !p.eof() && p.peek() == ',' {
			p.pos++
		}
	}
}

// tryKey consumes "<identifier> =" and returns the identifier, or leaves
// the cursor unchanged.
func (p *parser) tryKey() (string, bool) {
	save := p.pos

	ident := p.readIdent()
	if ident == "" {
		p.pos = save

		return "", false
	}

	p.skipSpace()

	if p.eof() || p.peek() != '=' {
		p.pos = save

		return "", false
	}

	p.pos++ // '='

	return ident, true
}

// parseBracketedEntry parses the explicit key form [ <value> ] = <value>.
func (p *parser) parseBracketedEntry() (Entry, error) {
	p.pos++ // '['

	key, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}

	p.skipSpace()

	if p.eof() || p.peek() != ']' {
		return Entry{}, ErrExpectedKey.With(slog.Int("pos", p.pos))
	}

	p.pos++

	p.skipSpace()

	if p.eof() || p.peek() != '=' {
		return Entry{}, ErrExpectedAssign.With(slog.Int("pos", p.pos))
	}

	p.pos++

	v, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}

	return Entry{Key: key.keyString(), Value: v}, nil
}

// parseValue dispatches on the next significant character: a nested
// table, a quoted string, or a scalar run. A nested table that fails to
// parse yields an opaque value holding its raw text; it does not fail the
// enclosing table.
func (p *parser) parseValue() (Value, error) {
	p.skipSpace()

	if p.eof() {
		return Value{}, ErrUnterminatedTable
	}

	switch c := p.peek(); c {
	case '{':
		raw, err := p.scanBalanced()
		if err != nil {
			return Value{}, err
		}

		sub, err := ParseTable(raw, p.eval)
		if err != nil {
			return Opaque(raw), nil
		}

		return sub, nil

	case '"', '\'':
		return p.parseQuoted()

	default:
		return p.parseScalarRun()
	}
}

// scanBalanced consumes a balanced {...} sub-block starting at the
// cursor and returns its raw text, braces included.
func (p *parser) scanBalanced() (string, error) {
	start := p.pos
	state := scanState{depth: 1}

	for i := p.pos + 1; i < len(p.input); i++ {
		if state.step(p.input[i], '{', '}') == 0 {
			p.pos = i + 1

			return p.input[start:p.pos], nil
		}
	}

	p.pos = len(p.input)

	return "", ErrUnterminatedTable.With(slog.Int("pos", start))
}

// parseQuoted consumes a quoted string and returns its contents with the
// quotes stripped. Escape sequences remain verbatim; a backslash never
// terminates the string early.
func (p *parser) parseQuoted() (Value, error) {
	quote := p.peek()
	p.pos++

	start := p.pos
	escaped := false

	for !p.eof() {
		switch c := p.peek(); {
		case escaped:
			escaped = false
			p.pos++

		case c == '\\':
			escaped = true
			p.pos++

		case c == quote:
			s := p.input[start:p.pos]
			p.pos++

			return String(s), nil

		default:
			p.pos++
		}
	}

	return Value{}, ErrUnterminatedString.With(slog.Int("pos", start))
}

// parseScalarRun consumes a maximal non-table, non-quoted token span. The
// run tracks {}/[]/() depth and quote state, and stops at a depth-zero
// comma or an unmatched closing delimiter without consuming it.
func (p *parser) parseScalarRun() (Value, error) {
	start := p.pos

	var (
		curly, square, paren int
		quote                byte
		escaped              bool
	)

scan:
	for !p.eof() {
		c := p.peek()

		if escaped {
			escaped = false
			p.pos++

			continue
		}

		if quote != 0 {
			switch c {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}

			p.pos++

			continue
		}

		switch c {
		case '"', '\'':
			quote = c

		case '{':
			curly++

		case '}':
			if curly == 0 {
				break scan
			}

			curly--

		case '[':
			square++

		case ']':
			if square == 0 {
				break scan
			}

			square--

		case '(':
			paren++

		case ')':
			if paren == 0 {
				break scan
			}

			paren--

		case ',':
			if curly+square+paren == 0 {
				break scan
			}
		}

		p.pos++
	}

	run := strings.TrimSpace(p.input[start:p.pos])
	run = strings.TrimSpace(strings.TrimSuffix(run, ","))

	if run == "" {
		return Value{}, ErrEmptyScalar
	}

	return parseScalarToken(run, p.eval), nil
}
