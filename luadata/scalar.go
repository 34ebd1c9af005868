package luadata

import (
	"regexp"
	"strconv"
	"strings"
)

// numberToken matches a fully-numeric literal: optional leading '-',
// digits, optional single '.' and exponent. The whole token must match.
var numberToken = regexp.MustCompile(
	`^-?[0-9]+(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?$`,
)

// parseScalarToken classifies trimmed token text, in strict order:
// boolean, nil, number, quoted string, then the evaluator for tokens
// containing a '.', and finally opaque text kept verbatim.
func parseScalarToken(tok string, ev Evaluator) Value {
	switch tok {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "nil":
		return Nil()
	}

	if numberToken.MatchString(tok) {
		return parseNumberToken(tok)
	}

	if inner, ok := fullyQuoted(tok); ok {
		return String(inner)
	}

	if strings.Contains(tok, ".") && ev != nil {
		if v, ok := ev.Evaluate(tok); ok {
			return v
		}
	}

	return Opaque(tok)
}

// parseNumberToken converts a token already known to be numeric. The
// literal's shape decides the kind: a '.' or exponent makes it floating.
func parseNumberToken(tok string) Value {
	if strings.ContainsAny(tok, ".eE") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Opaque(tok)
		}

		return Float(f)
	}

	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		// Out of int64 range: degrade to floating.
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil {
			return Opaque(tok)
		}

		return Float(f)
	}

	return Int(i)
}

// fullyQuoted reports whether the token is a single quoted literal, i.e.
// the opening quote's matching unescaped close quote is the token's last
// character. A token like `"a".."b"` is not fully quoted.
func fullyQuoted(tok string) (string, bool) {
	if len(tok) < 2 {
		return "", false
	}

	quote := tok[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}

	escaped := false

	for i := 1; i < len(tok); i++ {
		switch {
		case escaped:
			escaped = false

		case tok[i] == '\\':
			escaped = true

		case tok[i] == quote:
			if i != len(tok)-1 {
				return "", false
			}

			return tok[1 : len(tok)-1], true
		}
	}

	return "", false
}
