package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokOr
	tokAnd
	tokNot
)

type token struct {
	kind    tokenKind
	text    string
	negated bool
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '|' || r == '&' || r == '"'
}

func tokenize(expr string) []token {
	var tokens []token
	i := 0
	for i < len(expr) {
		r, size := utf8.DecodeRuneInString(expr[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '|':
			tokens = append(tokens, token{kind: tokOr, text: "|"})
			i += size
		case r == '&':
			tokens = append(tokens, token{kind: tokAnd, text: "&"})
			i += size
		case r == '"':
			text, next := readQuoted(expr, i+size)
			tokens = append(tokens, token{kind: tokText, text: text})
			i = next
		case r == '-' || r == '!':
			next := i + size
			if next >= len(expr) {
				tokens = append(tokens, token{kind: tokText, text: string(r)})
				i = next
				continue
			}
			nr, nsize := utf8.DecodeRuneInString(expr[next:])
			switch {
			case nr == '"':
				text, end := readQuoted(expr, next+nsize)
				tokens = append(tokens, token{kind: tokText, text: text, negated: true})
				i = end
			case isSeparator(nr):
				// a lone prefix is just a character to look for
				tokens = append(tokens, token{kind: tokText, text: string(r)})
				i = next
			default:
				word, end := readWord(expr, next)
				tokens = append(tokens, token{kind: tokText, text: word, negated: true})
				i = end
			}
		default:
			word, end := readWord(expr, i)
			switch strings.ToLower(word) {
			case "or":
				tokens = append(tokens, token{kind: tokOr, text: word})
			case "and":
				tokens = append(tokens, token{kind: tokAnd, text: word})
			case "not":
				tokens = append(tokens, token{kind: tokNot, text: word})
			default:
				tokens = append(tokens, token{kind: tokText, text: word})
			}
			i = end
		}
	}
	return tokens
}

// readWord reads up to the next separator.
func readWord(s string, start int) (string, int) {
	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isSeparator(r) {
			break
		}
		i += size
	}
	return s[start:i], i
}

// readQuoted reads a phrase up to the closing quote. An unbalanced quote runs to the
// end of the input.
func readQuoted(s string, start int) (string, int) {
	end := strings.IndexByte(s[start:], '"')
	if end < 0 {
		return strings.TrimSpace(s[start:]), len(s)
	}
	return strings.TrimSpace(s[start : start+end]), start + end + 1
}
