package webidl

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	val  string
	line int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.val)
	default:
		return fmt.Sprintf("%q", t.val)
	}
}

func (t token) is(val string) bool {
	return t.kind != tokString && t.val == val
}

// lex splits IDL source into tokens, dropping whitespace and comments.
func lex(src string) ([]token, error) {
	var toks []token
	r := []rune(src)
	line := 1

	for i := 0; i < len(r); {
		c := r[i]
		switch {
		case c == '\n':
			line++
			i++
		case unicode.IsSpace(c):
			i++
		case c == '/' && i+1 < len(r) && r[i+1] == '/':
			for i < len(r) && r[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(r) && r[i+1] == '*':
			start := line
			i += 2
			for {
				if i+1 >= len(r) {
					return nil, &SyntaxError{Line: start, Msg: "unterminated comment"}
				}
				if r[i] == '*' && r[i+1] == '/' {
					i += 2
					break
				}
				if r[i] == '\n' {
					line++
				}
				i++
			}
		case c == '"':
			j := i + 1
			for j < len(r) && r[j] != '"' {
				if r[j] == '\n' {
					return nil, &SyntaxError{Line: line, Msg: "unterminated string"}
				}
				j++
			}
			if j >= len(r) {
				return nil, &SyntaxError{Line: line, Msg: "unterminated string"}
			}
			toks = append(toks, token{kind: tokString, val: string(r[i+1 : j]), line: line})
			i = j + 1
		case isIdentStart(c):
			j := i + 1
			for j < len(r) && isIdentPart(r[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, val: string(r[i:j]), line: line})
			i = j
		case c == '-' && i+1 < len(r) && (unicode.IsDigit(r[i+1]) || r[i+1] == '.' || r[i+1] == 'I'):
			// -Infinity and negative numbers
			j := i + 1
			for j < len(r) && isNumberPart(r[j]) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, val: string(r[i:j]), line: line})
			i = j
		case unicode.IsDigit(c):
			j := i + 1
			for j < len(r) && isNumberPart(r[j]) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, val: string(r[i:j]), line: line})
			i = j
		case c == '.' && i+2 < len(r) && r[i+1] == '.' && r[i+2] == '.':
			toks = append(toks, token{kind: tokPunct, val: "...", line: line})
			i += 3
		case strings.ContainsRune("{}()[]<>;,=?:.*-", c):
			toks = append(toks, token{kind: tokPunct, val: string(c), line: line})
			i++
		default:
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || c == '-' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isNumberPart(c rune) bool {
	return c == '.' || c == 'x' || c == 'X' || c == '+' || c == '-' ||
		unicode.IsDigit(c) || unicode.IsLetter(c)
}
