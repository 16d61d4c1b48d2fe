package formula

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a formula into tokens. Whitespace is insignificant.
func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case unicode.IsDigit(r) || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("unexpected '.' at position %d", i)
					}
					seenDot = true
				}
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i]), pos: start})

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[start:i]), pos: start})

		case r == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, text: "(", pos: i})
			i++

		case r == ')':
			tokens = append(tokens, token{kind: tokenRightParen, text: ")", pos: i})
			i++

		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++

		case strings.ContainsRune("+-*/", r):
			tokens = append(tokens, token{kind: tokenOperator, text: string(r), pos: i})
			i++

		case r == '<' || r == '>' || r == '=' || r == '!':
			start := i
			i++
			if i < len(runes) && (runes[i] == '=' || (r == '<' && runes[i] == '>')) {
				i++
			}
			op := string(runes[start:i])
			if op == "!" {
				return nil, fmt.Errorf("unexpected '!' at position %d", start)
			}
			tokens = append(tokens, token{kind: tokenOperator, text: op, pos: start})

		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}
