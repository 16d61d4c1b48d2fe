package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

// Parse turns a formula string into an AST. Parsing happens once, at
// template-load time; a parse failure is a configuration error that blocks
// the template from being servable.
//
// Grammar:
//
//	expr       = additive [ cmpOp additive ]
//	additive   = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = "-" unary | primary
//	primary    = NUMBER | IDENT | IDENT "(" [ expr { "," expr } ] ")" | "(" expr ")"
func Parse(input string) (*Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty formula: %w", constants.ErrConfiguration)
	}

	tokens, err := lex(input)
	if err != nil {
		return nil, fmt.Errorf("lex %q: %s: %w", input, err.Error(), constants.ErrConfiguration)
	}

	p := &parser{tokens: tokens}
	node, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("parse %q: %s: %w", input, err.Error(), constants.ErrConfiguration)
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("parse %q: trailing input at position %d: %w", input, p.peek().pos, constants.ErrConfiguration)
	}

	return node, nil
}

var knownFuncs = map[string]struct {
	minArgs int
	maxArgs int // -1 means variadic
}{
	"SUM": {minArgs: 1, maxArgs: -1},
	"IF":  {minArgs: 3, maxArgs: 3},
	"ABS": {minArgs: 1, maxArgs: 1},
	"MIN": {minArgs: 1, maxArgs: -1},
	"MAX": {minArgs: 1, maxArgs: -1},
}

var comparisonOps = map[string]struct{}{
	"=": {}, "==": {}, "<>": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (*Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind == tokenOperator {
		if _, ok := comparisonOps[t.text]; ok {
			p.next()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &Node{Kind: NodeBinary, Op: t.text, Left: left, Right: right}, nil
		}
	}

	return left, nil
}

func (p *parser) parseAdditive() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Op: t.text, Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Op: t.text, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if t := p.peek(); t.kind == tokenOperator && t.text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeUnary, Op: "-", Left: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Node, error) {
	t := p.next()

	switch t.kind {
	case tokenNumber:
		val, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, fmt.Errorf("bad number %q at position %d", t.text, t.pos)
		}
		return &Node{Kind: NodeNumber, Value: val}, nil

	case tokenIdent:
		if p.peek().kind == tokenLeftParen {
			return p.parseCall(t)
		}
		return &Node{Kind: NodeIdent, Name: t.text}, nil

	case tokenLeftParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRightParen {
			return nil, fmt.Errorf("expected ')' at position %d", closing.pos)
		}
		return inner, nil

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseCall(nameTok token) (*Node, error) {
	name := strings.ToUpper(nameTok.text)
	fn, ok := knownFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q at position %d", nameTok.text, nameTok.pos)
	}

	p.next() // consume '('

	var args []*Node
	if p.peek().kind != tokenRightParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
	}

	if closing := p.next(); closing.kind != tokenRightParen {
		return nil, fmt.Errorf("expected ')' closing %s at position %d", name, closing.pos)
	}

	if len(args) < fn.minArgs {
		return nil, fmt.Errorf("%s expects at least %d argument(s), got %d", name, fn.minArgs, len(args))
	}
	if fn.maxArgs >= 0 && len(args) > fn.maxArgs {
		return nil, fmt.Errorf("%s expects at most %d argument(s), got %d", name, fn.maxArgs, len(args))
	}

	return &Node{Kind: NodeCall, Name: name, Args: args}, nil
}
