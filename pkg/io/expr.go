package io

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokToken
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r byte) bool { return isIdentStart(r) || (r >= '0' && r <= '9') }

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

// lex splits an expression string into tokens. Dashes and dots join an
// identifier only when a letter follows, so "center-x" is one token and
// "width-10" is three.
func lex(s string) ([]token, error) {
	var out []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++

		case isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1])):
			start := i
			for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
				i++
			}
			if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') &&
				(isDigit(s[i+1]) || ((s[i+1] == '+' || s[i+1] == '-') && i+2 < len(s) && isDigit(s[i+2]))) {
				i += 2
				for i < len(s) && isDigit(s[i]) {
					i++
				}
			}
			for i < len(s) && (unicode.IsLetter(rune(s[i])) || s[i] == '%') {
				i++
			}
			out = append(out, token{tokNumber, s[start:i], start})

		case c == '$':
			start := i
			i++
			for i < len(s) && (isIdentChar(s[i]) || s[i] == '.' || s[i] == '-') {
				i++
			}
			out = append(out, token{tokToken, s[start+1 : i], start})

		case isIdentStart(c):
			start := i
			for i < len(s) {
				if isIdentChar(s[i]) {
					i++
					continue
				}
				if (s[i] == '-' || s[i] == '.') && i+1 < len(s) && isIdentStart(s[i+1]) {
					i++
					continue
				}
				break
			}
			out = append(out, token{tokIdent, s[start:i], start})

		case strings.ContainsRune("+-*/(),", rune(c)):
			out = append(out, token{tokOp, string(c), i})
			i++

		default:
			return nil, fmt.Errorf("unexpected %q at %d", c, i)
		}
	}
	return append(out, token{kind: tokEOF, pos: len(s)}), nil
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// ParseExpression parses an infix expression such as
// "max(Parent.width - 32px, 200px)".
func ParseExpression(s string) (ast.Expression, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, err, "parse %q", s)
	}
	p := &parser{src: s, toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, err, "parse %q", s)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errors.New(errors.ErrCodeInvalidExpression, "parse %q: unexpected %q at %d", s, t.text, t.pos)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expr() (ast.Expression, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOperator
		switch {
		case p.accept("+"):
			op = ast.OpAdd
		case p.accept("-"):
			op = ast.OpSub
		default:
			return left, nil
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) term() (ast.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOperator
		switch {
		case p.accept("*"):
			op = ast.OpMul
		case p.accept("/"):
			op = ast.OpDiv
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) unary() (ast.Expression, error) {
	if !p.accept("-") {
		return p.primary()
	}
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	switch x := e.(type) {
	case ast.Literal:
		return -x, nil
	case ast.Length:
		x.Value = -x.Value
		return x, nil
	}
	return ast.BinaryOp{Op: ast.OpMul, Left: ast.Literal(-1), Right: e}, nil
}

func (p *parser) primary() (ast.Expression, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t.text)

	case tokToken:
		if err := errors.ValidateTokenPath(t.text); err != nil {
			return nil, err
		}
		return ast.TokenRef{Path: t.text}, nil

	case tokIdent:
		if p.accept("(") {
			return p.call(t.text)
		}
		target, prop, ok := strings.Cut(t.text, ".")
		if !ok || prop == "" {
			return nil, fmt.Errorf("expected Target.property, got %q", t.text)
		}
		return ast.PropertyRef{Element: ast.ParseElementRef(target), Property: prop}, nil

	case tokOp:
		if t.text == "(" {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			if !p.accept(")") {
				return nil, fmt.Errorf("missing ) at %d", p.peek().pos)
			}
			return e, nil
		}
	}
	if t.kind == tokEOF {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}

func (p *parser) call(name string) (ast.Expression, error) {
	f := ast.Function{Name: name}
	if p.accept(")") {
		return f, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		f.Args = append(f.Args, arg)
		if p.accept(")") {
			return f, nil
		}
		if !p.accept(",") {
			return nil, fmt.Errorf("expected , or ) at %d", p.peek().pos)
		}
	}
}

// parseNumber reads a literal, or a length when a unit follows the number.
func parseNumber(s string) (ast.Expression, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return ast.Literal(v), nil
	}
	l, err := ast.ParseLength(s)
	if err != nil {
		return nil, err
	}
	return l, nil
}
