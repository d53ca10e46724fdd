// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cpmech/gosl/chk"
)

// exprParser tokenizes and parses one equation expression. Grammar
// (precedence low to high): ||, &&, comparison (< > <= >= == !=), + -,
// * /, unary - and !, ^, atom.
// Atoms are numbers, identifiers (with an optional dotted/"up"-prefixed
// path for cross-part references), parenthesized expressions, and
// function calls Name(args,...) used for Event()/Delay() and builtins.
type exprParser struct {
	s   string
	pos int
}

// ParseExpr parses a single N2A expression string into an Expr tree.
func ParseExpr(s string) (*Expr, error) {
	p := &exprParser{s: s}
	p.skipSpace()
	if p.pos >= len(p.s) {
		return &Expr{Op: "Const", Const: 0, IsConst: true}, nil
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, chk.Err("unexpected trailing input in expression %q at %d", s, p.pos)
	}
	return e, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *exprParser) peekRune() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *exprParser) eat(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.s[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *exprParser) parseOr() (*Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		save := p.pos
		if p.eat("||") {
			right, err := p.parseAnd()
			if err != nil {
				return nil, err
			}
			left = &Expr{Op: "||", Children: []*Expr{left, right}}
			continue
		}
		p.pos = save
		break
	}
	return left, nil
}

func (p *exprParser) parseAnd() (*Expr, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for {
		save := p.pos
		if p.eat("&&") {
			right, err := p.parseCompare()
			if err != nil {
				return nil, err
			}
			left = &Expr{Op: "&&", Children: []*Expr{left, right}}
			continue
		}
		p.pos = save
		break
	}
	return left, nil
}

var compareOps = []string{"<=", ">=", "==", "!=", "<", ">"}

func (p *exprParser) parseCompare() (*Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	save := p.pos
	for _, op := range compareOps {
		if p.eat(op) {
			right, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			return &Expr{Op: op, Children: []*Expr{left, right}}, nil
		}
		p.pos = save
	}
	return left, nil
}

func (p *exprParser) parseAdd() (*Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peekRune()
		if c == '+' || c == '-' {
			// don't swallow a combiner-like "+=" here; expression values
			// never contain '=' at this grammar level.
			p.pos++
			right, err := p.parseMul()
			if err != nil {
				return nil, err
			}
			left = &Expr{Op: string(c), Children: []*Expr{left, right}}
			continue
		}
		break
	}
	return left, nil
}

func (p *exprParser) parseMul() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peekRune()
		if c == '*' || c == '/' {
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Expr{Op: string(c), Children: []*Expr{left, right}}
			continue
		}
		break
	}
	return left, nil
}

func (p *exprParser) parseUnary() (*Expr, error) {
	p.skipSpace()
	if p.peekRune() == '-' {
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Op: "neg", Children: []*Expr{e}}, nil
	}
	if p.peekRune() == '!' {
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Op: "not", Children: []*Expr{e}}, nil
	}
	return p.parsePow()
}

func (p *exprParser) parsePow() (*Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peekRune() == '^' {
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Op: "^", Children: []*Expr{left, right}}, nil
	}
	return left, nil
}

func (p *exprParser) parseAtom() (*Expr, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, chk.Err("unexpected end of expression")
	}
	c := p.s[p.pos]
	switch {
	case c == '(':
		p.pos++
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.eat(")") {
			return nil, chk.Err("expected ')' in expression %q", p.s)
		}
		return e, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdentOrCall()
	default:
		return nil, chk.Err("unexpected character %q in expression %q", c, p.s)
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '\''
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '.' || r == '\''
}

func (p *exprParser) parseNumber() (*Expr, error) {
	start := p.pos
	for p.pos < len(p.s) && (p.s[p.pos] >= '0' && p.s[p.pos] <= '9' || p.s[p.pos] == '.') {
		p.pos++
	}
	if p.pos < len(p.s) && (p.s[p.pos] == 'e' || p.s[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
	}
	v, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return nil, chk.Err("malformed number %q in expression", p.s[start:p.pos])
	}
	return &Expr{Op: "Const", Const: v, IsConst: true}, nil
}

func (p *exprParser) parseIdentOrCall() (*Expr, error) {
	start := p.pos
	for p.pos < len(p.s) && isIdentPart(rune(p.s[p.pos])) {
		p.pos++
	}
	name := p.s[start:p.pos]
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == '(' {
		p.pos++
		var args []*Expr
		p.skipSpace()
		if p.peekRune() != ')' {
			for {
				arg, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.eat(",") {
					continue
				}
				break
			}
		}
		if !p.eat(")") {
			return nil, chk.Err("expected ')' closing call to %s(...)", name)
		}
		return &Expr{Op: name, Children: args}, nil
	}
	return &Expr{Op: "Var", Ref: &VariableReference{Path: pathFromName(name)}}, nil
}

// pathFromName turns a dotted identifier like "up.V" or "A.xyz" into an
// (unresolved) VariableReference path: "up" ascends to the container,
// anything else descends into a named subpart/connection endpoint, and
// the final segment is carried on the reference for name resolution by
// the digest "resolve LHS then RHS" stage. The leaf is the last Descend
// step, whose Name is the bare variable name resolveReference recovers.
func pathFromName(name string) []ReferenceStep {
	parts := strings.Split(name, ".")
	steps := make([]ReferenceStep, 0, len(parts))
	for _, part := range parts {
		if part == "up" {
			steps = append(steps, ReferenceStep{Kind: StepAscend})
			continue
		}
		steps = append(steps, ReferenceStep{Kind: StepDescend, Name: part})
	}
	return steps
}
