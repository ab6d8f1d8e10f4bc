// Package check verifies parse trees against their attached typing rules,
// following the propositions-as-types reading: checking a term is checking
// a proof. Only the judgment-driven part of checking lives here; numeric
// or logical semantics beyond the judgment data are out of scope.
package check

import (
	"fmt"
	"strings"
)

// Type is a propositional type: an atom or a function arrow.
type Type interface {
	isType()
	String() string
}

// Atom is an atomic type or proposition, e.g. P or τ₁.
type Atom struct {
	Name string
}

// Arrow is a function (implication) type. Arrows associate to the right;
// a left-nested arrow renders parenthesized.
type Arrow struct {
	Left  Type
	Right Type
}

func (Atom) isType()  {}
func (Arrow) isType() {}

func (a Atom) String() string {
	return a.Name
}

func (a Arrow) String() string {
	left := a.Left.String()
	if _, ok := a.Left.(Arrow); ok {
		left = "(" + left + ")"
	}
	return left + " → " + a.Right.String()
}

// TypeEq reports structural type equality.
func TypeEq(a, b Type) bool {
	switch a := a.(type) {
	case Atom:
		b, ok := b.(Atom)
		return ok && a.Name == b.Name
	case Arrow:
		b, ok := b.(Arrow)
		return ok && TypeEq(a.Left, b.Left) && TypeEq(a.Right, b.Right)
	}
	return false
}

// ParseType parses a type expression with right-associative arrows and
// parentheses. Both the → glyph and the ASCII -> spelling are accepted.
func ParseType(s string) (Type, error) {
	tokens, err := scanType(s)
	if err != nil {
		return nil, err
	}
	p := &typeParser{tokens: tokens}
	t, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q in type expression %q", p.tokens[p.pos], s)
	}
	return t, nil
}

func scanType(s string) ([]string, error) {
	var tokens []string
	var atom strings.Builder

	flush := func() {
		if atom.Len() > 0 {
			tokens = append(tokens, atom.String())
			atom.Reset()
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			flush()
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == '→':
			flush()
			tokens = append(tokens, "→")
		case r == '-' && i+1 < len(runes) && runes[i+1] == '>':
			flush()
			tokens = append(tokens, "→")
			i++
		default:
			atom.WriteRune(r)
		}
	}
	flush()

	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty type expression")
	}
	return tokens, nil
}

type typeParser struct {
	tokens []string
	pos    int
}

func (p *typeParser) parseArrow() (Type, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) && p.tokens[p.pos] == "→" {
		p.pos++
		right, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		return Arrow{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *typeParser) parsePrimary() (Type, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of type expression")
	}
	tok := p.tokens[p.pos]
	switch tok {
	case "(":
		p.pos++
		t, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos] != ")" {
			return nil, fmt.Errorf("missing closing parenthesis in type expression")
		}
		p.pos++
		return t, nil
	case ")", "→":
		return nil, fmt.Errorf("unexpected %q in type expression", tok)
	}
	p.pos++
	return Atom{Name: tok}, nil
}
