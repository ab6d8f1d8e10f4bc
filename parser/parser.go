// Package parser turns token sequences into syntax trees by backtracking
// recursive descent over a grammar, attaching typing rules to the nodes
// built from rule-carrying productions.
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PKD667/beam/grammar"
)

// whitespaceDelimiters is the delimiter set handed to the tokenizer.
var whitespaceDelimiters = []rune{' ', '\t', '\n', '\r'}

// Parser parses token sequences against a grammar. The grammar is
// read-only during parsing; the cursor state is per-instance, so a Parser
// must not be shared across concurrent Parse calls.
type Parser struct {
	grammar   *grammar.Grammar
	tokenizer *Tokenizer
	tokens    []string
	pos       int
	regexps   map[string]*regexp.Regexp
}

// New creates a parser whose tokenizer splits on whitespace and on the
// grammar's special tokens.
func New(g *grammar.Grammar) *Parser {
	return &Parser{
		grammar:   g,
		tokenizer: NewTokenizer(g.SpecialTokens, whitespaceDelimiters),
		regexps:   make(map[string]*regexp.Regexp),
	}
}

// Tokenizer exposes the parser's tokenizer, mainly for token-stream dumps.
func (p *Parser) Tokenizer() *Tokenizer {
	return p.tokenizer
}

// Parse tokenizes the input and parses it from the grammar's start
// nonterminal: Expr if declared, else Term, else the lexicographically
// smallest declared nonterminal. An alternative only succeeds at the top
// level if it consumes every token.
func (p *Parser) Parse(input string) (*Node, error) {
	ids, err := p.tokenizer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}

	p.tokens = p.tokens[:0]
	for _, id := range ids {
		text, ok := p.tokenizer.Str(id)
		if !ok {
			continue
		}
		p.tokens = append(p.tokens, text)
	}
	p.pos = 0

	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	start := p.startNonterminal()
	for _, production := range p.grammar.Productions[start] {
		p.pos = 0
		children, err := p.tryProduction(production)
		if err != nil {
			continue
		}
		if p.pos < len(p.tokens) {
			continue
		}
		return &Node{
			Kind:       Nonterminal,
			Value:      start,
			Span:       &Span{Start: 0, End: p.pos},
			Children:   children,
			TypingRule: p.grammar.TypingRules[production.Rule],
		}, nil
	}

	return nil, fmt.Errorf("unable to parse input completely")
}

func (p *Parser) startNonterminal() string {
	if p.grammar.IsNonterminal("Expr") {
		return "Expr"
	}
	if p.grammar.IsNonterminal("Term") {
		return "Term"
	}
	names := make([]string, 0, len(p.grammar.Productions))
	for nt := range p.grammar.Productions {
		names = append(names, nt)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// parseNonterminal tries each alternative in declaration order, restoring
// the cursor before each new attempt. The first fully matching alternative
// wins regardless of later ones.
func (p *Parser) parseNonterminal(nt string) (*Node, error) {
	initial := p.pos
	for _, production := range p.grammar.Productions[nt] {
		children, err := p.tryProduction(production)
		if err != nil {
			p.pos = initial
			continue
		}
		return &Node{
			Kind:       Nonterminal,
			Value:      nt,
			Span:       &Span{Start: initial, End: p.pos},
			Children:   children,
			TypingRule: p.grammar.TypingRules[production.Rule],
		}, nil
	}
	return nil, fmt.Errorf("unable to parse nonterminal: %s", nt)
}

func (p *Parser) tryProduction(production grammar.Production) ([]*Node, error) {
	var children []*Node
	for _, symbol := range production.RHS {
		child, err := p.parseSymbol(symbol)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// parseSymbol parses a single grammar symbol: nonterminals recurse,
// terminals match the current token by quoted literal, regex pattern, or
// exact equality. A terminal mismatch does not advance the cursor.
func (p *Parser) parseSymbol(symbol grammar.Symbol) (*Node, error) {
	if p.grammar.IsNonterminal(symbol.Value) {
		node, err := p.parseNonterminal(symbol.Value)
		if err != nil {
			return nil, err
		}
		node.Binding = symbol.Binding
		return node, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	token := p.tokens[p.pos]

	if !p.matchTerminal(symbol.Value, token) {
		return nil, fmt.Errorf("expected %q, found %q", symbol.Value, token)
	}

	node := &Node{
		Kind:    Terminal,
		Value:   token,
		Span:    &Span{Start: p.pos, End: p.pos + 1},
		Binding: symbol.Binding,
	}
	p.pos++
	return node, nil
}

func (p *Parser) matchTerminal(symbol, token string) bool {
	switch {
	case strings.HasPrefix(symbol, "'") && strings.HasSuffix(symbol, "'") && len(symbol) > 1:
		return strings.Trim(symbol, "'") == token
	case strings.HasPrefix(symbol, `"`) && strings.HasSuffix(symbol, `"`) && len(symbol) > 1:
		return strings.Trim(symbol, `"`) == token
	case strings.HasPrefix(symbol, "/") && strings.HasSuffix(symbol, "/") && len(symbol) > 2:
		re, err := p.compileRegex(strings.Trim(symbol, "/"))
		if err != nil {
			return false
		}
		return re.MatchString(token)
	default:
		return symbol == token
	}
}

func (p *Parser) compileRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := p.regexps[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	p.regexps[pattern] = re
	return re, nil
}
