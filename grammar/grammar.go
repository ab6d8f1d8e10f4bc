// Package grammar models context-free grammars annotated with
// natural-deduction typing rules, and their textual notation.
package grammar

// Symbol is one element of a production's right-hand side: a nonterminal
// name, a quoted literal terminal, or a slash-delimited regex terminal.
// An empty Binding means the symbol carries no semantic binding.
type Symbol struct {
	Value   string
	Binding string
}

// NewSymbol returns a symbol without a binding.
func NewSymbol(value string) Symbol {
	return Symbol{Value: value}
}

// NewBoundSymbol returns a symbol carrying a semantic binding name.
func NewBoundSymbol(value, binding string) Symbol {
	return Symbol{Value: value, Binding: binding}
}

// Production is one alternative for a nonterminal. Rule, when non-empty,
// names the typing rule attached to syntax-tree nodes built from this
// alternative.
type Production struct {
	Rule string
	RHS  []Symbol
}

// Grammar is a set of productions keyed by nonterminal, the typing rules
// referenced by those productions, and the literal terminals the tokenizer
// must split out of the input. Alternative order within Productions is the
// parser's trial order.
type Grammar struct {
	Productions   map[string][]Production
	TypingRules   map[string]*TypingRule
	SpecialTokens []string
}

// New returns an empty grammar.
func New() *Grammar {
	return &Grammar{
		Productions: make(map[string][]Production),
		TypingRules: make(map[string]*TypingRule),
	}
}

// AddProduction appends an alternative for the given nonterminal.
func (g *Grammar) AddProduction(nonterminal string, p Production) {
	g.Productions[nonterminal] = append(g.Productions[nonterminal], p)
}

// AddSpecialToken registers a literal terminal in order of first
// appearance. Duplicates are ignored.
func (g *Grammar) AddSpecialToken(token string) {
	for _, t := range g.SpecialTokens {
		if t == token {
			return
		}
	}
	g.SpecialTokens = append(g.SpecialTokens, token)
}

// AddTypingRule registers a typing rule. A rule with the same name
// replaces the earlier one.
func (g *Grammar) AddTypingRule(rule *TypingRule) {
	g.TypingRules[rule.Name] = rule
}

// IsNonterminal reports whether name has at least one production.
func (g *Grammar) IsNonterminal(name string) bool {
	_, ok := g.Productions[name]
	return ok
}
