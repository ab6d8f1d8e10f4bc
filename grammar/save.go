package grammar

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/treeset"
)

// ToSpecString renders the grammar back into its textual notation.
// Nonterminals and typing rules are emitted in lexicographic order so the
// output is deterministic; loading it reproduces an equivalent grammar.
func (g *Grammar) ToSpecString() string {
	var out strings.Builder

	out.WriteString("// --- Production Rules ---\n")
	nonterminals := treeset.NewWithStringComparator()
	for nt := range g.Productions {
		nonterminals.Add(nt)
	}
	for _, v := range nonterminals.Values() {
		nt := v.(string)
		for i, prod := range g.Productions[nt] {
			if i == 0 {
				out.WriteString(formatLHS(nt, prod.Rule))
				out.WriteString(" ::= ")
			} else {
				out.WriteString(" | ")
			}
			out.WriteString(formatRHS(prod.RHS))
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")

	if len(g.TypingRules) > 0 {
		out.WriteString("// --- Typing Rules ---\n")
		names := treeset.NewWithStringComparator()
		for name := range g.TypingRules {
			names.Add(name)
		}
		for _, v := range names.Values() {
			rule := g.TypingRules[v.(string)]
			out.WriteString(rule.PremisesString())
			out.WriteString("\n")

			conclusion := rule.ConclusionString()
			width := utf8.RuneCountInString(conclusion) + 5
			if width < 20 {
				width = 20
			}
			out.WriteString(strings.Repeat("-", width))
			out.WriteString(fmt.Sprintf(" (%s)\n", rule.Name))
			out.WriteString(conclusion)
			out.WriteString("\n\n")
		}
	}

	return out.String()
}

// Save writes the textual specification to a file.
func (g *Grammar) Save(path string) error {
	return os.WriteFile(path, []byte(g.ToSpecString()), 0o644)
}

func formatLHS(nonterminal, rule string) string {
	if rule != "" {
		return fmt.Sprintf("%s(%s)", nonterminal, rule)
	}
	return nonterminal
}

// formatRHS renders the symbols of one alternative. Bindings render as
// name[binding]; non-alphanumeric literals are quoted, except regex
// terminals which keep their slash delimiters.
func formatRHS(symbols []Symbol) string {
	parts := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		parts = append(parts, formatSymbol(sym))
	}
	return strings.Join(parts, " ")
}

func formatSymbol(sym Symbol) string {
	if sym.Binding != "" {
		return fmt.Sprintf("%s[%s]", sym.Value, sym.Binding)
	}
	if len(sym.Value) > 1 && (strings.HasPrefix(sym.Value, "'") || strings.HasPrefix(sym.Value, `"`)) {
		return sym.Value
	}
	if isAlphanumeric(sym.Value) {
		return sym.Value
	}
	if isRegexTerminal(sym.Value) {
		return sym.Value
	}
	return "'" + sym.Value + "'"
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
