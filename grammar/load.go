package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// ruleNameAtEnd captures "(name)" when the parentheses close the line.
var ruleNameAtEnd = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// Load parses a textual grammar specification. Blocks are separated by
// blank lines; a block containing "::=" holds production alternatives, a
// block containing a dashed separator holds one inference rule. Comment
// lines starting with "//" are stripped.
func Load(input string) (*Grammar, error) {
	g := New()

	for _, block := range splitBlocks(input) {
		switch {
		case blockContains(block, "::="):
			if err := g.loadProductionBlock(block); err != nil {
				return nil, err
			}
		case blockContains(block, "---"):
			if err := g.loadInferenceBlock(block); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// splitBlocks groups the non-empty, non-comment lines of the input into
// blocks delimited by blank lines.
func splitBlocks(input string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		if strings.HasPrefix(line, "//") {
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func blockContains(block []string, marker string) bool {
	for _, line := range block {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// loadProductionBlock parses one or more productions. A line containing
// "::=" starts a production; immediately following lines starting with "|"
// continue its alternatives.
func (g *Grammar) loadProductionBlock(block []string) error {
	for i := 0; i < len(block); {
		if !strings.Contains(block[i], "::=") {
			i++
			continue
		}
		lines := []string{block[i]}
		i++
		for i < len(block) && strings.HasPrefix(block[i], "|") {
			lines = append(lines, block[i])
			i++
		}
		if err := g.loadProduction(strings.Join(lines, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) loadProduction(line string) error {
	lhs, rhs, err := splitProduction(line)
	if err != nil {
		return err
	}
	name, ruleName := parseLHS(lhs)

	for _, token := range specialTokens(rhs) {
		g.AddSpecialToken(token)
	}

	for _, symbols := range parseRHS(rhs) {
		g.AddProduction(name, Production{Rule: ruleName, RHS: symbols})
	}
	return nil
}

// splitProduction splits a production line on the first "::=".
func splitProduction(line string) (lhs, rhs string, err error) {
	lhs, rhs, ok := strings.Cut(line, "::=")
	if !ok {
		return "", "", fmt.Errorf("invalid production line: %s", line)
	}
	return strings.TrimSpace(lhs), strings.TrimSpace(rhs), nil
}

// parseLHS splits "Name(rule)" into the nonterminal name and optional rule
// name. A missing or empty "(rule)" yields an empty rule name.
func parseLHS(lhs string) (name, ruleName string) {
	open := strings.Index(lhs, "(")
	end := strings.LastIndex(lhs, ")")
	if open >= 0 && end > open {
		name = strings.TrimSpace(lhs[:open])
		ruleName = strings.TrimSpace(lhs[open+1 : end])
		return name, ruleName
	}
	return strings.TrimSpace(lhs), ""
}

// parseRHS splits a right-hand side on "|" into alternatives, then on
// whitespace into symbols. "name[binding]" attaches a binding; regex
// terminals pass through whole.
func parseRHS(rhs string) [][]Symbol {
	var alternatives [][]Symbol
	for _, alt := range strings.Split(rhs, "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		var symbols []Symbol
		for _, token := range strings.Fields(alt) {
			symbols = append(symbols, parseSymbolToken(token))
		}
		alternatives = append(alternatives, symbols)
	}
	return alternatives
}

// parseSymbolToken parses one RHS symbol. The binding bracket is the last
// one in the token, so a bound regex terminal like /[a-z]+/[x] keeps its
// character classes intact.
func parseSymbolToken(token string) Symbol {
	if isRegexTerminal(token) {
		return NewSymbol(token)
	}
	open := strings.LastIndex(token, "[")
	end := strings.LastIndex(token, "]")
	if open >= 0 && end > open {
		return NewBoundSymbol(token[:open], token[open+1:end])
	}
	return NewSymbol(token)
}

// isRegexTerminal reports whether token is a slash-delimited regex pattern.
func isRegexTerminal(token string) bool {
	return len(token) > 2 && strings.HasPrefix(token, "/") && strings.HasSuffix(token, "/")
}

// specialTokens collects quoted literal terminals from a right-hand side,
// in order of first appearance.
func specialTokens(rhs string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, alt := range strings.Split(rhs, "|") {
		for _, sym := range strings.Fields(alt) {
			if isRegexTerminal(sym) {
				continue
			}
			if !isQuoted(sym) {
				continue
			}
			stripped := strings.Trim(sym, `'"`)
			if !seen[stripped] {
				seen[stripped] = true
				found = append(found, stripped)
			}
		}
	}
	return found
}

func isQuoted(sym string) bool {
	if len(sym) < 2 {
		return false
	}
	return (strings.HasPrefix(sym, "'") && strings.HasSuffix(sym, "'")) ||
		(strings.HasPrefix(sym, `"`) && strings.HasSuffix(sym, `"`))
}

// loadInferenceBlock parses one inference rule: premise line(s), a dashed
// separator carrying the rule name in parentheses, and a conclusion line.
// A name trailing the conclusion line is accepted when the separator has
// none.
func (g *Grammar) loadInferenceBlock(block []string) error {
	dash := -1
	for i, line := range block {
		if strings.Contains(line, "---") {
			dash = i
			break
		}
	}

	premises := strings.Join(block[:dash], ", ")

	var name string
	if m := ruleNameAtEnd.FindStringSubmatch(block[dash]); m != nil {
		name = strings.TrimSpace(m[1])
	}

	if dash+1 >= len(block) {
		return fmt.Errorf("no conclusion after dash line")
	}
	conclusion := block[dash+1]

	if name == "" {
		if m := ruleNameAtEnd.FindStringSubmatch(conclusion); m != nil {
			name = strings.TrimSpace(m[1])
			conclusion = strings.TrimSpace(ruleNameAtEnd.ReplaceAllString(conclusion, ""))
		}
	}
	if name == "" {
		return fmt.Errorf("typing rule has no name: %s", block[dash])
	}

	rule, err := NewTypingRule(name, premises, conclusion)
	if err != nil {
		return fmt.Errorf("typing rule %q: %w", name, err)
	}
	g.AddTypingRule(rule)
	return nil
}
