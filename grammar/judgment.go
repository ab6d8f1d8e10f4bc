package grammar

import (
	"fmt"
	"strings"
)

// Notation symbols recognized in premises and conclusions.
const (
	turnstile     = '⊢'
	member        = '∈'
	contextSymbol = "Γ"

	// relationSymbols is the scanned set for binary type relations.
	// Multi-rune relations such as <: arise from consecutive runs.
	relationSymbols = "=<∈⊆⊂⊃⊇:"
)

// SplitPremises splits a premises string on top-level commas. A comma is
// not a separator while the accumulated segment is an unfinished context
// extension list, i.e. it starts with Γ and has not reached a ⊢ yet, so
// "Γ,x:τ₁ ⊢ e : τ₂, Γ ⊢ e : τ₁" yields two judgments. Empty segments are
// dropped.
func SplitPremises(s string) []string {
	var parts []string
	var segment strings.Builder

	flush := func() {
		if part := strings.TrimSpace(segment.String()); part != "" {
			parts = append(parts, part)
		}
		segment.Reset()
	}

	for _, r := range s {
		if r != ',' {
			segment.WriteRune(r)
			continue
		}
		seg := strings.TrimSpace(segment.String())
		if strings.HasPrefix(seg, contextSymbol) && !strings.ContainsRune(seg, turnstile) {
			segment.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return parts
}

// ParseJudgment parses "Γ,x:τ₁,y:τ₂ ⊢ e : σ" into its extensions,
// expression and type. The context side must start with the literal Γ.
func ParseJudgment(s string) (TypingJudgment, error) {
	parts := strings.Split(s, string(turnstile))
	if len(parts) != 2 {
		return TypingJudgment{}, fmt.Errorf("invalid typing judgment format: %s", s)
	}

	_, pairs, err := ParseContextExtensions(strings.TrimSpace(parts[0]))
	if err != nil {
		return TypingJudgment{}, err
	}
	extensions := make([]TypingExtension, 0, len(pairs))
	for _, p := range pairs {
		extensions = append(extensions, TypingExtension{Variable: p[0], TypeExpr: p[1]})
	}

	exprParts := strings.Split(parts[1], ":")
	if len(exprParts) != 2 {
		return TypingJudgment{}, fmt.Errorf("invalid typing judgment format: %s", s)
	}

	return TypingJudgment{
		Extensions: extensions,
		Expression: strings.TrimSpace(exprParts[0]),
		TypeExpr:   strings.TrimSpace(exprParts[1]),
	}, nil
}

// ParseMembership parses "x ∈ Γ" into its variable and context.
func ParseMembership(s string) (variable, context string, err error) {
	parts := strings.Split(s, string(member))
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid membership format: %s", s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// ParseTypeRelation parses "left REL right" by scanning for the first run
// of relation symbols. Relation characters after the right side has begun
// belong to the right side.
func ParseTypeRelation(s string) (left, right, relation string, err error) {
	var l, rel, r strings.Builder
	for _, c := range s {
		switch {
		case r.Len() == 0 && strings.ContainsRune(relationSymbols, c):
			rel.WriteRune(c)
		case rel.Len() == 0:
			l.WriteRune(c)
		default:
			r.WriteRune(c)
		}
	}
	if rel.Len() == 0 {
		return "", "", "", fmt.Errorf("no relation symbol found in: %s", s)
	}
	left = strings.TrimSpace(l.String())
	right = strings.TrimSpace(r.String())
	if left == "" || right == "" {
		return "", "", "", fmt.Errorf("invalid type relation format: %s", s)
	}
	return left, right, rel.String(), nil
}

// ParseContextExtensions parses a context string like "Γ,x:τ₁,y:τ₂" into
// the base context and its ordered (variable, type) pairs. The base token
// must literally be Γ.
func ParseContextExtensions(s string) (base string, extensions [][2]string, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ",")
	base = strings.TrimSpace(parts[0])
	if base != contextSymbol {
		return "", nil, fmt.Errorf("context must start with %q, got %q", contextSymbol, base)
	}
	for _, ext := range parts[1:] {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		pair := strings.Split(ext, ":")
		if len(pair) != 2 {
			return "", nil, fmt.Errorf("invalid context extension, expected 'var:type': %s", ext)
		}
		extensions = append(extensions, [2]string{
			strings.TrimSpace(pair[0]),
			strings.TrimSpace(pair[1]),
		})
	}
	return base, extensions, nil
}
