package grammar

import (
	"fmt"
	"strings"
	"unicode"
)

// TypingExtension is one variable binding added to the context on the left
// of a judgment, as in Γ,x:τ.
type TypingExtension struct {
	Variable string
	TypeExpr string
}

// TypingJudgment represents "context (possibly extended) proves expression
// has type": Γ,x:τ₁ ⊢ e : τ₂.
type TypingJudgment struct {
	Extensions []TypingExtension
	Expression string
	TypeExpr   string
}

// Premise is one hypothesis of a typing rule. The closed set of variants is
// JudgmentPremise, MembershipPremise, RelationPremise and CompoundPremise.
type Premise interface {
	isPremise()
}

// JudgmentPremise is a typing judgment hypothesis: Γ ⊢ e : τ.
type JudgmentPremise struct {
	Judgment TypingJudgment
}

// MembershipPremise is a context-membership hypothesis: x ∈ Γ.
type MembershipPremise struct {
	Variable string
	Context  string
}

// RelationPremise is a binary type relation such as τ₁ = τ₂ or τ₁ <: τ₂.
type RelationPremise struct {
	Left     string
	Right    string
	Relation string
}

// CompoundPremise is an ordered conjunction of premises.
type CompoundPremise struct {
	Premises []Premise
}

func (JudgmentPremise) isPremise()   {}
func (MembershipPremise) isPremise() {}
func (RelationPremise) isPremise()   {}
func (CompoundPremise) isPremise()   {}

// Conclusion is the goal of a typing rule. The closed set of variants is
// TypeValue, JudgmentConclusion and ContextLookup.
type Conclusion interface {
	isConclusion()
}

// TypeValue is a conclusion that is a bare type expression, e.g. τ₁ → τ₂.
type TypeValue struct {
	Expr string
}

// JudgmentConclusion is a conclusion in judgment form: Γ ⊢ e : τ.
type JudgmentConclusion struct {
	Judgment TypingJudgment
}

// ContextLookup is a conclusion of the form Γ(x): the type of x in context.
type ContextLookup struct {
	Variable string
}

func (TypeValue) isConclusion()          {}
func (JudgmentConclusion) isConclusion() {}
func (ContextLookup) isConclusion()      {}

// TypingRule is a named inference rule. Rules are parsed once at
// grammar-load time and immutable afterwards; identity is by Name.
type TypingRule struct {
	Name       string
	Premises   []Premise
	Conclusion Conclusion
}

// NewTypingRule parses the textual premises and conclusion of an inference
// rule into a structured rule.
func NewTypingRule(name, premises, conclusion string) (*TypingRule, error) {
	parts := SplitPremises(premises)
	parsed := make([]Premise, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePremise(part)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
	}

	concl, err := ParseConclusion(conclusion)
	if err != nil {
		return nil, err
	}

	return &TypingRule{Name: name, Premises: parsed, Conclusion: concl}, nil
}

// ParsePremise classifies and parses a single premise. Classification order
// is judgment, then membership, then relation; anything else is an error.
func ParsePremise(s string) (Premise, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.ContainsRune(s, turnstile):
		j, err := ParseJudgment(s)
		if err != nil {
			return nil, err
		}
		return JudgmentPremise{Judgment: j}, nil

	case strings.ContainsRune(s, member):
		variable, context, err := ParseMembership(s)
		if err != nil {
			return nil, err
		}
		return MembershipPremise{Variable: variable, Context: context}, nil

	case strings.ContainsAny(s, relationSymbols):
		left, right, relation, err := ParseTypeRelation(s)
		if err != nil {
			return nil, err
		}
		return RelationPremise{Left: left, Right: right, Relation: relation}, nil
	}

	return nil, fmt.Errorf("unknown premise format: %s", s)
}

// ParseConclusion classifies and parses a conclusion: a context lookup
// Γ(x), a judgment, or a bare type expression.
func ParseConclusion(s string) (Conclusion, error) {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, contextSymbol+"("); ok {
		variable := strings.TrimSuffix(rest, ")")
		return ContextLookup{Variable: strings.TrimSpace(variable)}, nil
	}
	if strings.ContainsRune(s, turnstile) {
		j, err := ParseJudgment(s)
		if err != nil {
			return nil, err
		}
		return JudgmentConclusion{Judgment: j}, nil
	}
	if ValidTypeExpr(s) {
		return TypeValue{Expr: s}, nil
	}
	return nil, fmt.Errorf("invalid conclusion format: %s", s)
}

// ValidTypeExpr reports whether s is a well-formed type expression:
// non-empty and composed of letters, digits (including subscripts),
// underscores, spaces and arrows. Both → and the ASCII -> are accepted.
func ValidTypeExpr(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
		case r == '_' || r == ' ' || r == '→' || r == '-' || r == '>':
		default:
			return false
		}
	}
	return true
}

// PremisesString renders the premises back into surface notation.
func (r *TypingRule) PremisesString() string {
	return FormatPremises(r.Premises)
}

// ConclusionString renders the conclusion back into surface notation.
func (r *TypingRule) ConclusionString() string {
	return FormatConclusion(r.Conclusion)
}

// FormatPremises renders premises joined by ", ".
func FormatPremises(premises []Premise) string {
	parts := make([]string, 0, len(premises))
	for _, p := range premises {
		parts = append(parts, formatPremise(p))
	}
	return strings.Join(parts, ", ")
}

func formatPremise(p Premise) string {
	switch p := p.(type) {
	case JudgmentPremise:
		return formatJudgment(p.Judgment)
	case MembershipPremise:
		return fmt.Sprintf("%s %c %s", p.Variable, member, p.Context)
	case RelationPremise:
		return fmt.Sprintf("%s %s %s", p.Left, p.Relation, p.Right)
	case CompoundPremise:
		return FormatPremises(p.Premises)
	}
	return ""
}

// FormatConclusion renders a conclusion into surface notation.
func FormatConclusion(c Conclusion) string {
	switch c := c.(type) {
	case TypeValue:
		return c.Expr
	case JudgmentConclusion:
		return formatJudgment(c.Judgment)
	case ContextLookup:
		return fmt.Sprintf("%s(%s)", contextSymbol, c.Variable)
	}
	return ""
}

func formatJudgment(j TypingJudgment) string {
	ctx := contextSymbol
	if len(j.Extensions) > 0 {
		exts := make([]string, 0, len(j.Extensions))
		for _, e := range j.Extensions {
			exts = append(exts, e.Variable+":"+e.TypeExpr)
		}
		ctx = contextSymbol + "," + strings.Join(exts, ",")
	}
	return fmt.Sprintf("%s %c %s : %s", ctx, turnstile, j.Expression, j.TypeExpr)
}
