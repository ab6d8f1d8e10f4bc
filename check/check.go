package check

import (
	"fmt"

	"github.com/PKD667/beam/grammar"
	"github.com/PKD667/beam/parser"
)

// Checker type-checks parse trees whose nodes carry typing rules. Rule
// metavariables (e, f, x, τ₁, …) are resolved against the subtrees bound
// to the same names by the grammar's symbol bindings.
type Checker struct {
	grammar *grammar.Grammar
	context *Context
}

// New creates a checker with an empty ambient context.
func New(g *grammar.Grammar) *Checker {
	return &Checker{grammar: g, context: NewContext()}
}

// Bind adds an ambient assumption, e.g. f : P → Q.
func (c *Checker) Bind(name string, t Type) {
	c.context.Bind(name, t)
}

// Check derives the type of the tree, or fails with the first judgment
// that cannot be satisfied.
func (c *Checker) Check(node *parser.Node) (Type, error) {
	return c.check(node, c.context)
}

func (c *Checker) check(node *parser.Node, ctx *Context) (Type, error) {
	if node.Kind == parser.Terminal {
		return nil, fmt.Errorf("cannot type bare terminal %q", node.Value)
	}

	if node.TypingRule == nil {
		// Wrapper productions without a rule delegate to their single
		// semantic child.
		var inner []*parser.Node
		for _, child := range node.Children {
			if child.Kind == parser.Nonterminal {
				inner = append(inner, child)
			}
		}
		if len(inner) == 1 {
			return c.check(inner[0], ctx)
		}
		return nil, fmt.Errorf("no typing rule attached to %s", node.Value)
	}

	return c.applyRule(node, node.TypingRule, ctx)
}

// substitution maps rule metavariables to types discovered while checking
// premises. One substitution lives per rule application.
type substitution map[string]Type

func (c *Checker) applyRule(node *parser.Node, rule *grammar.TypingRule, ctx *Context) (Type, error) {
	subst := make(substitution)

	for _, premise := range rule.Premises {
		if err := c.checkPremise(node, premise, ctx, subst); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
	}

	switch concl := rule.Conclusion.(type) {
	case grammar.ContextLookup:
		target := node.FindBinding(concl.Variable)
		if target == nil {
			return nil, fmt.Errorf("rule %s: no subtree bound to %q", rule.Name, concl.Variable)
		}
		name := target.Text()
		t, ok := ctx.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("rule %s: variable %q not in context", rule.Name, name)
		}
		return t, nil

	case grammar.TypeValue:
		pattern, err := ParseType(concl.Expr)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		// Metavariables bound by the premises are replaced; atoms the
		// premises never touched are concrete types and stand as written.
		return substitute(pattern, subst), nil

	case grammar.JudgmentConclusion:
		return c.checkJudgment(node, concl.Judgment, ctx, subst)
	}

	return nil, fmt.Errorf("rule %s: unsupported conclusion", rule.Name)
}

func (c *Checker) checkPremise(node *parser.Node, premise grammar.Premise, ctx *Context, subst substitution) error {
	switch p := premise.(type) {
	case grammar.JudgmentPremise:
		_, err := c.checkJudgment(node, p.Judgment, ctx, subst)
		return err

	case grammar.MembershipPremise:
		target := node.FindBinding(p.Variable)
		if target == nil {
			return fmt.Errorf("no subtree bound to %q", p.Variable)
		}
		name := target.Text()
		if _, ok := ctx.Lookup(name); !ok {
			return fmt.Errorf("variable %q not in context", name)
		}
		return nil

	case grammar.RelationPremise:
		if p.Relation != "=" {
			return fmt.Errorf("unsupported relation %q", p.Relation)
		}
		return c.checkEquality(p, subst)

	case grammar.CompoundPremise:
		for _, inner := range p.Premises {
			if err := c.checkPremise(node, inner, ctx, subst); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported premise")
}

// checkJudgment checks one judgment Γ,x:τ ⊢ e : σ against the rule node:
// each extension binds the variable named by one subtree to the type
// written in another, the expression's subtree is checked under the
// extended context, and the result is unified with the judgment's type
// pattern.
func (c *Checker) checkJudgment(node *parser.Node, j grammar.TypingJudgment, ctx *Context, subst substitution) (Type, error) {
	extended := ctx
	for _, ext := range j.Extensions {
		varNode := node.FindBinding(ext.Variable)
		if varNode == nil {
			return nil, fmt.Errorf("no subtree bound to %q", ext.Variable)
		}
		typeNode := node.FindBinding(ext.TypeExpr)
		if typeNode == nil {
			return nil, fmt.Errorf("no subtree bound to %q", ext.TypeExpr)
		}
		t, err := ParseType(typeNode.Text())
		if err != nil {
			return nil, fmt.Errorf("annotation for %q: %w", ext.Variable, err)
		}
		if err := unify(Atom{Name: ext.TypeExpr}, t, subst); err != nil {
			return nil, err
		}
		extended = extended.Extend(varNode.Text(), t)
	}

	exprNode := node.FindBinding(j.Expression)
	if exprNode == nil {
		return nil, fmt.Errorf("no subtree bound to %q", j.Expression)
	}
	got, err := c.check(exprNode, extended)
	if err != nil {
		return nil, err
	}

	pattern, err := ParseType(j.TypeExpr)
	if err != nil {
		return nil, err
	}
	if err := unify(pattern, got, subst); err != nil {
		return nil, err
	}
	return got, nil
}

// checkEquality handles τ₁ = τ₂ premises: both sides are resolved through
// the substitution; a still-free atom on one side is bound to the other.
func (c *Checker) checkEquality(p grammar.RelationPremise, subst substitution) error {
	left, err := ParseType(p.Left)
	if err != nil {
		return err
	}
	right, err := ParseType(p.Right)
	if err != nil {
		return err
	}
	l := substitute(left, subst)
	r := substitute(right, subst)
	if TypeEq(l, r) {
		return nil
	}
	if trial := subst.clone(); unify(l, r, trial) == nil {
		subst.adopt(trial)
		return nil
	}
	if trial := subst.clone(); unify(r, l, trial) == nil {
		subst.adopt(trial)
		return nil
	}
	return fmt.Errorf("types %s and %s are not equal", l, r)
}

func (s substitution) clone() substitution {
	next := make(substitution, len(s))
	for k, v := range s {
		next[k] = v
	}
	return next
}

func (s substitution) adopt(other substitution) {
	for k, v := range other {
		s[k] = v
	}
}

// unify matches a type pattern against an actual type, binding free
// pattern atoms in the substitution and requiring equality for bound ones.
func unify(pattern, actual Type, subst substitution) error {
	switch pattern := pattern.(type) {
	case Atom:
		if bound, ok := subst[pattern.Name]; ok {
			if !TypeEq(bound, actual) {
				return fmt.Errorf("%s is %s, not %s", pattern.Name, bound, actual)
			}
			return nil
		}
		subst[pattern.Name] = actual
		return nil
	case Arrow:
		arrow, ok := actual.(Arrow)
		if !ok {
			return fmt.Errorf("expected a function type matching %s, got %s", pattern, actual)
		}
		if err := unify(pattern.Left, arrow.Left, subst); err != nil {
			return err
		}
		return unify(pattern.Right, arrow.Right, subst)
	}
	return fmt.Errorf("unsupported type pattern")
}

// substitute replaces bound metavariables, leaving free ones in place.
func substitute(t Type, subst substitution) Type {
	switch t := t.(type) {
	case Atom:
		if bound, ok := subst[t.Name]; ok {
			return bound
		}
		return t
	case Arrow:
		return Arrow{Left: substitute(t.Left, subst), Right: substitute(t.Right, subst)}
	}
	return t
}
