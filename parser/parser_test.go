package parser

import (
	"strings"
	"testing"

	"github.com/PKD667/beam/grammar"
)

const lambdaSpec = `
Term ::= Lambda | Application | Variable

Lambda(lambda) ::= 'λ' Variable[x] ':' Type[τ₁] '.' Term[e]

Application(app) ::= BaseTerm[f] BaseTerm[e]

BaseTerm ::= Variable | '(' Term ')'

Variable(var) ::= /[a-z][a-zA-Z0-9]*/[x]

Type ::= BaseType '→' Type | BaseType

BaseType ::= /[A-Z][a-zA-Z0-9]*/ | '(' Type ')'

x ∈ Γ
-------------------- (var)
Γ(x)

Γ,x:τ₁ ⊢ e : τ₂
-------------------- (lambda)
τ₁ → τ₂

Γ ⊢ f : τ₁ → τ₂, Γ ⊢ e : τ₁
-------------------- (app)
τ₂
`

const arithSpec = `
Expr ::= Term '+' Expr | Term

Term ::= /[0-9]+/
`

func mustLoad(t *testing.T, spec string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Load(spec)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return g
}

func TestParseArithmetic(t *testing.T) {
	p := New(mustLoad(t, arithSpec))

	node, err := p.Parse("1 + 2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if node.Value != "Expr" {
		t.Errorf("root = %q, want %q", node.Value, "Expr")
	}
	if len(node.Children) != 3 {
		t.Fatalf("len(children) = %d, want %d", len(node.Children), 3)
	}
	if node.Children[1].Value != "+" {
		t.Errorf("operator = %q, want %q", node.Children[1].Value, "+")
	}
	if node.Children[2].Value != "Expr" {
		t.Errorf("right child = %q, want nested Expr", node.Children[2].Value)
	}
}

func TestParseRequiresFullConsumption(t *testing.T) {
	p := New(mustLoad(t, arithSpec))

	if _, err := p.Parse("1 +"); err == nil {
		t.Error("Parse(1 +) error = nil, want error")
	}
	if _, err := p.Parse("1 2"); err == nil {
		t.Error("Parse(1 2) error = nil, want error")
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := New(mustLoad(t, arithSpec))

	if _, err := p.Parse("   "); err == nil {
		t.Error("Parse() error = nil, want error for empty input")
	}
}

func TestParseFirstAlternativeWins(t *testing.T) {
	g := mustLoad(t, "Expr ::= 'a' 'b' | 'a'\n")
	p := New(g)

	node, err := p.Parse("a b")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(node.Children) != 2 {
		t.Errorf("len(children) = %d, want %d", len(node.Children), 2)
	}
}

func TestParseTopLevelBacktracksShortAlternative(t *testing.T) {
	// The first alternative matches a prefix but leaves input behind, so
	// the top level moves on to the longer one.
	g := mustLoad(t, "Expr ::= 'a' | 'a' 'b'\n")
	p := New(g)

	node, err := p.Parse("a b")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(node.Children) != 2 {
		t.Errorf("len(children) = %d, want %d", len(node.Children), 2)
	}
}

func TestParseLeftRecursiveFirstAlternativeTerminates(t *testing.T) {
	g := mustLoad(t, "A ::= 'x' | A 'x'\n")
	p := New(g)

	node, err := p.Parse("x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if node.Value != "A" {
		t.Errorf("root = %q, want %q", node.Value, "A")
	}
}

func TestParseAttachesTypingRules(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("x y")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if node.Value != "Term" {
		t.Fatalf("root = %q, want %q", node.Value, "Term")
	}
	if node.TypingRule != nil {
		t.Errorf("Term rule = %v, want nil", node.TypingRule)
	}

	app := node.Children[0]
	if app.Value != "Application" {
		t.Fatalf("child = %q, want %q", app.Value, "Application")
	}
	if app.TypingRule == nil || app.TypingRule.Name != "app" {
		t.Errorf("Application rule = %v, want app", app.TypingRule)
	}
}

func TestParseBindingsPropagate(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("λx:P.x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	lambda := node.Children[0]
	if lambda.Value != "Lambda" {
		t.Fatalf("child = %q, want %q", lambda.Value, "Lambda")
	}

	variable := lambda.FindBinding("x")
	if variable == nil {
		t.Fatal("FindBinding(x) = nil")
	}
	if variable.Kind != Nonterminal || variable.Value != "Variable" {
		t.Errorf("bound node = %v %q, want nonterminal Variable", variable.Kind, variable.Value)
	}

	typeNode := lambda.FindBinding("τ₁")
	if typeNode == nil {
		t.Fatal("FindBinding(τ₁) = nil")
	}
	if typeNode.Text() != "P" {
		t.Errorf("type text = %q, want %q", typeNode.Text(), "P")
	}

	body := lambda.FindBinding("e")
	if body == nil {
		t.Fatal("FindBinding(e) = nil")
	}
	if body.Value != "Term" {
		t.Errorf("body = %q, want %q", body.Value, "Term")
	}
}

func TestParseApplicationBindings(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("f x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	app := node.Children[0]

	fn := app.FindBinding("f")
	if fn == nil || fn.Text() != "f" {
		t.Errorf("FindBinding(f) text = %v, want f", fn)
	}
	arg := app.FindBinding("e")
	if arg == nil || arg.Text() != "x" {
		t.Errorf("FindBinding(e) text = %v, want x", arg)
	}
}

func TestParseParenthesizedTerm(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("g (f x)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := node.Text(); got != "g ( f x )" {
		t.Errorf("Text() = %q, want %q", got, "g ( f x )")
	}
}

func TestParseArrowTypeAnnotation(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("λf:P→Q.f")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	typeNode := node.FindBinding("τ₁")
	if typeNode == nil {
		t.Fatal("FindBinding(τ₁) = nil")
	}
	if got := typeNode.Text(); got != "P → Q" {
		t.Errorf("type text = %q, want %q", got, "P → Q")
	}
}

func TestParseSpans(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("f x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if node.Span == nil || node.Span.Start != 0 || node.Span.End != 2 {
		t.Errorf("root span = %v, want {0 2}", node.Span)
	}

	arg := node.FindBinding("e")
	if arg.Span == nil || arg.Span.Start != 1 || arg.Span.End != 2 {
		t.Errorf("argument span = %v, want {1 2}", arg.Span)
	}
}

func TestParseStartNonterminalFallback(t *testing.T) {
	// Neither Expr nor Term is declared, so the smallest name starts.
	g := mustLoad(t, "B ::= 'b'\n\nA ::= 'a' B\n")
	p := New(g)

	node, err := p.Parse("a b")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if node.Value != "A" {
		t.Errorf("root = %q, want %q", node.Value, "A")
	}
}

func TestNodeString(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	node, err := p.Parse("x y")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dump := node.String()

	for _, want := range []string{"Term\n", "Application@app", "[f]", "'x'", "'y'"} {
		if !strings.Contains(dump, want) {
			t.Errorf("String() missing %q:\n%s", want, dump)
		}
	}
}

func TestNodeEqualStructureIgnoresSpans(t *testing.T) {
	p := New(mustLoad(t, lambdaSpec))

	a, err := p.Parse("f x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := p.Parse("f x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b.Span = &Span{Start: 5, End: 7}

	if !a.EqualStructure(b) {
		t.Error("EqualStructure() = false, want true")
	}

	c, err := p.Parse("f y")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if a.EqualStructure(c) {
		t.Error("EqualStructure() = true for different trees, want false")
	}
}
