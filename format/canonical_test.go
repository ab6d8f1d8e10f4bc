package format

import (
	"strings"
	"testing"

	"github.com/PKD667/beam/grammar"
	"github.com/PKD667/beam/parser"
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

func parseInput(t *testing.T, input string) *parser.Node {
	t.Helper()
	g, err := grammar.Load(lambdaSpec)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	node, err := parser.New(g).Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return node
}

func TestCanonicalRoundTrip(t *testing.T) {
	tests := []string{
		"x",
		"f x",
		"λx:P.x",
		"λf:P→Q.λx:P.f x",
		"g (f x)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			node := parseInput(t, input)
			encoded := EncodeCanonical(node)

			decoded, err := ParseCanonical(encoded)
			if err != nil {
				t.Fatalf("ParseCanonical() error = %v", err)
			}
			if !node.EqualStructure(decoded) {
				t.Errorf("decoded tree differs:\nencoded: %s\ngot:\n%swant:\n%s",
					encoded, decoded, node)
			}
		})
	}
}

func TestCanonicalEncodesMarkers(t *testing.T) {
	node := parseInput(t, "f x")
	encoded := EncodeCanonical(node)

	for _, want := range []string{"(nt Term", "(nt Application (r app)", "(b f)", "(b e)", `"x"`} {
		if !strings.Contains(encoded, want) {
			t.Errorf("encoding missing %q: %s", want, encoded)
		}
	}
}

func TestCanonicalEncoderWritesToWriter(t *testing.T) {
	node := parseInput(t, "x")
	var sb strings.Builder

	if err := NewCanonicalEncoder(&sb).Encode(node); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if sb.String() != EncodeCanonical(node) {
		t.Error("Encode() output differs from EncodeCanonical()")
	}
}

func TestParseCanonicalQuotedLiterals(t *testing.T) {
	node, err := ParseCanonical(`(nt X (t "a \"quoted\" token"))`)
	if err != nil {
		t.Fatalf("ParseCanonical() error = %v", err)
	}
	if got := node.Children[0].Value; got != `a "quoted" token` {
		t.Errorf("Value = %q, want %q", got, `a "quoted" token`)
	}
}

func TestParseCanonicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad tag", "(x foo)"},
		{"trailing input", `(t "a") extra`},
		{"unterminated literal", `(t "a`},
		{"missing close", `(nt X (t "a")`},
		{"terminal without literal", "(t )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCanonical(tt.input); err == nil {
				t.Errorf("ParseCanonical(%q) error = nil, want error", tt.input)
			}
		})
	}
}
