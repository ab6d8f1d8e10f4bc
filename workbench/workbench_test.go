package workbench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSpec = `
Expr ::= Term '+' Expr | Term

Term(lit) ::= /[0-9]+/

x ∈ Γ
-------------------- (lit)
Γ(x)
`

func TestUpdateFileValidSpec(t *testing.T) {
	w := New(".")
	if err := w.UpdateFile("calc.bnf", []byte(validSpec)); err != nil {
		t.Fatalf("UpdateFile() error = %v", err)
	}

	doc := w.GetFile("calc.bnf")
	if doc == nil {
		t.Fatal("GetFile() = nil")
	}
	if doc.Grammar == nil {
		t.Fatal("Grammar = nil")
	}
	if !doc.Grammar.IsNonterminal("Expr") {
		t.Error("IsNonterminal(Expr) = false, want true")
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", doc.Diagnostics)
	}
}

func TestUpdateFileLoadError(t *testing.T) {
	spec := "x ∈ Γ\n-------------------- (r)\n"

	w := New(".")
	if err := w.UpdateFile("broken.bnf", []byte(spec)); err == nil {
		t.Fatal("UpdateFile() error = nil, want load error")
	}

	doc := w.GetFile("broken.bnf")
	if doc == nil {
		t.Fatal("GetFile() = nil")
	}
	if len(doc.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want %d", len(doc.Diagnostics), 1)
	}
	if doc.Diagnostics[0].Severity != SeverityError {
		t.Errorf("Severity = %v, want %v", doc.Diagnostics[0].Severity, SeverityError)
	}
}

func TestDiagnoseUndefinedTypingRule(t *testing.T) {
	spec := "Expr(missing) ::= 'x'\n"

	w := New(".")
	w.UpdateFile("undef.bnf", []byte(spec))
	doc := w.GetFile("undef.bnf")

	if len(doc.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want one warning", doc.Diagnostics)
	}
	d := doc.Diagnostics[0]
	if d.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want %v", d.Severity, SeverityWarning)
	}
	if !strings.Contains(d.Message, "missing") {
		t.Errorf("Message = %q, want mention of rule name", d.Message)
	}
	if d.Line != 0 {
		t.Errorf("Line = %d, want %d", d.Line, 0)
	}
}

func TestDiagnoseUnreferencedTypingRule(t *testing.T) {
	spec := `Expr ::= 'x'

x ∈ Γ
-------------------- (orphan)
Γ(x)
`
	w := New(".")
	w.UpdateFile("orphan.bnf", []byte(spec))
	doc := w.GetFile("orphan.bnf")

	if len(doc.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want one warning", doc.Diagnostics)
	}
	if !strings.Contains(doc.Diagnostics[0].Message, "orphan") {
		t.Errorf("Message = %q, want mention of orphan", doc.Diagnostics[0].Message)
	}
}

func TestDiagnoseInvalidRegex(t *testing.T) {
	spec := "Expr ::= /[/\n"

	w := New(".")
	w.UpdateFile("regex.bnf", []byte(spec))
	doc := w.GetFile("regex.bnf")

	var found bool
	for _, d := range doc.Diagnostics {
		if d.Severity == SeverityError && strings.Contains(d.Message, "regex") {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %v, want regex error", doc.Diagnostics)
	}
}

func TestScanAllAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.bnf")
	if err := os.WriteFile(path, []byte(validSpec), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a grammar"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w := New(dir)
	if err := w.ScanAll(); err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	if got := len(w.Paths()); got != 1 {
		t.Fatalf("len(Paths()) = %d, want %d", got, 1)
	}
	if w.GetFile(path) == nil {
		t.Fatal("GetFile() = nil after ScanAll")
	}

	w.RemoveFile(path)
	if w.GetFile(path) != nil {
		t.Error("GetFile() != nil after RemoveFile")
	}
}

func TestIsGrammarFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"calc.bnf", true},
		{"stlc.grammar", true},
		{"main.go", false},
		{"bnf", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsGrammarFile(tt.path); got != tt.want {
				t.Errorf("IsGrammarFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
