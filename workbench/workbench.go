// Package workbench keeps a registry of open grammar documents and derives
// diagnostics from them. It backs both the LSP server and the file watcher.
package workbench

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/PKD667/beam/grammar"
)

var log = commonlog.GetLogger("beam.workbench")

// DiagnosticSeverity distinguishes errors from warnings.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is one finding about a grammar document. Line is zero-based.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Line     int
}

// Document is one grammar file known to the workbench.
type Document struct {
	Path        string
	Content     []byte
	Grammar     *grammar.Grammar
	LoadErr     error
	Diagnostics []Diagnostic
}

// Workbench tracks grammar documents by path. All methods are safe for
// concurrent use.
type Workbench struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*Document
}

// GrammarExtensions lists the file extensions the workbench considers
// grammar documents.
var GrammarExtensions = []string{".bnf", ".grammar"}

func New(rootDir string) *Workbench {
	return &Workbench{
		rootDir: rootDir,
		files:   make(map[string]*Document),
	}
}

func (w *Workbench) RootDir() string {
	return w.rootDir
}

// IsGrammarFile reports whether path has a recognized grammar extension.
func IsGrammarFile(path string) bool {
	ext := filepath.Ext(path)
	for _, known := range GrammarExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ScanAll loads every grammar file under the root directory.
func (w *Workbench) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if IsGrammarFile(path) {
			w.ScanFile(path)
		}
		return nil
	})
}

// ScanFile loads one grammar file from disk into the registry.
func (w *Workbench) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return w.UpdateFile(path, content)
}

// UpdateFile replaces the document's content and recomputes its grammar
// and diagnostics.
func (w *Workbench) UpdateFile(path string, content []byte) error {
	doc := &Document{
		Path:    path,
		Content: content,
	}
	doc.Grammar, doc.LoadErr = grammar.Load(string(content))
	doc.Diagnostics = diagnose(string(content), doc.Grammar, doc.LoadErr)

	if doc.LoadErr != nil {
		log.Errorf("load %s: %s", path, doc.LoadErr)
	} else {
		log.Debugf("loaded %s: %d nonterminals, %d typing rules",
			path, len(doc.Grammar.Productions), len(doc.Grammar.TypingRules))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return doc.LoadErr
}

// RemoveFile drops a document from the registry.
func (w *Workbench) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// GetFile returns the document registered under path, or nil.
func (w *Workbench) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the registered document paths.
func (w *Workbench) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	return paths
}

var ruleRefPattern = regexp.MustCompile(`^\s*(\w+)\s*\(\s*([^)\s]+)\s*\)\s*::=`)

// diagnose turns a load result into diagnostics: the load error itself,
// warnings for productions naming undefined typing rules, warnings for
// typing rules no production references, and errors for regex terminals
// that do not compile.
func diagnose(source string, g *grammar.Grammar, loadErr error) []Diagnostic {
	var diags []Diagnostic

	if loadErr != nil {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  loadErr.Error(),
			Line:     0,
		})
		return diags
	}

	lines := strings.Split(source, "\n")
	referenced := make(map[string]bool)

	for i, line := range lines {
		m := ruleRefPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[2]
		referenced[name] = true
		if _, ok := g.TypingRules[name]; !ok {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("production %s references undefined typing rule %q", m[1], name),
				Line:     i,
			})
		}
	}

	for name := range g.TypingRules {
		if !referenced[name] {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("typing rule %q is not referenced by any production", name),
				Line:     findLine(lines, "("+name+")"),
			})
		}
	}

	diags = append(diags, diagnoseRegexes(lines, g)...)
	return diags
}

func diagnoseRegexes(lines []string, g *grammar.Grammar) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]bool)
	for _, productions := range g.Productions {
		for _, production := range productions {
			for _, sym := range production.RHS {
				v := sym.Value
				if !strings.HasPrefix(v, "/") || !strings.HasSuffix(v, "/") || len(v) <= 2 {
					continue
				}
				if seen[v] {
					continue
				}
				seen[v] = true
				if _, err := regexp.Compile(strings.Trim(v, "/")); err != nil {
					diags = append(diags, Diagnostic{
						Severity: SeverityError,
						Message:  fmt.Sprintf("invalid regex terminal %s: %s", v, err),
						Line:     findLine(lines, v),
					})
				}
			}
		}
	}
	return diags
}

func findLine(lines []string, needle string) int {
	for i, line := range lines {
		if strings.Contains(line, needle) {
			return i
		}
	}
	return 0
}
