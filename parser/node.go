package parser

import (
	"fmt"
	"strings"

	"github.com/PKD667/beam/grammar"
)

// NodeKind distinguishes terminal leaves from nonterminal interior nodes.
type NodeKind int

const (
	Terminal NodeKind = iota
	Nonterminal
)

func (k NodeKind) String() string {
	switch k {
	case Terminal:
		return "Terminal"
	case Nonterminal:
		return "Nonterminal"
	}
	return "Unknown"
}

// Span is a half-open token-index range within the parsed input.
type Span struct {
	Start int
	End   int
}

// Node is a syntax-tree node. Terminals hold the matched token text;
// nonterminals own an ordered child list. Binding is copied from the
// grammar symbol that produced the node, TypingRule from the production.
// Nodes are built bottom-up during parsing and immutable afterwards; each
// node exclusively owns its children.
type Node struct {
	Kind       NodeKind
	Value      string
	Span       *Span
	Children   []*Node
	Binding    string
	TypingRule *grammar.TypingRule
}

// EqualStructure reports structural equality: same kind, value, binding
// and ordered children, recursively. Spans and typing-rule identity are
// not part of this equality.
func (n *Node) EqualStructure(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Value != o.Value || n.Binding != o.Binding {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].EqualStructure(o.Children[i]) {
			return false
		}
	}
	return true
}

// FindBinding returns the first node in the subtree carrying the given
// binding name, searched depth-first in child order.
func (n *Node) FindBinding(binding string) *Node {
	if n.Binding == binding {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindBinding(binding); found != nil {
			return found
		}
	}
	return nil
}

// Text returns the tokens covered by the subtree, joined by single spaces.
func (n *Node) Text() string {
	if n.Kind == Terminal {
		return n.Value
	}
	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		parts = append(parts, child.Text())
	}
	return strings.Join(parts, " ")
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))

	if n.Kind == Terminal {
		fmt.Fprintf(sb, "'%s'", n.Value)
	} else {
		sb.WriteString(n.Value)
	}
	if n.Binding != "" {
		fmt.Fprintf(sb, "[%s]", n.Binding)
	}
	if n.TypingRule != nil {
		fmt.Fprintf(sb, "@%s", n.TypingRule.Name)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1)
	}
}
