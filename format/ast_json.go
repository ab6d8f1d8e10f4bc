package format

import (
	"encoding/json"
	"io"

	"github.com/PKD667/beam/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Value    string         `json:"value"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Binding  string         `json:"binding,omitempty"`
	Rule     string         `json:"rule,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:    n.Kind.String(),
		Value:   n.Value,
		Binding: n.Binding,
	}
	if n.Span != nil {
		jn.Span = &astJSONSpan{Start: n.Span.Start, End: n.Span.End}
	}
	if n.TypingRule != nil {
		jn.Rule = n.TypingRule.Name
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, nodeToJSON(child))
	}
	return jn
}
