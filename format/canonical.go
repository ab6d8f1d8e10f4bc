// Package format renders beam syntax trees: a canonical parenthesized
// encoding used for structural comparison, and a JSON encoding for
// interchange with other tools.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PKD667/beam/parser"
)

// The canonical form is an unambiguous prefix encoding:
//
//	(nt Name (r rule) (b binding) child…)
//	(t (b binding) "literal")
//
// Rule and binding markers are optional. Terminal literals are quoted so
// any token text survives the round trip. Decoding an encoded tree yields
// a structurally equal tree; rule names are read back but not resolved,
// since the codec has no grammar to resolve them against.

// CanonicalEncoder writes trees in canonical form.
type CanonicalEncoder struct {
	w io.Writer
}

func NewCanonicalEncoder(w io.Writer) *CanonicalEncoder {
	return &CanonicalEncoder{w: w}
}

func (e *CanonicalEncoder) Encode(node *parser.Node) error {
	_, err := io.WriteString(e.w, EncodeCanonical(node))
	return err
}

// EncodeCanonical serializes a tree to its canonical textual form.
func EncodeCanonical(node *parser.Node) string {
	var sb strings.Builder
	writeCanonical(&sb, node)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, node *parser.Node) {
	if node.Kind == parser.Terminal {
		sb.WriteString("(t")
		if node.Binding != "" {
			fmt.Fprintf(sb, " (b %s)", node.Binding)
		}
		fmt.Fprintf(sb, " %s)", strconv.Quote(node.Value))
		return
	}

	sb.WriteString("(nt ")
	sb.WriteString(node.Value)
	if node.TypingRule != nil {
		fmt.Fprintf(sb, " (r %s)", node.TypingRule.Name)
	}
	if node.Binding != "" {
		fmt.Fprintf(sb, " (b %s)", node.Binding)
	}
	for _, child := range node.Children {
		sb.WriteString(" ")
		writeCanonical(sb, child)
	}
	sb.WriteString(")")
}

// ParseCanonical parses the canonical textual form back into a tree.
func ParseCanonical(s string) (*parser.Node, error) {
	d := &canonicalDecoder{input: s}
	node, err := d.parseNode()
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.pos < len(d.input) {
		return nil, fmt.Errorf("trailing input at offset %d", d.pos)
	}
	return node, nil
}

type canonicalDecoder struct {
	input string
	pos   int
}

func (d *canonicalDecoder) parseNode() (*parser.Node, error) {
	if err := d.expect('('); err != nil {
		return nil, err
	}
	tag, err := d.atom()
	if err != nil {
		return nil, err
	}
	switch tag {
	case "t":
		return d.parseTerminal()
	case "nt":
		return d.parseNonterminal()
	}
	return nil, fmt.Errorf("unknown node tag %q at offset %d", tag, d.pos)
}

func (d *canonicalDecoder) parseTerminal() (*parser.Node, error) {
	node := &parser.Node{Kind: parser.Terminal}

	binding, _, err := d.markers()
	if err != nil {
		return nil, err
	}
	node.Binding = binding

	value, err := d.quoted()
	if err != nil {
		return nil, err
	}
	node.Value = value

	return node, d.expect(')')
}

func (d *canonicalDecoder) parseNonterminal() (*parser.Node, error) {
	name, err := d.atom()
	if err != nil {
		return nil, err
	}
	node := &parser.Node{Kind: parser.Nonterminal, Value: name}

	binding, _, err := d.markers()
	if err != nil {
		return nil, err
	}
	node.Binding = binding

	for {
		d.skipSpace()
		if d.peek() == ')' {
			d.pos++
			return node, nil
		}
		child, err := d.parseNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
}

// markers reads the optional (r name) and (b name) markers in either
// order. The rule name is returned but carries no resolved rule.
func (d *canonicalDecoder) markers() (binding, rule string, err error) {
	for {
		d.skipSpace()
		if d.peek() != '(' {
			return binding, rule, nil
		}
		save := d.pos
		d.pos++
		tag, err := d.atom()
		if err != nil {
			return "", "", err
		}
		if tag != "b" && tag != "r" {
			d.pos = save
			return binding, rule, nil
		}
		name, err := d.atom()
		if err != nil {
			return "", "", err
		}
		if err := d.expect(')'); err != nil {
			return "", "", err
		}
		if tag == "b" {
			binding = name
		} else {
			rule = name
		}
	}
}

func (d *canonicalDecoder) peek() byte {
	if d.pos >= len(d.input) {
		return 0
	}
	return d.input[d.pos]
}

func (d *canonicalDecoder) skipSpace() {
	for d.pos < len(d.input) {
		switch d.input[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *canonicalDecoder) expect(c byte) error {
	d.skipSpace()
	if d.peek() != c {
		return fmt.Errorf("expected %q at offset %d", string(c), d.pos)
	}
	d.pos++
	return nil
}

// atom reads a run of characters up to whitespace or a parenthesis.
func (d *canonicalDecoder) atom() (string, error) {
	d.skipSpace()
	start := d.pos
	for d.pos < len(d.input) {
		c := d.input[d.pos]
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		d.pos++
	}
	if d.pos == start {
		return "", fmt.Errorf("expected atom at offset %d", start)
	}
	return d.input[start:d.pos], nil
}

// quoted reads a Go-quoted string literal.
func (d *canonicalDecoder) quoted() (string, error) {
	d.skipSpace()
	if d.peek() != '"' {
		return "", fmt.Errorf("expected quoted literal at offset %d", d.pos)
	}
	start := d.pos
	d.pos++
	for d.pos < len(d.input) {
		switch d.input[d.pos] {
		case '\\':
			d.pos += 2
			continue
		case '"':
			d.pos++
			value, err := strconv.Unquote(d.input[start:d.pos])
			if err != nil {
				return "", fmt.Errorf("bad literal at offset %d: %w", start, err)
			}
			return value, nil
		}
		_, size := utf8.DecodeRuneInString(d.input[d.pos:])
		d.pos += size
	}
	return "", fmt.Errorf("unterminated literal at offset %d", start)
}
