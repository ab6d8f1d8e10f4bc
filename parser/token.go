package parser

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits input text into tokens: runs of delimiter characters
// separate tokens, and every special token (a grammar's literal terminals)
// is split out as its own token even without surrounding delimiters, so
// "(λy.y)x" yields "(", "λ", "y", ".", "y", ")", "x". Tokens are interned;
// Tokenize returns ids and Str maps an id back to its text.
type Tokenizer struct {
	specials []string
	delims   map[rune]bool
	ids      map[string]int
	texts    []string
}

// NewTokenizer creates a tokenizer for the given special tokens and
// delimiter set. Longer special tokens win over shorter prefixes, so "->"
// is matched before "-".
func NewTokenizer(specials []string, delims []rune) *Tokenizer {
	t := &Tokenizer{
		specials: append([]string(nil), specials...),
		delims:   make(map[rune]bool, len(delims)),
		ids:      make(map[string]int),
	}
	sort.SliceStable(t.specials, func(i, j int) bool {
		return len(t.specials[i]) > len(t.specials[j])
	})
	for _, d := range delims {
		t.delims[d] = true
	}
	return t
}

// Tokenize splits input into token ids. It fails on control characters,
// which no grammar in this notation can produce.
func (t *Tokenizer) Tokenize(input string) ([]int, error) {
	var tokens []int
	i := 0
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if t.delims[r] {
			i += size
			continue
		}
		if err := checkRune(r, i); err != nil {
			return nil, err
		}
		if sp := t.matchSpecial(input[i:]); sp != "" {
			tokens = append(tokens, t.intern(sp))
			i += len(sp)
			continue
		}
		start := i
		for i < len(input) {
			r, size := utf8.DecodeRuneInString(input[i:])
			if t.delims[r] || t.matchSpecial(input[i:]) != "" {
				break
			}
			if err := checkRune(r, i); err != nil {
				return nil, err
			}
			i += size
		}
		tokens = append(tokens, t.intern(input[start:i]))
	}
	return tokens, nil
}

// Str returns the text of a token id.
func (t *Tokenizer) Str(id int) (string, bool) {
	if id < 0 || id >= len(t.texts) {
		return "", false
	}
	return t.texts[id], true
}

func (t *Tokenizer) matchSpecial(rest string) string {
	for _, sp := range t.specials {
		if len(rest) >= len(sp) && rest[:len(sp)] == sp {
			return sp
		}
	}
	return ""
}

func (t *Tokenizer) intern(text string) int {
	if id, ok := t.ids[text]; ok {
		return id
	}
	id := len(t.texts)
	t.ids[text] = id
	t.texts = append(t.texts, text)
	return id
}

func checkRune(r rune, offset int) error {
	if unicode.IsControl(r) || r == utf8.RuneError {
		return fmt.Errorf("unrecognized character %q at offset %d", r, offset)
	}
	return nil
}
