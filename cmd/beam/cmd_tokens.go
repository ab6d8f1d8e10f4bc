package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PKD667/beam/grammar"
	"github.com/PKD667/beam/parser"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <grammar> [input]",
		Short: "Tokenize input with a grammar's special tokens",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}
			g, err := grammar.Load(string(spec))
			if err != nil {
				return fmt.Errorf("load grammar: %w", err)
			}

			var input string
			if len(args) == 2 {
				input = args[1]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = strings.TrimRight(string(data), "\n")
			}

			tokenizer := parser.New(g).Tokenizer()
			ids, err := tokenizer.Tokenize(input)
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}

			for _, id := range ids {
				text, ok := tokenizer.Str(id)
				if !ok {
					continue
				}
				fmt.Printf("%d\t%s\n", id, text)
			}
			return nil
		},
	}
}
