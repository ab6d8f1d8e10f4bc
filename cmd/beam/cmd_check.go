package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PKD667/beam/check"
	"github.com/PKD667/beam/grammar"
	"github.com/PKD667/beam/parser"
)

func newCheckCmd() *cobra.Command {
	var binds []string

	cmd := &cobra.Command{
		Use:   "check <grammar> [input]",
		Short: "Parse input and type-check it against the grammar's typing rules",
		Long: `Parse input against a grammar and derive its type from the typing
rules attached to the productions.

Ambient assumptions can be supplied with --bind, e.g. --bind "f:P -> Q".`,
		Args: cobra.RangeArgs(1, 2),
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

			node, err := parser.New(g).Parse(input)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			checker := check.New(g)
			for _, bind := range binds {
				name, expr, found := strings.Cut(bind, ":")
				if !found {
					return fmt.Errorf("invalid binding %q (expected name:type)", bind)
				}
				t, err := check.ParseType(strings.TrimSpace(expr))
				if err != nil {
					return fmt.Errorf("binding %q: %w", bind, err)
				}
				checker.Bind(strings.TrimSpace(name), t)
			}

			t, err := checker.Check(node)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			fmt.Println(t)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&binds, "bind", nil, "ambient binding name:type (repeatable)")

	return cmd
}
