package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PKD667/beam/format"
	"github.com/PKD667/beam/grammar"
	"github.com/PKD667/beam/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <grammar> [input]",
		Short: "Parse input against a grammar and dump the syntax tree",
		Long: `Parse input against a grammar specification file.

If input is provided as a second argument it is parsed directly,
otherwise input is read from stdin.`,
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

			switch outputFormat {
			case "tree":
				fmt.Println(node.String())
			case "canonical":
				if err := format.NewCanonicalEncoder(os.Stdout).Encode(node); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				fmt.Println()
			case "json":
				if err := format.NewASTJSONEncoder(os.Stdout).Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, canonical, json)")

	return cmd
}
