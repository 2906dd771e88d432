package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/parsekit/lr/lalr"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tablesFlags = struct {
	format *string
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the parser tables of a grammar",
		Example: `  parsekit tables -g expression
  parsekit tables -g calculator --format dot -o calc.dot`,
		Args: cobra.NoArgs,
		RunE: runTables,
	}
	tablesFlags.format = cmd.Flags().StringP("format", "f", "text", "output format [text|dot|html]")
	tablesFlags.output = cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage()
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if *tablesFlags.output != "" {
		f, err := os.Create(*tablesFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch strings.ToLower(*tablesFlags.format) {
	case "dot":
		return lalr.WriteGraphViz(w, lang.Automaton)
	case "html":
		return lalr.WriteActionTableHTML(w, lang.Automaton)
	case "text":
		return printStates(lang)
	}
	return fmt.Errorf("unknown output format %q", *tablesFlags.format)
}

// printStates displays the states of a language's automaton as a table.
func printStates(lang *language.Language) error {
	a := lang.Automaton
	fp, err := lalr.Fingerprint(a)
	if err != nil {
		return err
	}
	pterm.Info.Printf("grammar %s: %d states, fingerprint %s\n", lang.Grammar.Name, len(a.Data.States), fp)
	data := pterm.TableData{{"State", "Kernel", "Actions"}}
	for _, s := range a.Data.States {
		var kernel []string
		for _, item := range s.KernelItems {
			kernel = append(kernel, item.String())
		}
		var actions []string
		if s.DefaultAction != nil {
			actions = append(actions, "default: "+s.DefaultAction.String())
		}
		for _, t := range s.ExpectedTerminals.Sorted() {
			if act := s.Actions[t]; act != nil {
				actions = append(actions, fmt.Sprintf("%s: %s", t, act))
			}
		}
		data = append(data, []string{s.Name, strings.Join(kernel, "\n"), strings.Join(actions, "\n")})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	for _, c := range a.Conflicts {
		pterm.Warning.Println(c.String())
	}
	return nil
}
