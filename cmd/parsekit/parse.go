package main

import (
	"errors"
	"io/ioutil"
	"os"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseFlags = struct {
	expr  *string
	steps *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse [source file]",
		Short: "Parse input and display the parse tree",
		Example: `  parsekit parse -g expression -e "1+2*3"
  cat input | parsekit parse -g my.ebnf --start Program`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	parseFlags.expr = cmd.Flags().StringP("expr", "e", "", "input given on the command line")
	parseFlags.steps = cmd.Flags().Bool("steps", false, "print the parser's shift and reduce steps")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage()
	if err != nil {
		return err
	}
	source, fileName := *parseFlags.expr, "<expr>"
	if len(args) > 0 {
		src, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}
		source, fileName = string(src), args[0]
	} else if source == "" {
		src, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		source, fileName = string(src), "<stdin>"
	}
	p := parser.New(lang, parser.MaxErrors(viper.GetInt("max_errors")), parser.Trace(*parseFlags.steps))
	tree := p.Parse(source, fileName)
	if *parseFlags.steps {
		for _, step := range p.Steps() {
			pterm.Println(step.String())
		}
	}
	printTree(tree.Root)
	for _, msg := range tree.Messages {
		pterm.Error.Printf("%s: %s\n", fileName, msg)
	}
	if tree.HasErrors() {
		return errors.New("input has syntax errors")
	}
	pterm.Success.Printf("parsed %s in %v\n", fileName, tree.ParseTime)
	return nil
}

// printTree renders a parse tree on the terminal.
func printTree(root *lr.ParseTreeNode) {
	if root == nil {
		return
	}
	var ll pterm.LeveledList
	root.Each(func(node *lr.ParseTreeNode, depth int) {
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: nodeLabel(node)})
	})
	_ = pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}

func nodeLabel(node *lr.ParseTreeNode) string {
	label := node.String()
	if node.IsError {
		label = pterm.Red(label)
	}
	return label
}
