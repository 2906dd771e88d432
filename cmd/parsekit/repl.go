package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/parsekit/ast"
	"github.com/npillmayer/parsekit/grammars"
	"github.com/npillmayer/parsekit/runtime"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	init *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator",
		Long: `repl reads calculator statements, evaluates them and prints the result.
Statements are separated by ';', variables persist between lines.

    > x = 6 * 7
    > "x = " + x

Commands:
    :tree <input>   display the parse tree of input
    :ast <input>    display the abstract syntax tree of input
    :vars           list variables
    :quit           leave (or <ctrl>D)`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	replFlags.init = cmd.Flags().String("init", "", "file to evaluate before going interactive")
	rootCmd.AddCommand(cmd)
}

// Intp is our interpreter object.
type Intp struct {
	calc *grammars.Calculator
	th   *ast.Thread
	repl *readline.Instance
}

func runREPL(cmd *cobra.Command, args []string) error {
	calc, err := grammars.NewCalculator()
	if err != nil {
		return err
	}
	repl, err := readline.New("calc> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{
		calc: calc,
		th:   ast.NewThread(runtime.NewRuntimeEnvironment(nil)),
		repl: repl,
	}
	pterm.Info.Println("Welcome to the parsekit calculator")
	tracer().Infof("Quit with <ctrl>D")
	if err := intp.loadInitFile(*replFlags.init); err != nil {
		return err
	}
	intp.REPL()
	return nil
}

func (intp *Intp) loadInitFile(filename string) error {
	if filename == "" {
		return nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("unable to open init file: %w", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := intp.calc.Eval(intp.th, line, filename); err != nil {
			pterm.Error.Printf("%s line %d: %v\n", filename, lineno, err)
		}
	}
	return scanner.Err()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if quit := intp.Eval(line); quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Eval executes a command or evaluates calculator input. It returns true
// if the user wants to quit.
func (intp *Intp) Eval(line string) bool {
	if strings.HasPrefix(line, ":") {
		cmd, arg := line, ""
		if i := strings.IndexAny(line, " \t"); i > 0 {
			cmd, arg = line[:i], strings.TrimSpace(line[i:])
		}
		switch cmd {
		case ":quit", ":q":
			return true
		case ":vars":
			intp.printVariables()
		case ":tree":
			tree := intp.calc.Parse(arg, "<repl>")
			printTree(tree.Root)
			for _, msg := range tree.Messages {
				pterm.Error.Println(msg.String())
			}
		case ":ast":
			root, _, err := intp.calc.Compile(arg, "<repl>")
			if err != nil {
				pterm.Error.Println(err.Error())
			} else {
				pterm.Info.Printf("%v\n", root)
			}
		default:
			pterm.Error.Printf("unknown command %s\n", cmd)
		}
		return false
	}
	v, err := intp.calc.Eval(intp.th, line, "<repl>")
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	if !v.IsNone() {
		pterm.Info.Printf("%s : %s\n", v, v.Kind())
	}
	return false
}

func (intp *Intp) printVariables() {
	data := pterm.TableData{{"Variable", "Value", "Kind"}}
	intp.th.Runtime.Frames.Globals().Vars.Each(func(tag *runtime.Tag) {
		data = append(data, []string{tag.Name, tag.Value.String(), tag.Value.Kind().String()})
	})
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
