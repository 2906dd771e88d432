package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/parsekit/grammars"
	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/ebnf"
	"github.com/npillmayer/parsekit/lr/language"
	"github.com/npillmayer/parsekit/lr/terminals"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// tracer traces with key 'parsekit.cli'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.cli")
}

var traceKeys = []string{"parsekit.cli", "parsekit.lr", "parsekit.scanner",
	"parsekit.parser", "parsekit.runtime", "parsekit.ast"}

var rootCmd = &cobra.Command{
	Use:   "parsekit",
	Short: "Inspect LALR(1) grammars and parse input",
	Long: `parsekit builds LALR(1) parsers at runtime. This tool
- prints the parser tables of a grammar,
- parses input and displays the parse tree,
- runs an interactive calculator.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initDisplay()
		return initTracing(viper.GetString("trace"))
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "configuration file")
	rootCmd.PersistentFlags().StringP("grammar", "g", "calculator",
		"built-in grammar (calculator, expression, assignments) or EBNF file")
	rootCmd.PersistentFlags().String("start", "", "start production of an EBNF grammar (default: first production)")
	rootCmd.PersistentFlags().Bool("std-terminals", false,
		"supply terminals 'number', 'string' and 'ident' to EBNF grammars")
	rootCmd.PersistentFlags().StringP("trace", "t", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().Int("max-errors", 20, "maximum number of syntax errors to report")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("grammar", rootCmd.PersistentFlags().Lookup("grammar"))
	_ = viper.BindPFlag("start", rootCmd.PersistentFlags().Lookup("start"))
	_ = viper.BindPFlag("std_terminals", rootCmd.PersistentFlags().Lookup("std-terminals"))
	_ = viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))
	_ = viper.BindPFlag("max_errors", rootCmd.PersistentFlags().Lookup("max-errors"))
}

func initConfig() {
	viper.SetEnvPrefix("PARSEKIT")
	viper.AutomaticEnv()
	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			pterm.Warning.Printf("cannot read configuration %s: %v\n", cfg, err)
		}
	}
}

func initTracing(level string) error {
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	tracer().Infof("trace level is %s", level)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Loading grammars -----------------------------------------------------

// loadGrammar returns the grammar selected by configuration key 'grammar'.
func loadGrammar() (*lr.Grammar, error) {
	name := viper.GetString("grammar")
	switch strings.ToLower(name) {
	case "calculator", "calc":
		return grammars.CalculatorGrammar()
	case "expression", "expr":
		return grammars.Expression()
	case "assignments":
		return grammars.Assignments()
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown grammar %s: %w", name, err)
	}
	defer f.Close()
	start := viper.GetString("start")
	if start == "" {
		if start, err = firstProduction(name); err != nil {
			return nil, err
		}
	}
	var opts []ebnf.Option
	if viper.GetBool("std_terminals") {
		opts = append(opts,
			ebnf.WithTerminal("number", terminals.NewNumberLiteral("number")),
			ebnf.WithTerminal("string", terminals.NewStringLiteral("string", `"`, `"`)),
			ebnf.WithTerminal("ident", terminals.NewIdentifier("ident")))
	}
	tracer().Infof("loading EBNF grammar %s, start = %s", name, start)
	return ebnf.LoadGrammar(f, filepath.Base(name), start, opts...)
}

// firstProduction returns the name of the first production of an EBNF file.
func firstProduction(fileName string) (string, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(src), "\n") {
		if i := strings.Index(line, "="); i > 0 {
			if name := strings.TrimSpace(line[:i]); name != "" && !strings.ContainsAny(name, " \t") {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("%s: no production found, please use --start", fileName)
}

// loadLanguage builds the language for the configured grammar. Conflicts
// are displayed as warnings.
func loadLanguage() (*language.Language, error) {
	g, err := loadGrammar()
	if err != nil {
		return nil, err
	}
	lang, err := language.Build(g)
	for _, e := range lang.Errors {
		if e.Level < lr.LevelError {
			pterm.Warning.Println(e.Error())
		}
	}
	if err != nil {
		return nil, err
	}
	return lang, nil
}
