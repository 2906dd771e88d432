/*
Command parsekit is a workbench for grammars built with parsekit. It
inspects the LALR(1) tables of a grammar, parses input and runs a calculator
REPL.

    parsekit tables --grammar calculator --format dot > calc.dot
    parsekit parse --grammar expression -e "(1+2)*3"
    parsekit parse --grammar my.ebnf --start Program input.txt
    parsekit repl

The grammar is either one of the built-in grammars (calculator, expression,
assignments) or the path of an EBNF file. Flags may also be set through
environment variables with prefix PARSEKIT_ (e.g. PARSEKIT_TRACE=Debug) or
through a configuration file given with --config.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
