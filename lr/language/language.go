/*
Package language runs the construction pipeline for a grammar: grammar
analysis, scanner tables and the LALR(1) automaton. The result is a
Language, which is immutable and may be shared by any number of
concurrent parsers.

Construction problems are collected in an error list instead of being
raised. A language with errors of level lr.LevelError or above cannot be
used for parsing; lower levels (e.g. resolved conflicts) are advisory.

    lang, err := language.Build(grammar)
    if err != nil {
        // err is the lr.GrammarErrorList
    }
    p := parser.New(lang)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package language

import (
	"fmt"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/lalr"
	"github.com/npillmayer/parsekit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.lr")
}

// Language is a grammar together with everything needed to parse input of
// the grammar.
type Language struct {
	Grammar     *lr.Grammar
	GrammarData *lr.GrammarData
	ScannerData *scanner.Data
	Automaton   *lalr.Automaton
	Errors      lr.GrammarErrorList
}

// ParserData returns the parser tables, or nil if construction failed.
func (lang *Language) ParserData() *lr.ParserData {
	if lang.Automaton == nil {
		return nil
	}
	return lang.Automaton.Data
}

// CanParse is true if the language has been built without errors.
func (lang *Language) CanParse() bool {
	return lang.ParserData() != nil && lang.ScannerData != nil &&
		lang.Errors.MaxLevel() < lr.LevelError
}

// Build runs the construction pipeline for g. It returns the language
// together with the error list if it contains entries of level
// lr.LevelError or above. The language is returned in any case, to let
// clients inspect partial results.
func Build(g *lr.Grammar) (lang *Language, err error) {
	lang = &Language{Grammar: g}
	if g == nil {
		lang.Errors.Add(lr.LevelError, nil, "no grammar")
		return lang, lang.Errors
	}
	defer func() {
		if r := recover(); r != nil {
			lang.Errors.Add(lr.LevelInternalError, nil, "building language %s: %v", g.Name, r)
			err = lang.Errors
		}
	}()
	tracer().Infof("building language %s", g.Name)
	lang.GrammarData = lr.BuildGrammarData(g, &lang.Errors)
	if lang.Errors.MaxLevel() >= lr.LevelError {
		return lang, lang.Errors
	}
	lang.ScannerData = scanner.BuildData(lang.GrammarData, &lang.Errors)
	if lang.Errors.MaxLevel() >= lr.LevelError {
		return lang, lang.Errors
	}
	lang.Automaton = lalr.Build(lang.GrammarData, &lang.Errors)
	if err = lang.Errors.AsError(lr.LevelError); err != nil {
		return lang, err
	}
	tracer().Infof("language %s: %d terminals, %d states, %d conflicts", g.Name,
		len(lang.GrammarData.Terminals), len(lang.ParserData().States), lang.Errors.Count(lr.LevelConflict))
	return lang, nil
}

// MustBuild is like Build, but panics if the language cannot be built.
// It is intended for grammars fixed at compile time.
func MustBuild(g *lr.Grammar) *Language {
	lang, err := Build(g)
	if err != nil {
		panic(fmt.Sprintf("cannot build language: %v", err))
	}
	return lang
}
