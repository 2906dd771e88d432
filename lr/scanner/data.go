package scanner

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/parsekit/lr"
)

// Data holds the terminal lookup tables for scanning input of a grammar.
// It is created once per grammar and is read-only afterwards; scanners for
// concurrent parses may share it.
type Data struct {
	Grammar *lr.GrammarData
	// Multiline lists the terminals which may produce partial tokens. A
	// terminal's MultilineIndex is its 1-based position in this list.
	Multiline []lr.Terminal
	lookup    map[rune][]lr.Terminal
	fallback  []lr.Terminal // terminals without firsts, tried for every input
	all       []lr.Terminal
}

// BuildData creates the scanner tables for a grammar. Terminals are looked
// up by the first character of their firsts (in both cases for
// case-insensitive grammars). Terminals without firsts are appended to
// every lookup list. Every list is sorted by descending priority.
func BuildData(gd *lr.GrammarData, errs *lr.GrammarErrorList) *Data {
	data := &Data{
		Grammar: gd,
		lookup:  make(map[rune][]lr.Terminal),
	}
	caseSensitive := gd.Grammar == nil || gd.Grammar.CaseSensitive
	for _, t := range gd.Terminals {
		tb := t.Terminal()
		if tb.Is(lr.IsNonScanner) {
			continue
		}
		data.all = append(data.all, t)
		if tb.Is(lr.IsMultiline) {
			data.Multiline = append(data.Multiline, t)
			tb.MultilineIndex = len(data.Multiline)
		}
		firsts := t.Firsts()
		if firsts == nil {
			data.fallback = append(data.fallback, t)
			continue
		}
		for _, prefix := range firsts {
			if prefix == "" {
				errs.Add(lr.LevelError, nil, "terminal %s has an empty prefix", t)
				continue
			}
			r, _ := utf8.DecodeRuneInString(prefix)
			data.add(r, t)
			if !caseSensitive {
				data.add(unicode.ToLower(r), t)
				data.add(unicode.ToUpper(r), t)
			}
		}
	}
	for r, terms := range data.lookup {
		terms = append(terms, data.fallback...)
		sortByPriority(terms)
		data.lookup[r] = terms
	}
	sortByPriority(data.fallback)
	sortByPriority(data.all)
	tracer().Debugf("scanner data for %d terminals: %d first characters, %d fallback, %d multiline",
		len(data.all), len(data.lookup), len(data.fallback), len(data.Multiline))
	return data
}

func (data *Data) add(r rune, t lr.Terminal) {
	for _, x := range data.lookup[r] {
		if x == t {
			return
		}
	}
	data.lookup[r] = append(data.lookup[r], t)
}

func sortByPriority(terms []lr.Terminal) {
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Terminal().Priority > terms[j].Terminal().Priority
	})
}

// Candidates returns the terminals to try for input starting with r.
func (data *Data) Candidates(r rune) []lr.Terminal {
	if terms, ok := data.lookup[r]; ok {
		return terms
	}
	return data.fallback
}

// Terminals returns all terminals the scanner may produce, sorted by
// descending priority.
func (data *Data) Terminals() []lr.Terminal {
	return data.all
}

// MultilineTerminal returns the terminal to resume a partial token with,
// given its 1-based index. Returns nil for invalid indices.
func (data *Data) MultilineTerminal(index int) lr.Terminal {
	if index < 1 || index > len(data.Multiline) {
		return nil
	}
	return data.Multiline[index-1]
}
