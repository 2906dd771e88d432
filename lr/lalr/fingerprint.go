package lalr

import (
	"sort"

	"github.com/cnf/structhash"
	"github.com/npillmayer/parsekit/lr"
)

// A name-based summary of an automaton. Terms are identified by name, so
// building the same grammar twice yields equal summaries.
type automatonSummary struct {
	Grammar   string
	States    []stateSummary
	Conflicts []string
}

type stateSummary struct {
	Name     string
	Kernel   []string
	Actions  []string
	Default  string
	Expected []string
}

// Fingerprint computes a hash over the states, action tables and
// unresolved conflicts of an automaton. Automata for the same grammar have
// equal fingerprints.
func Fingerprint(a *Automaton) (string, error) {
	return structhash.Hash(a.summary(), 1)
}

func (a *Automaton) summary() automatonSummary {
	sum := automatonSummary{}
	if a.Grammar != nil && a.Grammar.Grammar != nil {
		sum.Grammar = a.Grammar.Grammar.Name
	}
	if a.Data == nil {
		return sum
	}
	for _, s := range a.Data.States {
		ss := stateSummary{Name: s.Name}
		for _, item := range s.KernelItems {
			ss.Kernel = append(ss.Kernel, item.String())
		}
		sort.Strings(ss.Kernel)
		for _, t := range sortedActionTerms(s) {
			ss.Actions = append(ss.Actions, t.String()+": "+s.Actions[t].String())
		}
		if s.DefaultAction != nil {
			ss.Default = s.DefaultAction.String()
		}
		ss.Expected = s.ReportedExpected()
		sum.States = append(sum.States, ss)
	}
	for _, c := range a.Conflicts {
		sum.Conflicts = append(sum.Conflicts, c.String())
	}
	return sum
}

// sortedActionTerms returns the terms of a state's action table, sorted by
// name.
func sortedActionTerms(s *lr.ParserState) []lr.BnfTerm {
	terms := lr.NewTermSet()
	for t := range s.Actions {
		terms.Add(t)
	}
	return terms.Sorted()
}
