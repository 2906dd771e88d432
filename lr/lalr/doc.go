/*
Package lalr constructs LALR(1) parser automata.

Construction starts from the grammar data of package lr (productions and
LR(0) items) and proceeds in stages:

  1. Canonical LR(0) states are created, starting with the kernel of the
     augmented root. Each state owns the closure of its kernel items,
     partitioned into shift items and reduce items.
  2. For every reduce item of an inadequate state (one with more than one
     possible action) lookback transitions over non-terminals are created.
     Transitions include each other; lookaheads of a transition are its
     read set plus the read sets of all transitions it (transitively)
     includes. This is the DeRemer/Pennello relational approach.
  3. Conflicts are detected and resolved by grammar hints: precedence
     comparison for operators, preferred shift/reduce hints, and custom
     actions. Unresolved conflicts are reported with level LevelConflict
     and resolved by a default (shift wins, first production wins).
  4. Remaining reduce actions are created; states with a single reduce item
     and no shift items get a default action.

Usage:

    var errs lr.GrammarErrorList
    gd := lr.BuildGrammarData(g, &errs)
    automaton := lalr.Build(gd, &errs)
    if errs.MaxLevel() >= lr.LevelError {
        ...
    }
    parserData := automaton.Data

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lalr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.lr")
}
