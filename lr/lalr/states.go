package lalr

import (
	"fmt"

	"github.com/npillmayer/parsekit/lr"
)

// lrItem is an LR(0) item within a specific parser state. The same core
// may be part of the closures of several states.
type lrItem struct {
	state       *stateData
	core        *lr.LR0Item
	shiftedItem *lrItem    // item in the successor state, nil for reduce items
	transition  int        // index of the transition over Current(), or -1
	lookbacks   []int      // transition indices, reduce items only
	lookaheads  *lr.TermSet
	hints       []lr.GrammarHint // hints of the core plus automatic hints for this state
}

func (item *lrItem) String() string {
	return fmt.Sprintf("%s/%s", item.state.state, item.core)
}

func (item *lrItem) hasLookback(t int) bool {
	for _, lb := range item.lookbacks {
		if lb == t {
			return true
		}
	}
	return false
}

// stateData holds construction-time information for a parser state.
type stateData struct {
	state          *lr.ParserState
	allItems       []*lrItem
	cores          map[*lr.LR0Item]*lrItem
	initialItems   []*lrItem
	shiftItems     []*lrItem
	reduceItems    []*lrItem
	shiftTerms     *lr.TermSet
	shiftTerminals *lr.TermSet
	conflicts      *lr.TermSet
	transitions    map[*lr.NonTerminal]int // outgoing transitions over non-terminals
	isInadequate   bool
	readStates     []*stateData // memoized read state set
	readDone       bool
}

// newStateData creates the closure of a kernel.
func newStateData(state *lr.ParserState, kernel []*lr.LR0Item) *stateData {
	sd := &stateData{
		state:          state,
		cores:          make(map[*lr.LR0Item]*lrItem),
		shiftTerms:     lr.NewTermSet(),
		shiftTerminals: lr.NewTermSet(),
		conflicts:      lr.NewTermSet(),
		transitions:    make(map[*lr.NonTerminal]int),
	}
	state.KernelItems = kernel
	for _, core := range kernel {
		sd.addItem(core)
	}
	sd.isInadequate = len(sd.reduceItems) > 1 || len(sd.reduceItems) == 1 && len(sd.shiftItems) > 0
	return sd
}

// addItem adds a core and its closure. Closure is computed with an explicit
// worklist; the core map guards against endless expansion of recursive rules.
func (sd *stateData) addItem(core *lr.LR0Item) {
	work := []*lr.LR0Item{core}
	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]
		if _, ok := sd.cores[c]; ok {
			continue
		}
		item := &lrItem{state: sd, core: c, transition: -1, hints: c.Hints}
		sd.cores[c] = item
		sd.allItems = append(sd.allItems, item)
		if c.IsInitial() {
			sd.initialItems = append(sd.initialItems, item)
		}
		if c.IsFinal() {
			item.lookaheads = lr.NewTermSet()
			sd.reduceItems = append(sd.reduceItems, item)
			continue
		}
		sd.shiftItems = append(sd.shiftItems, item)
		cur := c.Current()
		if _, isTerminal := cur.(lr.Terminal); isTerminal {
			sd.shiftTerminals.Add(cur)
		}
		if !sd.shiftTerms.Add(cur) {
			continue // non-terminal already expanded
		}
		if nt, ok := cur.(*lr.NonTerminal); ok {
			for i := len(nt.Productions) - 1; i >= 0; i-- { // keep production order
				work = append(work, nt.Productions[i].LR0Items[0])
			}
		}
	}
}

// shiftItemsFor returns the shift items with Current() == t.
func (sd *stateData) shiftItemsFor(t lr.BnfTerm) []*lrItem {
	var r []*lrItem
	for _, item := range sd.shiftItems {
		if item.core.Current() == t {
			r = append(r, item)
		}
	}
	return r
}

// reduceItemsFor returns the reduce items having t as a lookahead.
func (sd *stateData) reduceItemsFor(t lr.BnfTerm) []*lrItem {
	var r []*lrItem
	for _, item := range sd.reduceItems {
		if item.lookaheads.Contains(t) {
			r = append(r, item)
		}
	}
	return r
}

// nextState returns the state reached by shifting t, or nil if t cannot
// be shifted in this state. A shift item without a successor is a bug in
// automaton construction and panics.
func (sd *stateData) nextState(t lr.BnfTerm) *stateData {
	for _, item := range sd.shiftItems {
		if item.core.Current() == t {
			if item.shiftedItem == nil {
				panic(internalError(fmt.Sprintf("state %s: shift item %s has no successor", sd.state, item.core)))
			}
			return item.shiftedItem.state
		}
	}
	return nil
}

// readStateSet returns the states reachable from sd by shifting nullable
// terms only. Results are memoized per state.
func (sd *stateData) readStateSet() []*stateData {
	if sd.readDone {
		return sd.readStates
	}
	seen := map[*stateData]bool{}
	var result []*stateData
	work := []*stateData{sd}
	for len(work) > 0 {
		s := work[0]
		work = work[1:]
		for _, t := range s.shiftTerms.Terms() {
			if !t.Base().Is(lr.IsNullable) {
				continue
			}
			target := s.nextState(t)
			if target == nil || seen[target] {
				continue
			}
			seen[target] = true
			result = append(result, target)
			if target.readDone { // reuse memoized set
				for _, r := range target.readStates {
					if !seen[r] {
						seen[r] = true
						result = append(result, r)
					}
				}
				continue
			}
			work = append(work, target)
		}
	}
	sd.readStates = result
	sd.readDone = true
	return result
}

// internalError is the panic value for violated construction invariants.
type internalError string

func (e internalError) Error() string {
	return string(e)
}
