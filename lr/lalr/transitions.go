package lalr

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/parsekit/lr"
)

// transition is an edge between two states, labeled with the non-terminal
// shifted over. Transitions live in an arena owned by the builder and
// reference each other by index.
type transition struct {
	index      int
	from, to   *stateData
	over       *lr.NonTerminal
	items      []*lrItem // shift items of from with Current() == over
	direct     []int     // transitions directly included
	includes   []int     // transitive closure of direct
	includedBy []int
}

func (t *transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.from.state, t.over, t.to.state)
}

// include records that the lookaheads of transition other are part of the
// lookaheads of t. Adding an edge twice is a no-op.
func (t *transition) include(other *transition) bool {
	if other == t {
		return false
	}
	for _, d := range t.direct {
		if d == other.index {
			return false
		}
	}
	t.direct = append(t.direct, other.index)
	return true
}

// transitionFor returns the transition of state sd over nt, creating it if
// necessary. The second return value signals creation.
func (b *builder) transitionFor(sd *stateData, nt *lr.NonTerminal) (*transition, bool) {
	if i, ok := sd.transitions[nt]; ok {
		return b.transitions[i], false
	}
	t := &transition{
		index: len(b.transitions),
		from:  sd,
		over:  nt,
		to:    sd.nextState(nt),
		items: sd.shiftItemsFor(nt),
	}
	if t.to == nil {
		panic(internalError(fmt.Sprintf("state %s: no transition over %s", sd.state, nt)))
	}
	for _, item := range t.items {
		item.transition = t.index
	}
	sd.transitions[nt] = t.index
	b.transitions = append(b.transitions, t)
	return t, true
}

// computeTransitions creates lookback transitions for the reduce items of
// all inadequate states. Items whose tails are nullable need the lookaheads
// of their own lookback transitions, so creating transitions is repeated for
// them until no new transitions appear.
func (b *builder) computeTransitions() {
	var items []*lrItem
	for _, sd := range b.states {
		if sd.isInadequate {
			items = append(items, sd.reduceItems...)
		}
	}
	b.needLookaheads = items
	visited := make(map[*lrItem]bool)
	for len(items) > 0 {
		for _, item := range items {
			visited[item] = true
		}
		created := b.createLookbackTransitions(items)
		items = items[:0:0]
		for _, t := range created {
			for _, item := range t.items {
				if item.core.TailIsNullable && !visited[item] {
					items = append(items, item)
				}
			}
		}
	}
	b.closeIncludes()
	tracer().Debugf("created %d transitions", len(b.transitions))
}

// createLookbackTransitions walks, for every state, the shift chains starting
// at initial items whose productions are among those of sourceItems. Where a
// chain passes a source item, the transition over the production's
// left-hand side becomes a lookback of a reduce item, or is included by the
// transition of a shift item.
func (b *builder) createLookbackTransitions(sourceItems []*lrItem) []*transition {
	isSource := make(map[*lrItem]bool, len(sourceItems))
	iniCores := make(map[*lr.LR0Item]bool)
	for _, item := range sourceItems {
		isSource[item] = true
		iniCores[item.core.Production.LR0Items[0]] = true
	}
	var created []*transition
	for _, sd := range b.states {
		for _, ini := range sd.initialItems {
			if !iniCores[ini.core] {
				continue
			}
			nt := ini.core.Production.LValue
			var lookback *transition
			for cur := ini; cur != nil; cur = cur.shiftedItem {
				if !isSource[cur] {
					continue
				}
				if lookback == nil {
					var isNew bool
					lookback, isNew = b.transitionFor(sd, nt)
					if isNew {
						created = append(created, lookback)
					}
				}
				if cur.core.IsFinal() {
					if !cur.hasLookback(lookback.index) {
						cur.lookbacks = append(cur.lookbacks, lookback.index)
					}
				} else if cur.transition >= 0 {
					b.transitions[cur.transition].include(lookback)
				}
			}
		}
	}
	return created
}

// closeIncludes computes the transitive closure of the include relation,
// using an explicit worklist per transition. Cycles (from left or right
// recursion) are handled by the visited set.
func (b *builder) closeIncludes() {
	for _, t := range b.transitions {
		seen := map[int]bool{t.index: true}
		work := arraylist.New()
		for _, d := range t.direct {
			work.Add(d)
		}
		for !work.Empty() {
			last := work.Size() - 1
			x, _ := work.Get(last)
			work.Remove(last)
			i := x.(int)
			if seen[i] {
				continue
			}
			seen[i] = true
			t.includes = append(t.includes, i)
			other := b.transitions[i]
			other.includedBy = append(other.includedBy, t.index)
			for _, d := range other.direct {
				if !seen[d] {
					work.Add(d)
				}
			}
		}
	}
}

// computeLookaheads collects lookaheads for every reduce item with
// lookback transitions: the terminals read after each lookback transition
// and after every transition it includes.
func (b *builder) computeLookaheads() {
	for _, item := range b.needLookaheads {
		for _, lb := range item.lookbacks {
			t := b.transitions[lb]
			b.addReadTerminals(item.lookaheads, t)
			for _, i := range t.includes {
				b.addReadTerminals(item.lookaheads, b.transitions[i])
			}
		}
		item.lookaheads.Remove(b.gd.Grammar.SyntaxError)
		if item.lookaheads.Len() == 0 {
			b.errs.Add(lr.LevelInternalError, item.state.state,
				"reduce item %s has no lookaheads", item.core)
		}
	}
}

func (b *builder) addReadTerminals(set *lr.TermSet, t *transition) {
	set.AddAll(t.to.shiftTerminals)
	for _, rs := range t.to.readStateSet() {
		set.AddAll(rs.shiftTerminals)
	}
}
