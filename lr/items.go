package lr

import (
	"bytes"
	"fmt"
	"sort"
)

// ProductionFlags describe properties of a production.
type ProductionFlags uint8

// Production flags.
const (
	ProdIsInitial    ProductionFlags = 1 << iota // production of the augmented root
	ProdHasTerminals                             // at least one terminal on the right hand side
	ProdIsError                                  // contains the SyntaxError pseudo-terminal
	ProdIsEmpty                                  // epsilon production
)

// Production is a single alternative of a non-terminal's rule:
//
//    LValue ➞ RValue₁ … RValueₙ
//
// Grammar hints are not part of RValues, but attached to LR0Items.
type Production struct {
	Index    int // serial number within the grammar data
	LValue   *NonTerminal
	RValues  []BnfTerm
	Flags    ProductionFlags
	LR0Items []*LR0Item // len(RValues)+1 items, one for each dot position
}

// Is checks production flags.
func (p *Production) Is(flags ProductionFlags) bool {
	return p.Flags&flags != 0
}

func (p *Production) String() string {
	var b bytes.Buffer
	b.WriteString(p.LValue.Name)
	b.WriteString(" ➞")
	if len(p.RValues) == 0 {
		b.WriteString(" ε")
	}
	for _, t := range p.RValues {
		b.WriteString(" ")
		b.WriteString(t.String())
	}
	return b.String()
}

// LR0Item is a production with a dot position:
//
//    Expr ➞ Expr • + Term
//
type LR0Item struct {
	ID             int // unique (and increasing) within a grammar
	Production     *Production
	Position       int
	Hints          []GrammarHint
	TailIsNullable bool // all terms after Current() are nullable
}

// Current returns the term after the dot, or nil for final items.
func (it *LR0Item) Current() BnfTerm {
	if it.Position < len(it.Production.RValues) {
		return it.Production.RValues[it.Position]
	}
	return nil
}

// IsInitial is true for items with the dot at the start.
func (it *LR0Item) IsInitial() bool {
	return it.Position == 0
}

// IsKernel is true for items which are not created by closure, i.e. items
// with dot position > 0 and the start item of the augmented root.
func (it *LR0Item) IsKernel() bool {
	return it.Position > 0 || it.Production.Is(ProdIsInitial)
}

// IsFinal is true for items with the dot at the end.
func (it *LR0Item) IsFinal() bool {
	return it.Position == len(it.Production.RValues)
}

// ShiftedItem returns the item with the dot advanced by one position, or
// nil for final items.
func (it *LR0Item) ShiftedItem() *LR0Item {
	if it.IsFinal() {
		return nil
	}
	return it.Production.LR0Items[it.Position+1]
}

func (it *LR0Item) String() string {
	var b bytes.Buffer
	b.WriteString(it.Production.LValue.Name)
	b.WriteString(" ➞")
	for i, t := range it.Production.RValues {
		if i == it.Position {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(t.String())
	}
	if it.IsFinal() {
		b.WriteString(" •")
	}
	return b.String()
}

// LR0ItemKey creates a key for a set of items, suitable for identifying
// kernel sets. The result does not depend on the order of items.
func LR0ItemKey(items []*LR0Item) string {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	sort.Ints(ids)
	var b bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
