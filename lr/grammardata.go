package lr

// GrammarData is the result of analysing a grammar: the augmented root,
// all reachable terms and all productions with their LR(0) items.
type GrammarData struct {
	Grammar       *Grammar
	AugmentedRoot *NonTerminal
	Terminals     []Terminal
	NonTerminals  []*NonTerminal
	Productions   []*Production
	ItemCount     int
}

// BuildGrammarData analyses grammar g. Problems are appended to errs; if
// errs contains errors of level LevelError or above after this call, the
// grammar data must not be used for parser construction.
func BuildGrammarData(g *Grammar, errs *GrammarErrorList) *GrammarData {
	gd := &GrammarData{Grammar: g}
	if g.Root == nil {
		errs.Add(LevelError, nil, "grammar %s has no root non-terminal", g.Name)
		return gd
	}
	tracer().Debugf("analysing grammar %s, root = %s", g.Name, g.Root)
	gd.AugmentedRoot = NewNonTerminal(g.Root.Name + "'")
	gd.AugmentedRoot.Rule = &BnfExpression{}
	gd.AugmentedRoot.Rule.Add(g.Root, g.EOF)
	gd.collectTerms(errs)
	gd.initTerminals(errs)
	gd.createProductions()
	gd.computeNullability()
	gd.computeTailsNullability()
	tracer().Infof("grammar %s: %d terminals, %d non-terminals, %d productions, %d items",
		g.Name, len(gd.Terminals), len(gd.NonTerminals), len(gd.Productions), gd.ItemCount)
	return gd
}

// collectTerms walks the term graph, starting at the augmented root.
// Terms are recorded in discovery order.
func (gd *GrammarData) collectTerms(errs *GrammarErrorList) {
	seen := make(map[BnfTerm]bool)
	queue := []BnfTerm{gd.AugmentedRoot}
	gd.Terminals = gd.Terminals[:0]
	gd.NonTerminals = gd.NonTerminals[:0]
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if seen[t] {
			continue
		}
		seen[t] = true
		switch term := t.(type) {
		case GrammarHint:
			// hints are not terms of the language
		case *NonTerminal:
			gd.NonTerminals = append(gd.NonTerminals, term)
			if term.Rule == nil {
				errs.Add(LevelError, nil, "non-terminal %s has no rule", term.Name)
				continue
			}
			for _, seq := range term.Rule.Alternatives {
				for _, x := range seq {
					if !seen[x] {
						queue = append(queue, x)
					}
				}
			}
		case Terminal:
			gd.Terminals = append(gd.Terminals, term)
		default:
			errs.Add(LevelError, nil, "term %s of unknown type %T", t, t)
		}
	}
	for _, t := range gd.Grammar.NonGrammarTerminals {
		if !seen[t] {
			seen[t] = true
			gd.Terminals = append(gd.Terminals, t)
		}
	}
	if !seen[gd.Grammar.SyntaxError] {
		gd.Terminals = append(gd.Terminals, gd.Grammar.SyntaxError)
	}
}

func (gd *GrammarData) initTerminals(errs *GrammarErrorList) {
	for _, t := range gd.Terminals {
		if init, ok := t.(TerminalInitializer); ok {
			init.Init(gd, errs)
		}
	}
}

func (gd *GrammarData) createProductions() {
	gd.Productions = gd.Productions[:0]
	gd.ItemCount = 0
	for _, nt := range gd.NonTerminals {
		nt.Productions = nil
		if nt.Rule == nil {
			continue
		}
		for _, seq := range nt.Rule.Alternatives {
			p := gd.createProduction(nt, seq)
			nt.Productions = append(nt.Productions, p)
			gd.Productions = append(gd.Productions, p)
		}
	}
}

// createProduction creates a production from a rule sequence. Hints are
// collected while walking the sequence and attached to the item for the
// next term (or the final item).
func (gd *GrammarData) createProduction(lhs *NonTerminal, seq []BnfTerm) *Production {
	p := &Production{Index: len(gd.Productions), LValue: lhs}
	var hints []GrammarHint
	for _, t := range seq {
		if h, ok := t.(GrammarHint); ok {
			hints = append(hints, h)
			continue
		}
		p.RValues = append(p.RValues, t)
		p.LR0Items = append(p.LR0Items, gd.newItem(p, len(p.RValues)-1, hints))
		hints = nil
		if term, ok := t.(Terminal); ok {
			p.Flags |= ProdHasTerminals
			if term == gd.Grammar.SyntaxError {
				p.Flags |= ProdIsError
			}
		}
	}
	p.LR0Items = append(p.LR0Items, gd.newItem(p, len(p.RValues), hints))
	if len(p.RValues) == 0 {
		p.Flags |= ProdIsEmpty
	}
	if lhs == gd.AugmentedRoot {
		p.Flags |= ProdIsInitial
	}
	return p
}

func (gd *GrammarData) newItem(p *Production, pos int, hints []GrammarHint) *LR0Item {
	item := &LR0Item{
		ID:         gd.ItemCount,
		Production: p,
		Position:   pos,
		Hints:      hints,
	}
	gd.ItemCount++
	return item
}

// computeNullability iterates to a fixed point: a non-terminal is nullable
// if it has a production consisting of nullable terms only.
func (gd *GrammarData) computeNullability() {
	for _, nt := range gd.NonTerminals {
		nt.ClearFlag(IsNullable)
	}
	for changed := true; changed; {
		changed = false
		for _, nt := range gd.NonTerminals {
			if nt.Is(IsNullable) {
				continue
			}
			for _, p := range nt.Productions {
				if allNullable(p.RValues) {
					nt.SetFlag(IsNullable)
					changed = true
					break
				}
			}
		}
	}
}

func allNullable(terms []BnfTerm) bool {
	for _, t := range terms {
		if !t.Base().Is(IsNullable) {
			return false
		}
	}
	return true
}

func (gd *GrammarData) computeTailsNullability() {
	for _, p := range gd.Productions {
		for i := len(p.LR0Items) - 1; i >= 0; i-- {
			item := p.LR0Items[i]
			item.TailIsNullable = true
			if cur := item.Current(); cur != nil && !cur.Base().Is(IsNullable) {
				break
			}
		}
	}
}
