package lr

// GrammarHint is a pseudo-term placed inside a rule's sequence. Hints are
// not part of productions; they attach to the LR(0) item at their position
// and steer conflict resolution during parser construction.
type GrammarHint interface {
	BnfTerm
	isHint()
}

// PreferredAction selects an action kind for PreferredActionHint.
type PreferredAction int8

// Preferred actions.
const (
	PreferShiftAction PreferredAction = iota
	PreferReduceAction
)

// PreferredActionHint resolves a conflict in favour of shift or reduce.
// A shift hint is placed directly before the terminal to shift, a reduce
// hint at the end of the production to reduce.
type PreferredActionHint struct {
	BaseTerm
	Preferred PreferredAction
}

func (h *PreferredActionHint) isHint() {}

// PreferShift creates a hint preferring to shift the term following it.
//
//    b.Rule(stmt).Is("if", cond, "then", stmt, lr.PreferShift(), "else", stmt)
//
func PreferShift() *PreferredActionHint {
	return &PreferredActionHint{
		BaseTerm:  MakeBaseTerm("PreferShift"),
		Preferred: PreferShiftAction,
	}
}

// PreferReduce creates a hint preferring to reduce the production it ends.
func PreferReduce() *PreferredActionHint {
	return &PreferredActionHint{
		BaseTerm:  MakeBaseTerm("PreferReduce"),
		Preferred: PreferReduceAction,
	}
}

// CustomActionHint installs a CustomAction for the conflicting lookaheads
// of the item it is attached to. Method decides at parse time.
type CustomActionHint struct {
	BaseTerm
	Method CustomActionMethod
}

func (h *CustomActionHint) isHint() {}

// CustomActionHere creates a custom action hint.
func CustomActionHere(method CustomActionMethod) *CustomActionHint {
	return &CustomActionHint{
		BaseTerm: MakeBaseTerm("CustomAction"),
		Method:   method,
	}
}

// PrecedenceHint resolves shift/reduce conflicts on operators by comparing
// operator precedence at parse time. Parser construction installs it
// automatically for every conflict on a term flagged IsOperator.
type PrecedenceHint struct {
	BaseTerm
}

func (h *PrecedenceHint) isHint() {}

// NewPrecedenceHint creates a precedence hint.
func NewPrecedenceHint() *PrecedenceHint {
	return &PrecedenceHint{BaseTerm: MakeBaseTerm("PrecedenceHint")}
}
