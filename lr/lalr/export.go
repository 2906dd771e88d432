package lalr

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/npillmayer/parsekit/lr"
	"github.com/npillmayer/parsekit/lr/sparse"
)

// Codes for the numeric action table. Shift actions are encoded as the
// index of the target state (≥ 0), reduce actions by ReduceCode.
const (
	AcceptCode  = -1
	RecoverCode = -2
)

// ReduceCode returns the action table code for reducing production p.
func ReduceCode(p *lr.Production) int32 {
	return int32(-3 - p.Index)
}

// ActionTable is the numeric form of an automaton's action tables. Rows are
// states, columns are Terms plus a final column for default actions.
// Conditional and custom actions occupy both values of an entry: the first
// reduce alternative and the first shift alternative.
type ActionTable struct {
	Matrix *sparse.IntMatrix
	Terms  []lr.BnfTerm
}

// DefaultColumn is the column index of default actions.
func (t *ActionTable) DefaultColumn() int {
	return len(t.Terms)
}

// ActionTable creates the numeric action table of an automaton.
func (a *Automaton) ActionTable() *ActionTable {
	if a.Data == nil || a.Grammar == nil {
		return nil
	}
	var terms []lr.BnfTerm
	for _, t := range a.Grammar.Terminals {
		terms = append(terms, t)
	}
	for _, nt := range a.Grammar.NonTerminals {
		if nt != a.Grammar.AugmentedRoot {
			terms = append(terms, nt)
		}
	}
	column := make(map[lr.BnfTerm]int, len(terms))
	for j, t := range terms {
		column[t] = j
	}
	table := &ActionTable{
		Matrix: sparse.NewIntMatrix(len(a.Data.States), len(terms)+1, sparse.DefaultNullValue),
		Terms:  terms,
	}
	for _, s := range a.Data.States {
		for t, action := range s.Actions {
			if j, ok := column[t]; ok {
				table.set(s.Index, j, action)
			}
		}
		if s.DefaultAction != nil {
			table.set(s.Index, table.DefaultColumn(), s.DefaultAction)
		}
	}
	return table
}

func (t *ActionTable) set(i, j int, action lr.ParserAction) {
	switch act := action.(type) {
	case *lr.ShiftAction:
		t.Matrix.Set(i, j, int32(act.NewState.Index))
	case *lr.ReduceAction:
		t.Matrix.Set(i, j, ReduceCode(act.Production))
	case *lr.AcceptAction:
		t.Matrix.Set(i, j, AcceptCode)
	case *lr.ErrorRecoveryAction:
		t.Matrix.Set(i, j, RecoverCode)
	case *lr.ConditionalAction:
		for _, e := range act.Entries {
			t.set(i, j, e.Action)
		}
		if act.Default != nil {
			t.Matrix.Add(i, j, t.code(act.Default))
		}
	case *lr.CustomAction:
		if len(act.ReduceActions) > 0 {
			t.Matrix.Set(i, j, ReduceCode(act.ReduceActions[0].Production))
		}
		if len(act.ShiftActions) > 0 {
			t.Matrix.Add(i, j, int32(act.ShiftActions[0].NewState.Index))
		}
	}
}

func (t *ActionTable) code(action lr.ParserAction) int32 {
	switch act := action.(type) {
	case *lr.ShiftAction:
		return int32(act.NewState.Index)
	case *lr.ReduceAction:
		return ReduceCode(act.Production)
	case *lr.AcceptAction:
		return AcceptCode
	}
	return RecoverCode
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *sparse.IntMatrix) string {
	switch {
	case v == m.NullValue():
		return ""
	case v == AcceptCode:
		return "acc"
	case v == RecoverCode:
		return "rec"
	case v >= 0:
		return fmt.Sprintf("s%d", v)
	}
	return fmt.Sprintf("r%d", -3-v)
}

// Entry returns a short textual form of the entry at (state, column), e.g.
// "s4", "r2" or "r2/s4" for conditional entries.
func (t *ActionTable) Entry(state, col int) string {
	a, b := t.Matrix.Values(state, col)
	if b == t.Matrix.NullValue() {
		return valstring(a, t.Matrix)
	}
	return valstring(a, t.Matrix) + "/" + valstring(b, t.Matrix)
}

// WriteActionTableHTML exports the action table of an automaton in HTML
// format. Reduce entries refer to production numbers, which are listed
// below the table.
func WriteActionTableHTML(w io.Writer, a *Automaton) error {
	table := a.ActionTable()
	if table == nil {
		return fmt.Errorf("no parser data, cannot export action table")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("<html><body>\n")
	fmt.Fprintf(bw, "<h3>%s</h3><p>ACTION table with %d entries<p>\n",
		html.EscapeString(a.Grammar.Grammar.Name), table.Matrix.ValueCount())
	bw.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	bw.WriteString("<tr bgcolor=#cccccc><td></td>")
	for _, t := range table.Terms {
		fmt.Fprintf(bw, "<td>%s</td>", html.EscapeString(t.String()))
	}
	bw.WriteString("<td><i>default</i></td></tr>\n")
	for _, s := range a.Data.States {
		fmt.Fprintf(bw, "<tr><td>%s</td>", s.Name)
		for j := 0; j <= table.DefaultColumn(); j++ {
			td := table.Entry(s.Index, j)
			if td == "" {
				td = "&nbsp;"
			}
			fmt.Fprintf(bw, "<td>%s</td>", td)
		}
		bw.WriteString("</tr>\n")
	}
	bw.WriteString("</table>\n<ol start=0>\n")
	for _, p := range a.Grammar.Productions {
		fmt.Fprintf(bw, "<li>%s</li>\n", html.EscapeString(p.String()))
	}
	bw.WriteString("</ol></body></html>\n")
	return bw.Flush()
}

// WriteGraphViz exports the characteristic automaton in GraphViz Dot
// format. Nodes show the kernel items of the states, edges the shifted
// terms.
func WriteGraphViz(w io.Writer, a *Automaton) error {
	if a.Data == nil {
		return fmt.Errorf("no parser data, cannot export automaton")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range a.Data.States {
		items := make([]string, len(s.KernelItems))
		for i, item := range s.KernelItems {
			items[i] = forGraphviz(item.String())
		}
		fmt.Fprintf(bw, "s%03d [fillcolor=%s label=\"{%s | %s}\"]\n",
			s.Index, nodecolor(a, s), s.Name, strings.Join(items, "\\l")+"\\l")
	}
	for _, s := range a.Data.States {
		for _, t := range sortedActionTerms(s) {
			if shift, ok := s.Actions[t].(*lr.ShiftAction); ok {
				fmt.Fprintf(bw, "s%03d -> s%03d [label=\"%s\"]\n", s.Index, shift.NewState.Index,
					forGraphviz(t.String()))
			}
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(a *Automaton, s *lr.ParserState) string {
	if s == a.Data.FinalState {
		return "lightgray"
	}
	if a.IsInadequate(s) {
		return "lightyellow"
	}
	return "white"
}

var graphvizEscaper = strings.NewReplacer(`"`, `\"`, "|", `\|`, "{", `\{`, "}", `\}`,
	"<", `\<`, ">", `\>`)

func forGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}
