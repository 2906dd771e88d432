/*
Package sparse stores the numeric action table of an LALR(1) automaton.
Rows are parser states, columns are grammar terms, and most cells are
empty. A cell holds one int32, or two of them for cells with a conflict
(e.g. a shift target and a production index).

Cells are kept in a slice of (row, column, values) entries, sorted row by
row, and looked up by binary search.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
	"strings"
)

// IntMatrix is a sparse m × n matrix of int32 cells.
//
//     tab := NewIntMatrix(states, terms, DefaultNullValue)
//     tab.Set(2, 3, 7)         // state 2 shifts term 3 to state 7
//     tab.Add(2, 3, -4)        // ... and may reduce by production 4
//     a, b := tab.Values(2, 3) // 7, -4
//
// Empty cells read as the matrix' null value. Cells are never removed;
// overwrite them with the null value instead.
type IntMatrix struct {
	cells []cell
	rows  int
	cols  int
	null  int32
}

type cell struct {
	row, col int
	a, b     int32
}

func (c cell) before(i, j int) bool {
	return c.row < i || (c.row == i && c.col < j)
}

// DefaultNullValue is the null value of a matrix if clients have no
// special needs (min int32).
const DefaultNullValue = -2147483648

// NewIntMatrix creates an m × n matrix with a given null value.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{rows: m, cols: n, null: nullValue}
}

// M is the number of rows.
func (m *IntMatrix) M() int {
	return m.rows
}

// N is the number of columns.
func (m *IntMatrix) N() int {
	return m.cols
}

// NullValue is the value of empty cells.
func (m *IntMatrix) NullValue() int32 {
	return m.null
}

// ValueCount is the number of non-empty cells.
func (m *IntMatrix) ValueCount() int {
	return len(m.cells)
}

// find returns the position of cell (i,j), or where it would be inserted.
func (m *IntMatrix) find(i, j int) (int, bool) {
	k := sort.Search(len(m.cells), func(k int) bool {
		return !m.cells[k].before(i, j)
	})
	return k, k < len(m.cells) && m.cells[k].row == i && m.cells[k].col == j
}

// Value is the first value of cell (i,j).
func (m *IntMatrix) Value(i, j int) int32 {
	a, _ := m.Values(i, j)
	return a
}

// Values returns both values of cell (i,j).
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if k, ok := m.find(i, j); ok {
		return m.cells[k].a, m.cells[k].b
	}
	return m.null, m.null
}

// Set stores value as the only value of cell (i,j).
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	c := m.cell(i, j)
	c.a, c.b = value, m.null
	return m
}

// Add stores value in cell (i,j). If the cell is not empty, value becomes
// its second value, replacing a previous second value.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	c := m.cell(i, j)
	if c.a == m.null {
		c.a = value
	} else {
		c.b = value
	}
	return m
}

// cell returns cell (i,j), inserting an empty one if necessary.
func (m *IntMatrix) cell(i, j int) *cell {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sparse matrix index (%d,%d) out of range %dx%d", i, j, m.rows, m.cols))
	}
	k, ok := m.find(i, j)
	if !ok {
		m.cells = append(m.cells, cell{})
		copy(m.cells[k+1:], m.cells[k:])
		m.cells[k] = cell{row: i, col: j, a: m.null, b: m.null}
	}
	return &m.cells[k]
}

// Each calls f for every non-empty cell, row by row.
func (m *IntMatrix) Each(f func(i, j int, a, b int32)) {
	for _, c := range m.cells {
		f(c.row, c.col, c.a, c.b)
	}
}

// Row returns the columns of the non-empty cells of row i, ascending.
func (m *IntMatrix) Row(i int) []int {
	var cols []int
	k, _ := m.find(i, 0)
	for ; k < len(m.cells) && m.cells[k].row == i; k++ {
		cols = append(cols, m.cells[k].col)
	}
	return cols
}

func (m *IntMatrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "IntMatrix(%dx%d, %d values)", m.rows, m.cols, len(m.cells))
	for _, c := range m.cells {
		fmt.Fprintf(&b, " (%d,%d)=[%d,%d]", c.row, c.col, c.a, c.b)
	}
	return b.String()
}
