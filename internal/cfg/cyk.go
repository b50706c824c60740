package cfg

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/errors"
)

// CYKTable is a filled CYK table. Cell (i, j) holds the non-terminals that
// derive input[i..j] (byte offsets, inclusive).
type CYKTable struct {
	input   string
	start   NonTerminal
	epsilon bool
	names   []NonTerminal
	cells   [][]*bitset.BitSet
}

type binaryRule struct {
	lhs, left, right uint
}

// CYK fills the table for input. g must be in Chomsky normal form.
//
// Terminals are matched against substrings of the input, so a terminal of
// length k seeds the cell spanning k bytes; with single-character terminals
// this is the usual diagonal.
func CYK(g *Grammar, input string) (*CYKTable, error) {
	if err := g.CheckCNF(); err != nil {
		return nil, errors.Trace(err)
	}
	index := make(map[NonTerminal]uint, len(g.nonTerminals))
	for i, a := range g.nonTerminals {
		index[a] = uint(i)
	}

	t := &CYKTable{input: input, start: g.start, names: g.NonTerminals()}
	var binary []binaryRule
	for _, p := range g.productions {
		switch len(p.RHS) {
		case 0:
			t.epsilon = true
		case 2:
			binary = append(binary, binaryRule{
				lhs:   index[p.LHS],
				left:  index[p.RHS[0].NonTerminal()],
				right: index[p.RHS[1].NonTerminal()],
			})
		}
	}

	n := len(input)
	size := uint(len(g.nonTerminals))
	t.cells = make([][]*bitset.BitSet, n)
	for i := range t.cells {
		t.cells[i] = make([]*bitset.BitSet, n)
		for j := i; j < n; j++ {
			t.cells[i][j] = bitset.New(size)
		}
	}

	for _, p := range g.productions {
		if len(p.RHS) != 1 {
			continue
		}
		term := p.RHS[0].Name
		for i := 0; i+len(term) <= n; i++ {
			if strings.HasPrefix(input[i:], term) {
				t.cells[i][i+len(term)-1].Set(index[p.LHS])
			}
		}
	}

	for length := 2; length <= n; length++ {
		for i := 0; i+length <= n; i++ {
			j := i + length - 1
			cell := t.cells[i][j]
			for k := i; k < j; k++ {
				left, right := t.cells[i][k], t.cells[k+1][j]
				if left.None() || right.None() {
					continue
				}
				for _, r := range binary {
					if left.Test(r.left) && right.Test(r.right) {
						cell.Set(r.lhs)
					}
				}
			}
		}
	}
	return t, nil
}

// CYKAccept reports whether g, which must be in CNF, generates input.
func CYKAccept(g *Grammar, input string) (bool, error) {
	t, err := CYK(g, input)
	if err != nil {
		return false, err
	}
	return t.Accepted(), nil
}

func (t *CYKTable) Accepted() bool {
	if len(t.input) == 0 {
		return t.epsilon
	}
	for i, a := range t.names {
		if a == t.start {
			return t.cells[0][len(t.input)-1].Test(uint(i))
		}
	}
	return false
}

func (t *CYKTable) Len() int { return len(t.input) }

// Cell returns the non-terminals deriving input[i..j], in declaration order.
func (t *CYKTable) Cell(i, j int) []NonTerminal {
	if i < 0 || j < i || j >= len(t.input) {
		return nil
	}
	var out []NonTerminal
	cell := t.cells[i][j]
	for k, ok := cell.NextSet(0); ok; k, ok = cell.NextSet(k + 1) {
		out = append(out, t.names[k])
	}
	return out
}
