package draw

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pingcap/errors"

	"automata/internal/automaton"
	"automata/internal/cfg"
)

type edge struct {
	from, to string
}

// WriteMachineDOT prints m as a Graphviz digraph. Parallel edges are
// merged into one edge whose label lists every symbol, one per line when
// the labels are pushdown or Turing machine rules.
func WriteMachineDOT(w io.Writer, m automaton.Machine) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "    rankdir=LR;")

	accept := make(map[string]bool)
	for _, st := range m.AcceptStates() {
		accept[st] = true
	}
	for _, st := range m.States() {
		shape := "circle"
		if accept[st] {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "    %q [shape=%s];\n", st, shape)
	}

	labels := make(map[edge][]string)
	var order []edge
	for _, t := range m.Transitions() {
		e := edge{t.From, t.To}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], t.Symbol)
	}
	for _, e := range order {
		syms := labels[e]
		sort.Strings(syms)
		sep := ","
		for _, s := range syms {
			if strings.Contains(s, ",") {
				sep = "\n"
				break
			}
		}
		fmt.Fprintf(bw, "    %q -> %q [label=%q];\n", e.from, e.to, strings.Join(syms, sep))
	}

	fmt.Fprintf(bw, "    _start [shape=point]; _start -> %q;\n", m.Start())
	fmt.Fprintln(bw, "}")
	return errors.Trace(bw.Flush())
}

// WriteGrammarDOT prints the dependency graph of g: an edge A -> X for
// every symbol X on the rhs of some A production. Terminals are boxes and
// ε-productions point at an ε node.
func WriteGrammarDOT(w io.Writer, g *cfg.Grammar) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")

	id := func(s cfg.Symbol) string {
		if s.IsTerminal() {
			return "t:" + s.Name
		}
		return "n:" + s.Name
	}
	for _, a := range g.NonTerminals() {
		fmt.Fprintf(bw, "    %q [label=%q, shape=ellipse];\n", id(a.Symbol()), string(a))
	}
	for _, a := range g.Terminals() {
		fmt.Fprintf(bw, "    %q [label=%q, shape=box];\n", id(a.Symbol()), string(a))
	}

	seen := make(map[edge]struct{})
	hasEpsilon := false
	for _, p := range g.Productions() {
		from := id(p.LHS.Symbol())
		targets := make([]string, 0, len(p.RHS))
		if p.IsEpsilon() {
			hasEpsilon = true
			targets = append(targets, "ε")
		}
		for _, s := range p.RHS {
			targets = append(targets, id(s))
		}
		for _, to := range targets {
			e := edge{from, to}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			fmt.Fprintf(bw, "    %q -> %q;\n", from, to)
		}
	}
	if hasEpsilon {
		fmt.Fprintln(bw, `    "ε" [shape=plaintext];`)
	}

	fmt.Fprintf(bw, "    _start [shape=point]; _start -> %q;\n", id(g.Start().Symbol()))
	fmt.Fprintln(bw, "}")
	return errors.Trace(bw.Flush())
}
