package cfg

import (
	"strconv"

	"github.com/pingcap/errors"
	"go.uber.org/zap"

	"automata/internal/logutil"
)

// namer hands out non-terminal names that collide with nothing it has seen.
// One namer lives for exactly one normalization run.
type namer struct {
	taken map[string]struct{}
	next  int
}

func newNamer() *namer { return &namer{taken: make(map[string]struct{})} }

func (n *namer) observe(g *Grammar) {
	for _, s := range g.nonTerminals {
		n.taken[string(s)] = struct{}{}
	}
	for _, t := range g.terminals {
		n.taken[string(t)] = struct{}{}
	}
}

func (n *namer) fresh(prefix string) NonTerminal {
	for {
		name := prefix + strconv.Itoa(n.next)
		n.next++
		if _, ok := n.taken[name]; !ok {
			n.taken[name] = struct{}{}
			return NonTerminal(name)
		}
	}
}

// Normalizer runs the CNF stages one by one. It owns the fresh-name counter,
// so every grammar passed through the same Normalizer gets names that are
// unique across all stages.
type Normalizer struct {
	names *namer
}

func NewNormalizer() *Normalizer { return &Normalizer{names: newNamer()} }

type stage struct {
	name string
	run  func(*Grammar) *Grammar
}

func (n *Normalizer) stages() []stage {
	return []stage{
		{"isolate-start", n.IsolateStart},
		{"eliminate-null", n.EliminateNull},
		{"eliminate-unit", n.EliminateUnit},
		{"remove-useless", n.RemoveUseless},
		{"separate-terminals", n.SeparateTerminals},
		{"binarize", n.Binarize},
	}
}

// Run validates g and applies all six stages in order.
func (n *Normalizer) Run(g *Grammar) (*Grammar, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	for _, st := range n.stages() {
		g = st.run(g)
		logutil.BgLogger().Debug("cnf stage done",
			zap.String("stage", st.name),
			zap.Int("non-terminals", len(g.nonTerminals)),
			zap.Int("productions", len(g.productions)))
	}
	return g, nil
}

// ToCNF converts g into an equivalent grammar in Chomsky normal form. The
// result keeps S -> ε on its start symbol iff g derives the empty string.
func ToCNF(g *Grammar) (*Grammar, error) {
	return NewNormalizer().Run(g)
}

// IsolateStart adds S0 -> S and makes S0 the start symbol when S occurs on
// some rhs.
func (n *Normalizer) IsolateStart(g *Grammar) *Grammar {
	n.names.observe(g)
	if !g.startOnRHS() {
		return g
	}
	s0 := n.names.fresh(string(g.start))
	prods := make([]Production, 0, len(g.productions)+1)
	prods = append(prods, NewProduction(s0, g.start.Symbol()))
	prods = append(prods, g.productions...)
	nts := append([]NonTerminal{s0}, g.nonTerminals...)
	return build(s0, nts, g.terminals, prods)
}

func (g *Grammar) startOnRHS() bool {
	start := g.start.Symbol()
	for _, p := range g.productions {
		for _, s := range p.RHS {
			if s == start {
				return true
			}
		}
	}
	return false
}
