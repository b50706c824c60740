package cfg

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
	"go.uber.org/multierr"
)

// Grammar is the 4-tuple (non-terminals, terminals, productions, start).
// A Grammar is never modified after New returns; every transformation builds
// a new value.
type Grammar struct {
	start        NonTerminal
	nonTerminals []NonTerminal
	terminals    []Terminal
	productions  []Production

	ntSet map[NonTerminal]struct{}
	tSet  map[Terminal]struct{}
	byLHS map[NonTerminal][]int
}

// New builds a grammar and validates it. Duplicate declarations and duplicate
// productions are collapsed, keeping the first occurrence.
func New(start NonTerminal, nonTerminals []NonTerminal, terminals []Terminal, productions []Production) (*Grammar, error) {
	g := build(start, nonTerminals, terminals, productions)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// build assembles the lookup tables without validating.
func build(start NonTerminal, nonTerminals []NonTerminal, terminals []Terminal, productions []Production) *Grammar {
	g := &Grammar{
		start: start,
		ntSet: make(map[NonTerminal]struct{}, len(nonTerminals)),
		tSet:  make(map[Terminal]struct{}, len(terminals)),
		byLHS: make(map[NonTerminal][]int),
	}
	for _, n := range nonTerminals {
		if _, ok := g.ntSet[n]; !ok {
			g.ntSet[n] = struct{}{}
			g.nonTerminals = append(g.nonTerminals, n)
		}
	}
	for _, t := range terminals {
		if _, ok := g.tSet[t]; !ok {
			g.tSet[t] = struct{}{}
			g.terminals = append(g.terminals, t)
		}
	}
	list := newProductionList()
	for _, p := range productions {
		list.add(p)
	}
	g.productions = list.items
	for i, p := range g.productions {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], i)
	}
	return g
}

// Validate checks the grammar invariants: the start symbol and every lhs are
// declared non-terminals and every rhs symbol is declared with its kind.
// All violations are reported together.
func (g *Grammar) Validate() error {
	var problems error
	if g.start == "" {
		problems = multierr.Append(problems, errors.New("start symbol is empty"))
	} else if !g.HasNonTerminal(g.start) {
		problems = multierr.Append(problems, errors.Errorf("start symbol %s is not a declared non-terminal", g.start))
	}
	for _, n := range g.nonTerminals {
		if n == "" {
			problems = multierr.Append(problems, errors.New("empty non-terminal name"))
		}
	}
	for _, t := range g.terminals {
		if t == "" {
			problems = multierr.Append(problems, errors.New("empty terminal name"))
		}
	}
	for _, p := range g.productions {
		if !g.HasNonTerminal(p.LHS) {
			problems = multierr.Append(problems, errors.Errorf("production %s: lhs %s is not a declared non-terminal", p, p.LHS))
		}
		for _, s := range p.RHS {
			if !g.declared(s) {
				problems = multierr.Append(problems, errors.Errorf("production %s: undeclared symbol %q", p, s.Name))
			}
		}
	}
	if problems != nil {
		return errors.Annotate(ErrInvalidGrammar, problems.Error())
	}
	return nil
}

func (g *Grammar) declared(s Symbol) bool {
	if s.IsTerminal() {
		return g.HasTerminal(s.Terminal())
	}
	return g.HasNonTerminal(s.NonTerminal())
}

func (g *Grammar) Start() NonTerminal { return g.start }

func (g *Grammar) NonTerminals() []NonTerminal {
	return append([]NonTerminal(nil), g.nonTerminals...)
}

func (g *Grammar) Terminals() []Terminal {
	return append([]Terminal(nil), g.terminals...)
}

// Productions returns a copy of the productions in their stable order.
func (g *Grammar) Productions() []Production {
	out := make([]Production, len(g.productions))
	for i, p := range g.productions {
		out[i] = p.clone()
	}
	return out
}

// ProductionsFor returns the productions whose lhs is n.
func (g *Grammar) ProductionsFor(n NonTerminal) []Production {
	idx := g.byLHS[n]
	out := make([]Production, len(idx))
	for i, j := range idx {
		out[i] = g.productions[j].clone()
	}
	return out
}

func (g *Grammar) HasNonTerminal(n NonTerminal) bool {
	_, ok := g.ntSet[n]
	return ok
}

func (g *Grammar) HasTerminal(t Terminal) bool {
	_, ok := g.tSet[t]
	return ok
}

// Nullable returns the set of non-terminals that derive ε.
func (g *Grammar) Nullable() map[NonTerminal]struct{} {
	nullable := make(map[NonTerminal]struct{})
	for changed := true; changed; {
		changed = false
		for _, p := range g.productions {
			if _, ok := nullable[p.LHS]; ok {
				continue
			}
			all := true
			for _, s := range p.RHS {
				if _, ok := nullable[s.NonTerminal()]; s.IsTerminal() || !ok {
					all = false
					break
				}
			}
			if all {
				nullable[p.LHS] = struct{}{}
				changed = true
			}
		}
	}
	return nullable
}

// DerivesEmpty reports whether the empty string is in the language.
func (g *Grammar) DerivesEmpty() bool {
	_, ok := g.Nullable()[g.start]
	return ok
}

// IsCNF reports whether every production is A -> a or A -> B C, allowing a
// single ε-production on the start symbol when the start symbol never
// occurs on a rhs.
func (g *Grammar) IsCNF() bool { return g.CheckCNF() == nil }

// CheckCNF is IsCNF returning the first offending production as an ErrNotCNF.
func (g *Grammar) CheckCNF() error {
	startOnRHS := false
	startEpsilon := false
	for _, p := range g.productions {
		for _, s := range p.RHS {
			if s == g.start.Symbol() {
				startOnRHS = true
			}
		}
		switch len(p.RHS) {
		case 0:
			if p.LHS != g.start {
				return errors.Annotatef(ErrNotCNF, "ε-production on non-start symbol: %s", p)
			}
			startEpsilon = true
		case 1:
			if !p.RHS[0].IsTerminal() {
				return errors.Annotatef(ErrNotCNF, "unit production: %s", p)
			}
		case 2:
			if !p.RHS[0].IsNonTerminal() || !p.RHS[1].IsNonTerminal() {
				return errors.Annotatef(ErrNotCNF, "binary production with a terminal: %s", p)
			}
		default:
			return errors.Annotatef(ErrNotCNF, "production longer than two symbols: %s", p)
		}
	}
	if startEpsilon && startOnRHS {
		return errors.Annotatef(ErrNotCNF, "start symbol %s has an ε-production and occurs on a rhs", g.start)
	}
	return nil
}

func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "start: %s\n", g.start)
	fmt.Fprintf(&sb, "non-terminals: %s\n", joinNames(g.nonTerminals))
	fmt.Fprintf(&sb, "terminals: %s\n", joinNames(g.terminals))
	for _, p := range g.productions {
		sb.WriteString("  ")
		sb.WriteString(p.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func joinNames[T ~string](names []T) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
