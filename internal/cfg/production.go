package cfg

import "strings"

// Production is a rewrite rule LHS -> RHS. An empty RHS is an ε-production.
type Production struct {
	LHS NonTerminal
	RHS []Symbol
}

func NewProduction(lhs NonTerminal, rhs ...Symbol) Production {
	return Production{LHS: lhs, RHS: append([]Symbol(nil), rhs...)}
}

func (p Production) IsEpsilon() bool { return len(p.RHS) == 0 }

// IsUnit reports whether p is A -> B with B a single non-terminal.
func (p Production) IsUnit() bool {
	return len(p.RHS) == 1 && p.RHS[0].IsNonTerminal()
}

func (p Production) Equal(o Production) bool {
	if p.LHS != o.LHS || len(p.RHS) != len(o.RHS) {
		return false
	}
	for i := range p.RHS {
		if p.RHS[i] != o.RHS[i] {
			return false
		}
	}
	return true
}

func (p Production) key() string {
	return "n" + string(p.LHS) + "\x00>" + form(p.RHS).key()
}

func (p Production) clone() Production {
	return Production{LHS: p.LHS, RHS: append([]Symbol(nil), p.RHS...)}
}

func (p Production) String() string {
	if len(p.RHS) == 0 {
		return string(p.LHS) + " -> ε"
	}
	parts := make([]string, len(p.RHS))
	for i, s := range p.RHS {
		parts[i] = s.Name
	}
	return string(p.LHS) + " -> " + strings.Join(parts, " ")
}

// productionList keeps insertion order and drops duplicates.
type productionList struct {
	items []Production
	seen  map[string]struct{}
}

func newProductionList() *productionList {
	return &productionList{seen: make(map[string]struct{})}
}

func (l *productionList) add(p Production) bool {
	k := p.key()
	if _, ok := l.seen[k]; ok {
		return false
	}
	l.seen[k] = struct{}{}
	l.items = append(l.items, p.clone())
	return true
}
