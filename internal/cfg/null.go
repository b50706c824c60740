package cfg

// EliminateNull removes ε-productions. Every production A -> α is replaced
// by all variants of α with any subset of its nullable occurrences deleted;
// variants that become empty, or collapse to A -> A, are dropped. If the
// start symbol is nullable a single S -> ε is kept.
//
// The number of variants is 2^k for k nullable occurrences in one rhs.
func (n *Normalizer) EliminateNull(g *Grammar) *Grammar {
	n.names.observe(g)
	nullable := g.Nullable()
	out := newProductionList()
	for _, p := range g.productions {
		if p.IsEpsilon() {
			continue
		}
		var idx []int
		for i, s := range p.RHS {
			if _, ok := nullable[s.NonTerminal()]; ok && s.IsNonTerminal() {
				idx = append(idx, i)
			}
		}
		for mask := 0; mask < 1<<len(idx); mask++ {
			rhs := make([]Symbol, 0, len(p.RHS))
			k := 0
			for i, s := range p.RHS {
				if k < len(idx) && idx[k] == i {
					drop := mask&(1<<k) != 0
					k++
					if drop {
						continue
					}
				}
				rhs = append(rhs, s)
			}
			if len(rhs) == 0 {
				continue
			}
			if len(rhs) == 1 && rhs[0] == p.LHS.Symbol() {
				continue
			}
			out.add(Production{LHS: p.LHS, RHS: rhs})
		}
	}
	if _, ok := nullable[g.start]; ok {
		out.add(NewProduction(g.start))
	}
	return build(g.start, g.nonTerminals, g.terminals, out.items)
}
