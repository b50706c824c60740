package cfg

// unitClosure returns, for each non-terminal A, every B with A =>* B using
// only unit productions. A itself comes first; the rest follow in discovery
// order.
func (g *Grammar) unitClosure() map[NonTerminal][]NonTerminal {
	units := make(map[NonTerminal][]NonTerminal)
	for _, p := range g.productions {
		if p.IsUnit() {
			units[p.LHS] = append(units[p.LHS], p.RHS[0].NonTerminal())
		}
	}

	closure := make(map[NonTerminal][]NonTerminal, len(g.nonTerminals))
	member := make(map[NonTerminal]map[NonTerminal]struct{}, len(g.nonTerminals))
	for _, a := range g.nonTerminals {
		closure[a] = []NonTerminal{a}
		member[a] = map[NonTerminal]struct{}{a: {}}
	}
	for changed := true; changed; {
		changed = false
		for _, a := range g.nonTerminals {
			for i := 0; i < len(closure[a]); i++ {
				for _, c := range units[closure[a][i]] {
					if _, ok := member[a][c]; ok {
						continue
					}
					member[a][c] = struct{}{}
					closure[a] = append(closure[a], c)
					changed = true
				}
			}
		}
	}
	return closure
}

// EliminateUnit replaces unit productions A -> B by A -> β for every
// non-unit B -> β with B in the unit closure of A.
func (n *Normalizer) EliminateUnit(g *Grammar) *Grammar {
	n.names.observe(g)
	closure := g.unitClosure()
	out := newProductionList()
	for _, a := range g.nonTerminals {
		for _, b := range closure[a] {
			for _, j := range g.byLHS[b] {
				p := g.productions[j]
				if p.IsUnit() {
					continue
				}
				out.add(Production{LHS: a, RHS: p.RHS})
			}
		}
	}
	return build(g.start, g.nonTerminals, g.terminals, out.items)
}
