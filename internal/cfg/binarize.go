package cfg

const (
	terminalPrefix = "T"
	chainPrefix    = "X"
)

// SeparateTerminals replaces terminals inside rhs of length > 1 by a proxy
// non-terminal, one per distinct terminal, and adds T -> a for each proxy.
func (n *Normalizer) SeparateTerminals(g *Grammar) *Grammar {
	n.names.observe(g)
	proxy := make(map[Terminal]NonTerminal)
	nts := append([]NonTerminal(nil), g.nonTerminals...)
	var proxyProds []Production

	out := newProductionList()
	for _, p := range g.productions {
		if len(p.RHS) <= 1 {
			out.add(p)
			continue
		}
		rhs := make([]Symbol, len(p.RHS))
		for i, s := range p.RHS {
			if s.IsNonTerminal() {
				rhs[i] = s
				continue
			}
			t := s.Terminal()
			x, ok := proxy[t]
			if !ok {
				x = n.names.fresh(terminalPrefix)
				proxy[t] = x
				nts = append(nts, x)
				proxyProds = append(proxyProds, NewProduction(x, s))
			}
			rhs[i] = x.Symbol()
		}
		out.add(Production{LHS: p.LHS, RHS: rhs})
	}
	for _, p := range proxyProds {
		out.add(p)
	}
	return build(g.start, nts, g.terminals, out.items)
}

// Binarize splits A -> X1 X2 ... Xn (n > 2) into
// A -> X1 Y1, Y1 -> X2 Y2, ..., Yn-2 -> Xn-1 Xn.
func (n *Normalizer) Binarize(g *Grammar) *Grammar {
	n.names.observe(g)
	nts := append([]NonTerminal(nil), g.nonTerminals...)
	out := newProductionList()
	for _, p := range g.productions {
		lhs, rest := p.LHS, p.RHS
		for len(rest) > 2 {
			y := n.names.fresh(chainPrefix)
			nts = append(nts, y)
			out.add(NewProduction(lhs, rest[0], y.Symbol()))
			lhs, rest = y, rest[1:]
		}
		out.add(Production{LHS: lhs, RHS: rest})
	}
	return build(g.start, nts, g.terminals, out.items)
}
