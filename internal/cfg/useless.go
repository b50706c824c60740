package cfg

// generating returns the non-terminals that derive at least one terminal
// string.
func (g *Grammar) generating() map[NonTerminal]struct{} {
	gen := make(map[NonTerminal]struct{})
	for changed := true; changed; {
		changed = false
		for _, p := range g.productions {
			if _, ok := gen[p.LHS]; ok {
				continue
			}
			if allGenerating(p.RHS, gen) {
				gen[p.LHS] = struct{}{}
				changed = true
			}
		}
	}
	return gen
}

func allGenerating(rhs []Symbol, gen map[NonTerminal]struct{}) bool {
	for _, s := range rhs {
		if s.IsTerminal() {
			continue
		}
		if _, ok := gen[s.NonTerminal()]; !ok {
			return false
		}
	}
	return true
}

// reachable returns the non-terminals reachable from the start symbol.
func (g *Grammar) reachable() map[NonTerminal]struct{} {
	reach := map[NonTerminal]struct{}{g.start: {}}
	for changed := true; changed; {
		changed = false
		for _, p := range g.productions {
			if _, ok := reach[p.LHS]; !ok {
				continue
			}
			for _, s := range p.RHS {
				if s.IsTerminal() {
					continue
				}
				if _, ok := reach[s.NonTerminal()]; !ok {
					reach[s.NonTerminal()] = struct{}{}
					changed = true
				}
			}
		}
	}
	return reach
}

// RemoveUseless drops non-generating symbols first and unreachable ones
// second. The start symbol stays declared even when the language is empty.
func (n *Normalizer) RemoveUseless(g *Grammar) *Grammar {
	n.names.observe(g)

	gen := g.generating()
	var prods []Production
	for _, p := range g.productions {
		if _, ok := gen[p.LHS]; ok && allGenerating(p.RHS, gen) {
			prods = append(prods, p)
		}
	}
	g = build(g.start, keepNonTerminals(g, gen), g.terminals, prods)

	reach := g.reachable()
	prods = prods[:0:0]
	for _, p := range g.productions {
		if _, ok := reach[p.LHS]; ok {
			prods = append(prods, p)
		}
	}
	return build(g.start, keepNonTerminals(g, reach), g.terminals, prods)
}

func keepNonTerminals(g *Grammar, keep map[NonTerminal]struct{}) []NonTerminal {
	var out []NonTerminal
	for _, a := range g.nonTerminals {
		if _, ok := keep[a]; ok || a == g.start {
			out = append(out, a)
		}
	}
	return out
}
