package automaton

import (
	"strings"

	"github.com/pingcap/errors"
)

// NFA is a nondeterministic automaton with ε-moves.
type NFA struct {
	states   []string
	alphabet []string
	start    string
	accept   stateSet
	trans    map[string]map[string][]string
}

// NewNFA builds an NFA. Transitions labelled Epsilon consume no input and
// are not part of the alphabet.
func NewNFA(states, alphabet []string, start string, accept []string, trans []Transition) (*NFA, error) {
	n := &NFA{
		states:   append([]string(nil), states...),
		alphabet: append([]string(nil), alphabet...),
		start:    start,
		accept:   newStateSet(accept...),
		trans:    make(map[string]map[string][]string, len(states)),
	}
	known := newStateSet(states...)
	sigma := newStateSet(alphabet...)
	if !known.has(start) {
		return nil, errors.Annotatef(ErrInvalidMachine, "start state %q is not a state", start)
	}
	for _, st := range accept {
		if !known.has(st) {
			return nil, errors.Annotatef(ErrInvalidMachine, "accept state %q is not a state", st)
		}
	}
	for _, t := range trans {
		if !known.has(t.From) || !known.has(t.To) {
			return nil, errors.Annotatef(ErrInvalidMachine, "transition %s --%s--> %s uses an unknown state", t.From, t.Symbol, t.To)
		}
		if t.Symbol != Epsilon && !sigma.has(t.Symbol) {
			return nil, errors.Annotatef(ErrInvalidMachine, "transition %s --%s--> %s uses a symbol outside the alphabet", t.From, t.Symbol, t.To)
		}
		row := n.trans[t.From]
		if row == nil {
			row = make(map[string][]string)
			n.trans[t.From] = row
		}
		dup := false
		for _, to := range row[t.Symbol] {
			if to == t.To {
				dup = true
				break
			}
		}
		if !dup {
			row[t.Symbol] = append(row[t.Symbol], t.To)
		}
	}
	return n, nil
}

func (n *NFA) States() []string       { return append([]string(nil), n.states...) }
func (n *NFA) Alphabet() []string     { return append([]string(nil), n.alphabet...) }
func (n *NFA) Start() string          { return n.start }
func (n *NFA) AcceptStates() []string { return n.accept.sorted() }

func (n *NFA) Transitions() []Transition {
	var out []Transition
	for from, row := range n.trans {
		for sym, tos := range row {
			for _, to := range tos {
				out = append(out, Transition{From: from, Symbol: sym, To: to})
			}
		}
	}
	sortTransitions(out)
	return out
}

// IsDeterministic reports whether n has no ε-moves and at most one move
// per state and symbol.
func (n *NFA) IsDeterministic() bool {
	for _, row := range n.trans {
		for sym, tos := range row {
			if sym == Epsilon || len(tos) > 1 {
				return false
			}
		}
	}
	return true
}

func (n *NFA) closure(set stateSet) stateSet {
	stack := make([]string, 0, len(set))
	for st := range set {
		stack = append(stack, st)
	}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range n.trans[st][Epsilon] {
			if !set.has(to) {
				set[to] = struct{}{}
				stack = append(stack, to)
			}
		}
	}
	return set
}

func (n *NFA) move(set stateSet, sym string) stateSet {
	res := make(stateSet)
	for st := range set {
		for _, to := range n.trans[st][sym] {
			res[to] = struct{}{}
		}
	}
	return res
}

func (n *NFA) accepting(set stateSet) bool {
	for st := range set {
		if n.accept.has(st) {
			return true
		}
	}
	return false
}

// AcceptsSymbols simulates n over word, tracking the ε-closed set of
// current states.
func (n *NFA) AcceptsSymbols(word []string) bool {
	cur := n.closure(newStateSet(n.start))
	for _, sym := range word {
		cur = n.closure(n.move(cur, sym))
		if len(cur) == 0 {
			return false
		}
	}
	return n.accepting(cur)
}

// Accepts treats every character of word as one symbol.
func (n *NFA) Accepts(word string) bool { return n.AcceptsSymbols(symbols(word)) }

// subsetName names a DFA state after the NFA states it stands for.
func subsetName(set stateSet) string {
	return "{" + strings.Join(set.sorted(), ",") + "}"
}

// Determinize runs the subset construction. Only reachable subsets are
// built and the empty subset is left out, so the result may be partial.
func Determinize(n *NFA) *DFA {
	initSet := n.closure(newStateSet(n.start))
	d := &DFA{
		alphabet: append([]string(nil), n.alphabet...),
		start:    subsetName(initSet),
		accept:   make(stateSet),
		trans:    make(map[string]map[string]string),
	}
	seen := map[string]struct{}{d.start: {}}
	d.states = append(d.states, d.start)
	if n.accepting(initSet) {
		d.accept[d.start] = struct{}{}
	}

	queue := []stateSet{initSet}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := subsetName(cur)
		for _, sym := range n.alphabet {
			next := n.move(cur, sym)
			if len(next) == 0 {
				continue
			}
			next = n.closure(next)
			to := subsetName(next)
			if _, ok := seen[to]; !ok {
				seen[to] = struct{}{}
				d.states = append(d.states, to)
				if n.accepting(next) {
					d.accept[to] = struct{}{}
				}
				queue = append(queue, next)
			}
			if d.trans[from] == nil {
				d.trans[from] = make(map[string]string)
			}
			d.trans[from][sym] = to
		}
	}
	return d
}

// DFA returns n as a DFA when it is already deterministic, and the
// subset construction otherwise.
func (n *NFA) DFA() *DFA {
	if !n.IsDeterministic() {
		return Determinize(n)
	}
	d := &DFA{
		states:   n.States(),
		alphabet: n.Alphabet(),
		start:    n.start,
		accept:   newStateSet(n.AcceptStates()...),
		trans:    make(map[string]map[string]string, len(n.trans)),
	}
	for from, row := range n.trans {
		d.trans[from] = make(map[string]string, len(row))
		for sym, tos := range row {
			d.trans[from][sym] = tos[0]
		}
	}
	return d
}
