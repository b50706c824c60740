package automaton

import "github.com/pingcap/errors"

// DFA is a deterministic automaton. The transition function may be
// partial; a missing move rejects the word.
type DFA struct {
	states   []string
	alphabet []string
	start    string
	accept   stateSet
	trans    map[string]map[string]string
}

func NewDFA(states, alphabet []string, start string, accept []string, trans []Transition) (*DFA, error) {
	d := &DFA{
		states:   append([]string(nil), states...),
		alphabet: append([]string(nil), alphabet...),
		start:    start,
		accept:   newStateSet(accept...),
		trans:    make(map[string]map[string]string, len(states)),
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
		if !sigma.has(t.Symbol) {
			return nil, errors.Annotatef(ErrInvalidMachine, "transition %s --%s--> %s uses a symbol outside the alphabet", t.From, t.Symbol, t.To)
		}
		row := d.trans[t.From]
		if row == nil {
			row = make(map[string]string)
			d.trans[t.From] = row
		}
		if to, ok := row[t.Symbol]; ok && to != t.To {
			return nil, errors.Annotatef(ErrInvalidMachine, "state %s has two moves on %s", t.From, t.Symbol)
		}
		row[t.Symbol] = t.To
	}
	return d, nil
}

// AcceptsSymbols runs the automaton over a sequence of symbols.
func (d *DFA) AcceptsSymbols(word []string) bool {
	cur := d.start
	for _, sym := range word {
		next, ok := d.trans[cur][sym]
		if !ok {
			return false
		}
		cur = next
	}
	return d.accept.has(cur)
}

// Accepts treats every character of word as one symbol.
func (d *DFA) Accepts(word string) bool { return d.AcceptsSymbols(symbols(word)) }

func (d *DFA) States() []string       { return append([]string(nil), d.states...) }
func (d *DFA) Alphabet() []string     { return append([]string(nil), d.alphabet...) }
func (d *DFA) Start() string          { return d.start }
func (d *DFA) AcceptStates() []string { return d.accept.sorted() }

func (d *DFA) Transitions() []Transition {
	var out []Transition
	for from, row := range d.trans {
		for sym, to := range row {
			out = append(out, Transition{From: from, Symbol: sym, To: to})
		}
	}
	sortTransitions(out)
	return out
}

// complete returns d with every missing move sent to a fresh dead state.
// d itself is returned when it is already total.
func (d *DFA) complete() *DFA {
	total := true
	for _, st := range d.states {
		if len(d.trans[st]) != len(d.alphabet) {
			total = false
			break
		}
	}
	if total {
		return d
	}
	known := newStateSet(d.states...)
	dead := "∅"
	for known.has(dead) {
		dead += "'"
	}
	out := &DFA{
		states:   append(append([]string(nil), d.states...), dead),
		alphabet: d.alphabet,
		start:    d.start,
		accept:   d.accept,
		trans:    make(map[string]map[string]string, len(d.states)+1),
	}
	for _, st := range out.states {
		row := make(map[string]string, len(d.alphabet))
		for _, sym := range d.alphabet {
			if to, ok := d.trans[st][sym]; ok {
				row[sym] = to
			} else {
				row[sym] = dead
			}
		}
		out.trans[st] = row
	}
	return out
}
