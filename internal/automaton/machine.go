package automaton

import (
	"sort"

	"github.com/pingcap/errors"
)

// Epsilon labels an NFA move that consumes no input.
const Epsilon = "ε"

var ErrInvalidMachine = errors.New("invalid automaton")

// Transition is a single labelled edge.
type Transition struct {
	From   string
	Symbol string
	To     string
}

// Machine is the read-only view the drawing code needs.
type Machine interface {
	States() []string
	Start() string
	AcceptStates() []string
	Transitions() []Transition
}

type stateSet map[string]struct{}

func newStateSet(states ...string) stateSet {
	s := make(stateSet, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

func (s stateSet) has(st string) bool {
	_, ok := s[st]
	return ok
}

func (s stateSet) sorted() []string {
	out := make([]string, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

func sortTransitions(ts []Transition) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].From != ts[j].From {
			return ts[i].From < ts[j].From
		}
		if ts[i].Symbol != ts[j].Symbol {
			return ts[i].Symbol < ts[j].Symbol
		}
		return ts[i].To < ts[j].To
	})
}

// symbols splits a word into one-character symbols.
func symbols(word string) []string {
	out := make([]string, 0, len(word))
	for _, r := range word {
		out = append(out, string(r))
	}
	return out
}
