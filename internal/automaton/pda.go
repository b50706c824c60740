package automaton

import (
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// PDARule moves from From to To reading Input (or Epsilon) with Pop on top
// of the stack, and replaces Pop by Push. Push[0] ends up on top. A Pop of
// Epsilon matches any stack and removes nothing.
type PDARule struct {
	From  string
	Input string
	Pop   string
	To    string
	Push  []string
}

func (r PDARule) label() string {
	push := Epsilon
	if len(r.Push) > 0 {
		push = strings.Join(r.Push, "")
	}
	return r.Input + "," + r.Pop + "/" + push
}

// PDA is a nondeterministic pushdown automaton accepting by final state.
type PDA struct {
	states     []string
	alphabet   []string
	start      string
	startStack string
	accept     stateSet
	rules      []PDARule
	byState    map[string][]int
}

func NewPDA(states, alphabet []string, start, startStack string, accept []string, rules []PDARule) (*PDA, error) {
	p := &PDA{
		states:     append([]string(nil), states...),
		alphabet:   append([]string(nil), alphabet...),
		start:      start,
		startStack: startStack,
		accept:     newStateSet(accept...),
		byState:    make(map[string][]int),
	}
	known := newStateSet(states...)
	sigma := newStateSet(alphabet...)
	if !known.has(start) {
		return nil, errors.Annotatef(ErrInvalidMachine, "start state %q is not a state", start)
	}
	if startStack == "" || startStack == Epsilon {
		return nil, errors.Annotate(ErrInvalidMachine, "missing initial stack symbol")
	}
	for _, st := range accept {
		if !known.has(st) {
			return nil, errors.Annotatef(ErrInvalidMachine, "accept state %q is not a state", st)
		}
	}
	for _, r := range rules {
		if !known.has(r.From) || !known.has(r.To) {
			return nil, errors.Annotatef(ErrInvalidMachine, "rule %s --%s--> %s uses an unknown state", r.From, r.label(), r.To)
		}
		if r.Pop == "" {
			return nil, errors.Annotatef(ErrInvalidMachine, "rule %s --%s--> %s has no pop symbol", r.From, r.label(), r.To)
		}
		if r.Input != Epsilon && !sigma.has(r.Input) {
			return nil, errors.Annotatef(ErrInvalidMachine, "rule %s --%s--> %s reads a symbol outside the alphabet", r.From, r.label(), r.To)
		}
		r.Push = append([]string(nil), r.Push...)
		p.byState[r.From] = append(p.byState[r.From], len(p.rules))
		p.rules = append(p.rules, r)
	}
	return p, nil
}

func (p *PDA) States() []string       { return append([]string(nil), p.states...) }
func (p *PDA) Alphabet() []string     { return append([]string(nil), p.alphabet...) }
func (p *PDA) Start() string          { return p.start }
func (p *PDA) StartStack() string     { return p.startStack }
func (p *PDA) AcceptStates() []string { return p.accept.sorted() }

// Transitions labels every rule as "input,pop/push".
func (p *PDA) Transitions() []Transition {
	out := make([]Transition, 0, len(p.rules))
	for _, r := range p.rules {
		out = append(out, Transition{From: r.From, Symbol: r.label(), To: r.To})
	}
	sortTransitions(out)
	return out
}

// pdaConfig is a configuration of a run. The top of the stack is the last
// element.
type pdaConfig struct {
	state string
	pos   int
	stack []string
}

func (c pdaConfig) key() string {
	var sb strings.Builder
	sb.WriteString(c.state)
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(c.pos))
	for _, s := range c.stack {
		sb.WriteByte(0)
		sb.WriteString(s)
	}
	return sb.String()
}

// next applies r to c, or reports false when r does not fit.
func (c pdaConfig) next(r PDARule, word []string) (pdaConfig, bool) {
	pos := c.pos
	if r.Input != Epsilon {
		if pos >= len(word) || word[pos] != r.Input {
			return pdaConfig{}, false
		}
		pos++
	}
	stack := c.stack
	if r.Pop != Epsilon {
		if len(stack) == 0 || stack[len(stack)-1] != r.Pop {
			return pdaConfig{}, false
		}
		stack = stack[:len(stack)-1]
	}
	out := make([]string, len(stack), len(stack)+len(r.Push))
	copy(out, stack)
	for i := len(r.Push) - 1; i >= 0; i-- {
		out = append(out, r.Push[i])
	}
	return pdaConfig{state: r.To, pos: pos, stack: out}, true
}

// AcceptsSymbols explores configurations breadth first and accepts once
// the whole word is read in an accept state. Every dequeued configuration
// costs one step; the run rejects when the budget is spent.
func (p *PDA) AcceptsSymbols(word []string, opts ...RunOption) bool {
	o := newRunOptions(opts)
	queue := []pdaConfig{{state: p.start, stack: []string{p.startStack}}}
	visited := make(map[string]struct{})
	for steps := 0; len(queue) > 0 && steps < o.maxSteps; steps++ {
		c := queue[0]
		queue = queue[1:]
		k := c.key()
		if _, ok := visited[k]; ok {
			continue
		}
		visited[k] = struct{}{}
		if c.pos == len(word) && p.accept.has(c.state) {
			return true
		}
		for _, i := range p.byState[c.state] {
			if n, ok := c.next(p.rules[i], word); ok {
				queue = append(queue, n)
			}
		}
	}
	return false
}

// Accepts treats every character of word as one symbol.
func (p *PDA) Accepts(word string, opts ...RunOption) bool {
	return p.AcceptsSymbols(symbols(word), opts...)
}
