package automaton

import (
	"strings"

	"github.com/pingcap/errors"
)

// Move is the head movement of a Turing machine rule.
type Move byte

const (
	MoveLeft  Move = 'L'
	MoveRight Move = 'R'
	MoveNone  Move = 'N'
)

func parseMove(s string) (Move, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch m := Move(strings.ToUpper(s)[0]); m {
	case MoveLeft, MoveRight, MoveNone:
		return m, true
	}
	return 0, false
}

// TMRule reads Read in state From, writes Write, moves the head and
// enters To.
type TMRule struct {
	From  string
	Read  string
	To    string
	Write string
	Move  Move
}

func (r TMRule) label() string {
	return r.Read + "/" + r.Write + "," + string(r.Move)
}

// TM is a deterministic single-tape Turing machine. It accepts as soon as
// it enters an accept state and rejects when no rule applies.
type TM struct {
	states []string
	start  string
	blank  string
	accept stateSet
	tape   stateSet
	rules  map[string]map[string]TMRule
}

func NewTM(states []string, start, blank string, accept []string, rules []TMRule) (*TM, error) {
	m := &TM{
		states: append([]string(nil), states...),
		start:  start,
		blank:  blank,
		accept: newStateSet(accept...),
		tape:   newStateSet(blank),
		rules:  make(map[string]map[string]TMRule),
	}
	known := newStateSet(states...)
	if !known.has(start) {
		return nil, errors.Annotatef(ErrInvalidMachine, "start state %q is not a state", start)
	}
	if blank == "" {
		return nil, errors.Annotate(ErrInvalidMachine, "missing blank symbol")
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
		if r.Move != MoveLeft && r.Move != MoveRight && r.Move != MoveNone {
			return nil, errors.Annotatef(ErrInvalidMachine, "rule %s --%s--> %s: direction must be L, R or N", r.From, r.label(), r.To)
		}
		row := m.rules[r.From]
		if row == nil {
			row = make(map[string]TMRule)
			m.rules[r.From] = row
		}
		if _, ok := row[r.Read]; ok {
			return nil, errors.Annotatef(ErrInvalidMachine, "state %s has two rules reading %s", r.From, r.Read)
		}
		row[r.Read] = r
		m.tape[r.Read] = struct{}{}
		m.tape[r.Write] = struct{}{}
	}
	return m, nil
}

func (m *TM) States() []string       { return append([]string(nil), m.states...) }
func (m *TM) Start() string          { return m.start }
func (m *TM) Blank() string          { return m.blank }
func (m *TM) AcceptStates() []string { return m.accept.sorted() }

// TapeAlphabet is the blank plus every symbol a rule reads or writes.
func (m *TM) TapeAlphabet() []string { return m.tape.sorted() }

// Transitions labels every rule as "read/write,move".
func (m *TM) Transitions() []Transition {
	var out []Transition
	for _, row := range m.rules {
		for _, r := range row {
			out = append(out, Transition{From: r.From, Symbol: r.label(), To: r.To})
		}
	}
	sortTransitions(out)
	return out
}

// Tape is the state of a run: the cells written so far and the head.
type Tape struct {
	cells map[int]string
	blank string
	head  int
}

func newTape(word []string, blank string) *Tape {
	t := &Tape{cells: make(map[int]string, len(word)), blank: blank}
	for i, s := range word {
		t.cells[i] = s
	}
	return t
}

func (t *Tape) read() string {
	if s, ok := t.cells[t.head]; ok {
		return s
	}
	return t.blank
}

func (t *Tape) write(s string) { t.cells[t.head] = s }

func (t *Tape) move(m Move) {
	switch m {
	case MoveLeft:
		t.head--
	case MoveRight:
		t.head++
	}
}

// String renders the non-blank span of the tape with the head in brackets.
func (t *Tape) String() string {
	lo, hi := t.head, t.head
	for i, s := range t.cells {
		if s == t.blank {
			continue
		}
		lo, hi = min(lo, i), max(hi, i)
	}
	var sb strings.Builder
	for i := lo; i <= hi; i++ {
		s := t.blank
		if v, ok := t.cells[i]; ok {
			s = v
		}
		if i == t.head {
			sb.WriteString("[" + s + "]")
		} else {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// RunSymbols runs m on word and returns whether it accepted and the final
// tape. A word with the blank or a symbol outside the tape alphabet fails
// with ErrInvalidInput; a run that does not halt within the budget fails
// with ErrStepLimit.
func (m *TM) RunSymbols(word []string, opts ...RunOption) (bool, *Tape, error) {
	for _, s := range word {
		if s == m.blank || !m.tape.has(s) {
			return false, nil, errors.Annotatef(ErrInvalidInput, "symbol %q", s)
		}
	}
	o := newRunOptions(opts)
	tape := newTape(word, m.blank)
	state := m.start
	for steps := 0; !m.accept.has(state); steps++ {
		if steps >= o.maxSteps {
			return false, tape, errors.Annotatef(ErrStepLimit, "after %d steps", steps)
		}
		r, ok := m.rules[state][tape.read()]
		if !ok {
			return false, tape, nil
		}
		tape.write(r.Write)
		tape.move(r.Move)
		state = r.To
	}
	return true, tape, nil
}

// Run treats every character of word as one symbol.
func (m *TM) Run(word string, opts ...RunOption) (bool, *Tape, error) {
	return m.RunSymbols(symbols(word), opts...)
}

func (m *TM) Accepts(word string, opts ...RunOption) (bool, error) {
	ok, _, err := m.Run(word, opts...)
	return ok, err
}
