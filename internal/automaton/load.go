package automaton

import (
	"os"
	"sync"

	"github.com/pingcap/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

var ErrSyntax = errors.New("automaton syntax error")

type tokenType int

const (
	tokStart tokenType = iota
	tokAccept
	tokStack
	tokBlank
	tokArrow
	tokName
	tokEOL
)

type token struct {
	Type    tokenType
	Literal string
	Line    int
	Column  int
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokAction(t tokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return token{
			Type:    t,
			Literal: string(m.Bytes),
			Line:    m.StartLine,
			Column:  m.StartColumn,
		}, nil
	}
}

// Keywords and the arrow are added before names, so they win ties of
// equal length.
var machineLexer = sync.OnceValues(func() (*lexmachine.Lexer, error) {
	lex := lexmachine.NewLexer()
	lex.Add([]byte(`[ \t\r]+`), skip)
	lex.Add([]byte(`#[^\n]*`), skip)
	lex.Add([]byte(`[\n]`), tokAction(tokEOL))
	lex.Add([]byte(`start`), tokAction(tokStart))
	lex.Add([]byte(`accept`), tokAction(tokAccept))
	lex.Add([]byte(`stack`), tokAction(tokStack))
	lex.Add([]byte(`blank`), tokAction(tokBlank))
	lex.Add([]byte(`->`), tokAction(tokArrow))
	lex.Add([]byte(`[^ \t\r\n#]+`), tokAction(tokName))
	if err := lex.Compile(); err != nil {
		return nil, err
	}
	return lex, nil
})

func tokenize(text []byte) ([][]token, error) {
	lex, err := machineLexer()
	if err != nil {
		return nil, errors.Trace(err)
	}
	scanner, err := lex.Scanner(text)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var (
		lines [][]token
		cur   []token
	)
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, errors.Annotate(ErrSyntax, err.Error())
		}
		t := tok.(token)
		if t.Type == tokEOL {
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines, nil
}

func isEpsilon(name string) bool {
	return name == Epsilon || name == "eps" || name == "epsilon"
}

// description is a machine file split into its header lines and its rule
// lines. Rules are interpreted by the loader of each machine kind.
type description struct {
	start  string
	accept []string
	stack  string
	blank  string
	states []string
	seen   stateSet
	rules  [][]token
}

func (d *description) addState(st string) {
	if !d.seen.has(st) {
		d.seen[st] = struct{}{}
		d.states = append(d.states, st)
	}
}

func describe(text []byte) (*description, error) {
	lines, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	d := &description{seen: make(stateSet)}
	single := func(line []token, what string, dst *string) error {
		head := line[0]
		if len(line) != 2 || line[1].Type != tokName {
			return errors.Annotatef(ErrSyntax, "line %d: want \"%s <name>\"", head.Line, what)
		}
		if *dst != "" {
			return errors.Annotatef(ErrSyntax, "line %d: %s given twice", head.Line, what)
		}
		*dst = line[1].Literal
		return nil
	}
	for _, line := range lines {
		head := line[0]
		switch head.Type {
		case tokStart:
			if err := single(line, "start", &d.start); err != nil {
				return nil, err
			}
			d.addState(d.start)
		case tokStack:
			if err := single(line, "stack", &d.stack); err != nil {
				return nil, err
			}
		case tokBlank:
			if err := single(line, "blank", &d.blank); err != nil {
				return nil, err
			}
		case tokAccept:
			if len(line) < 2 {
				return nil, errors.Annotatef(ErrSyntax, "line %d: want \"accept <state>...\"", head.Line)
			}
			for _, t := range line[1:] {
				if t.Type != tokName {
					return nil, errors.Annotatef(ErrSyntax, "line %d:%d: unexpected %q", t.Line, t.Column, t.Literal)
				}
				d.accept = append(d.accept, t.Literal)
				d.addState(t.Literal)
			}
		default:
			d.rules = append(d.rules, line)
		}
	}
	if d.start == "" {
		return nil, errors.Annotate(ErrSyntax, "missing start line")
	}
	return d, nil
}

// splitRule splits a rule line at its only arrow. Every other token must
// be a name.
func splitRule(line []token) (lhs, rhs []string, ok bool) {
	arrow := -1
	for i, t := range line {
		switch {
		case t.Type == tokArrow && arrow < 0:
			arrow = i
		case t.Type != tokName:
			return nil, nil, false
		}
	}
	if arrow < 0 {
		return nil, nil, false
	}
	for _, t := range line[:arrow] {
		lhs = append(lhs, t.Literal)
	}
	for _, t := range line[arrow+1:] {
		rhs = append(rhs, t.Literal)
	}
	return lhs, rhs, true
}

// Load reads the line-oriented finite automaton format:
//
//	start q0
//	accept q1 q2
//	q0 a -> q1
//	q1 ε -> q2
//
// States are collected in first-seen order, header lines first, and the
// alphabet from the non-ε transition labels. A deterministic result can
// be turned into a DFA with (*NFA).DFA.
func Load(text []byte) (*NFA, error) {
	d, err := describe(text)
	if err != nil {
		return nil, err
	}
	if d.stack != "" || d.blank != "" {
		return nil, errors.Annotate(ErrSyntax, "stack and blank lines do not belong to a finite automaton")
	}
	var trans []Transition
	sigma := make(stateSet)
	for _, line := range d.rules {
		lhs, rhs, ok := splitRule(line)
		if !ok || len(lhs) != 2 || len(rhs) != 1 {
			return nil, errors.Annotatef(ErrSyntax, "line %d: want \"<state> <symbol> -> <state>\"", line[0].Line)
		}
		sym := lhs[1]
		if isEpsilon(sym) {
			sym = Epsilon
		} else {
			sigma[sym] = struct{}{}
		}
		d.addState(lhs[0])
		d.addState(rhs[0])
		trans = append(trans, Transition{From: lhs[0], Symbol: sym, To: rhs[0]})
	}
	return NewNFA(d.states, sigma.sorted(), d.start, d.accept, trans)
}

// DefaultStackSymbol and DefaultBlank are used when a machine file has no
// stack or blank line.
const (
	DefaultStackSymbol = "Z"
	DefaultBlank       = "_"
)

// LoadPDA reads a pushdown automaton. Rules name the input symbol and the
// popped stack symbol, then the pushed symbols with the new top first:
//
//	start q0
//	stack Z
//	accept q2
//	q0 a Z -> q0 A Z
//	q0 b A -> q1 ε
//
// ε stands for no input or for any stack top. A push of ε, or none at
// all, pushes nothing.
func LoadPDA(text []byte) (*PDA, error) {
	d, err := describe(text)
	if err != nil {
		return nil, err
	}
	if d.blank != "" {
		return nil, errors.Annotate(ErrSyntax, "blank line does not belong to a pushdown automaton")
	}
	switch {
	case d.stack == "":
		d.stack = DefaultStackSymbol
	case isEpsilon(d.stack):
		d.stack = Epsilon
	}
	var rules []PDARule
	sigma := make(stateSet)
	for _, line := range d.rules {
		lhs, rhs, ok := splitRule(line)
		if !ok || len(lhs) != 3 || len(rhs) == 0 {
			return nil, errors.Annotatef(ErrSyntax, "line %d: want \"<state> <input> <pop> -> <state> <push>...\"", line[0].Line)
		}
		r := PDARule{From: lhs[0], Input: lhs[1], Pop: lhs[2], To: rhs[0]}
		if isEpsilon(r.Input) {
			r.Input = Epsilon
		} else {
			sigma[r.Input] = struct{}{}
		}
		if isEpsilon(r.Pop) {
			r.Pop = Epsilon
		}
		for _, s := range rhs[1:] {
			if !isEpsilon(s) {
				r.Push = append(r.Push, s)
			}
		}
		d.addState(r.From)
		d.addState(r.To)
		rules = append(rules, r)
	}
	return NewPDA(d.states, sigma.sorted(), d.start, d.stack, d.accept, rules)
}

// LoadTM reads a single-tape Turing machine. Rules read a symbol, then
// name the next state, the symbol written and the head move (L, R or N):
//
//	start q0
//	blank _
//	accept qa
//	q0 a -> q0 a R
//	q0 _ -> qa _ N
func LoadTM(text []byte) (*TM, error) {
	d, err := describe(text)
	if err != nil {
		return nil, err
	}
	if d.stack != "" {
		return nil, errors.Annotate(ErrSyntax, "stack line does not belong to a Turing machine")
	}
	if d.blank == "" {
		d.blank = DefaultBlank
	}
	var rules []TMRule
	for _, line := range d.rules {
		lhs, rhs, ok := splitRule(line)
		if !ok || len(lhs) != 2 || len(rhs) != 3 {
			return nil, errors.Annotatef(ErrSyntax, "line %d: want \"<state> <read> -> <state> <write> <L|R|N>\"", line[0].Line)
		}
		move, ok := parseMove(rhs[2])
		if !ok {
			return nil, errors.Annotatef(ErrSyntax, "line %d: unknown head move %q", line[0].Line, rhs[2])
		}
		d.addState(lhs[0])
		d.addState(rhs[0])
		rules = append(rules, TMRule{From: lhs[0], Read: lhs[1], To: rhs[0], Write: rhs[1], Move: move})
	}
	return NewTM(d.states, d.start, d.blank, d.accept, rules)
}

func readMachine[M any](path string, load func([]byte) (M, error)) (M, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		var zero M
		return zero, errors.Trace(err)
	}
	m, err := load(text)
	return m, errors.Annotatef(err, "load %s", path)
}

// LoadFile reads a finite automaton from path.
func LoadFile(path string) (*NFA, error) { return readMachine(path, Load) }

// LoadPDAFile reads a pushdown automaton from path.
func LoadPDAFile(path string) (*PDA, error) { return readMachine(path, LoadPDA) }

// LoadTMFile reads a Turing machine from path.
func LoadTMFile(path string) (*TM, error) { return readMachine(path, LoadTM) }
