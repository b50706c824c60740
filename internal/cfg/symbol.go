package cfg

import "strings"

// Terminal is an atomic alphabet symbol.
type Terminal string

// NonTerminal is a grammar variable.
type NonTerminal string

type Kind uint8

const (
	KindTerminal Kind = iota
	KindNonTerminal
)

// Symbol is either a terminal or a non-terminal. Two symbols with the same
// name but a different kind are different symbols.
type Symbol struct {
	Kind Kind
	Name string
}

func (t Terminal) Symbol() Symbol    { return Symbol{Kind: KindTerminal, Name: string(t)} }
func (n NonTerminal) Symbol() Symbol { return Symbol{Kind: KindNonTerminal, Name: string(n)} }

func (s Symbol) IsTerminal() bool    { return s.Kind == KindTerminal }
func (s Symbol) IsNonTerminal() bool { return s.Kind == KindNonTerminal }

func (s Symbol) Terminal() Terminal       { return Terminal(s.Name) }
func (s Symbol) NonTerminal() NonTerminal { return NonTerminal(s.Name) }

func (s Symbol) String() string { return s.Name }

// form is a sentential form: any mix of terminals and non-terminals.
type form []Symbol

// key encodes the form so that it can be used as a map key. The kind is part
// of the encoding, so a terminal "S" never collides with the non-terminal S.
func (f form) key() string {
	var sb strings.Builder
	for _, s := range f {
		if s.IsTerminal() {
			sb.WriteByte('t')
		} else {
			sb.WriteByte('n')
		}
		sb.WriteString(s.Name)
		sb.WriteByte(0)
	}
	return sb.String()
}

// text concatenates the symbol names, e.g. (a, S, b) -> "aSb".
func (f form) text() string {
	var sb strings.Builder
	for _, s := range f {
		sb.WriteString(s.Name)
	}
	return sb.String()
}

func (f form) terminalLen() int {
	n := 0
	for _, s := range f {
		if s.IsTerminal() {
			n += len(s.Name)
		}
	}
	return n
}

func (f form) hasNonTerminal() bool {
	for _, s := range f {
		if s.IsNonTerminal() {
			return true
		}
	}
	return false
}

// replace returns a new form where position i is substituted by rhs.
func (f form) replace(i int, rhs []Symbol) form {
	out := make(form, 0, len(f)-1+len(rhs))
	out = append(out, f[:i]...)
	out = append(out, rhs...)
	return append(out, f[i+1:]...)
}
