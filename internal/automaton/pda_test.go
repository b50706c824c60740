package automaton

import (
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

const anbn = `# a^n b^n, n >= 1
start q0
stack Z
accept q2
q0 a Z -> q0 A Z
q0 a A -> q0 A A
q0 b A -> q1 ε
q1 b A -> q1 ε
q1 ε Z -> q2 Z
`

func mustLoadPDA(t *testing.T, text string) *PDA {
	t.Helper()
	p, err := LoadPDA([]byte(text))
	require.NoError(t, err)
	return p
}

func TestLoadPDA(t *testing.T) {
	p := mustLoadPDA(t, anbn)
	require.Equal(t, "q0", p.Start())
	require.Equal(t, "Z", p.StartStack())
	require.Equal(t, []string{"q0", "q2", "q1"}, p.States())
	require.Equal(t, []string{"a", "b"}, p.Alphabet())
	require.Equal(t, []string{"q2"}, p.AcceptStates())
	require.Equal(t, []Transition{
		{"q0", "a,A/AA", "q0"},
		{"q0", "a,Z/AZ", "q0"},
		{"q0", "b,A/ε", "q1"},
		{"q1", "b,A/ε", "q1"},
		{"q1", "ε,Z/Z", "q2"},
	}, p.Transitions())

	p = mustLoadPDA(t, "start p\naccept p\np a Z -> p Z\n")
	require.Equal(t, DefaultStackSymbol, p.StartStack())
}

func TestPDAAccepts(t *testing.T) {
	p := mustLoadPDA(t, anbn)
	for _, w := range allWords([]string{"a", "b"}, 6) {
		n := len(w) / 2
		want := n > 0 && w == strings.Repeat("a", n)+strings.Repeat("b", n)
		require.Equal(t, want, p.Accepts(w), w)
	}
}

func TestPDAPopEpsilonMatchesAnyStack(t *testing.T) {
	// even-length palindromes: guess the middle with an ε move.
	p := mustLoadPDA(t, `start p
accept f
p a ε -> p a
p b ε -> p b
p ε ε -> q
q a a -> q ε
q b b -> q ε
q ε Z -> f Z
`)
	for _, w := range allWords([]string{"a", "b"}, 5) {
		rev := []byte(w)
		for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
			rev[i], rev[j] = rev[j], rev[i]
		}
		want := len(w)%2 == 0 && w == string(rev)
		require.Equal(t, want, p.Accepts(w), w)
	}
}

func TestPDAStepBudget(t *testing.T) {
	p := mustLoadPDA(t, anbn)
	require.True(t, p.Accepts("aabb"))
	require.False(t, p.Accepts("aabb", WithMaxSteps(3)))
	require.True(t, p.Accepts("aabb", WithMaxSteps(0)))

	// ε moves that grow the stack forever end when the budget does.
	loop := mustLoadPDA(t, "start p\naccept f\np ε Z -> p A Z\np ε A -> p A A\n")
	require.False(t, loop.Accepts("", WithMaxSteps(50)))
}

func TestLoadPDAErrors(t *testing.T) {
	for _, text := range []string{
		"start q0\nblank _\n",
		"start q0\nstack Z Y\n",
		"start q0\nq0 a -> q1 Z\n",
		"start q0\nq0 a Z -> \n",
		"start q0\nq0 a Z q1\n",
	} {
		_, err := LoadPDA([]byte(text))
		require.Error(t, err, text)
		require.Equal(t, ErrSyntax, errors.Cause(err), text)
	}
	_, err := LoadPDA([]byte("start q0\nstack eps\n"))
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))
}

func TestNewPDAValidates(t *testing.T) {
	_, err := NewPDA([]string{"p"}, []string{"a"}, "p", "Z", nil, []PDARule{{From: "p", Input: "b", Pop: "Z", To: "p"}})
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))
	_, err = NewPDA([]string{"p"}, []string{"a"}, "p", "Z", nil, []PDARule{{From: "p", Input: "a", Pop: "Z", To: "q"}})
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))
	_, err = NewPDA([]string{"p"}, []string{"a"}, "p", "Z", nil, []PDARule{{From: "p", Input: "a", To: "p"}})
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))

	rules := []PDARule{{From: "p", Input: "a", Pop: "Z", To: "p", Push: []string{"Z"}}}
	p, err := NewPDA([]string{"p"}, []string{"a"}, "p", "Z", []string{"p"}, rules)
	require.NoError(t, err)
	rules[0].Push[0] = "Y"
	require.Equal(t, "a,Z/Z", p.Transitions()[0].Symbol)
}
