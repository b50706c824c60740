package automaton

import (
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

const endsWithAB = `# (a|b)*ab
start q0
accept q2
q0 a -> q0
q0 b -> q0
q0 a -> q1
q1 b -> q2
`

func allWords(alphabet []string, maxLen int) []string {
	out := []string{""}
	level := []string{""}
	for n := 1; n <= maxLen; n++ {
		var next []string
		for _, w := range level {
			for _, a := range alphabet {
				next = append(next, w+a)
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

func mustLoad(t *testing.T, text string) *NFA {
	t.Helper()
	n, err := Load([]byte(text))
	require.NoError(t, err)
	return n
}

func TestLoad(t *testing.T) {
	n := mustLoad(t, endsWithAB)
	require.Equal(t, "q0", n.Start())
	require.Equal(t, []string{"q0", "q2", "q1"}, n.States())
	require.Equal(t, []string{"a", "b"}, n.Alphabet())
	require.Equal(t, []string{"q2"}, n.AcceptStates())
	require.Equal(t, []Transition{
		{"q0", "a", "q0"}, {"q0", "a", "q1"}, {"q0", "b", "q0"}, {"q1", "b", "q2"},
	}, n.Transitions())
	require.False(t, n.IsDeterministic())
}

func TestLoadEpsilonSpellings(t *testing.T) {
	for _, eps := range []string{"ε", "eps", "epsilon"} {
		n := mustLoad(t, "start p\naccept r\np "+eps+" -> q\nq a -> q\nq ε -> r\n")
		require.Equal(t, []string{"a"}, n.Alphabet(), eps)
		require.True(t, n.Accepts(""), eps)
		require.True(t, n.Accepts("aaa"), eps)
		require.False(t, n.Accepts("b"), eps)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, text := range []string{
		"accept q0\nq0 a -> q0",
		"start q0\nstart q1",
		"start q0 q1",
		"start q0\nq0 a q1",
		"start q0\nq0 a -> q1 q2",
		"start q0\naccept",
		"start q0\naccept q1 ->",
	} {
		_, err := Load([]byte(text))
		require.Error(t, err, text)
		require.Equal(t, ErrSyntax, errors.Cause(err), text)
	}
}

func TestNFAAccepts(t *testing.T) {
	n := mustLoad(t, endsWithAB)
	for _, w := range []string{"ab", "aab", "bab", "abab"} {
		require.True(t, n.Accepts(w), w)
	}
	for _, w := range []string{"", "a", "ba", "abb", "c"} {
		require.False(t, n.Accepts(w), w)
	}
}

func TestDeterminize(t *testing.T) {
	for _, text := range []string{endsWithAB, "start p\naccept r\np ε -> q\nq a -> q\nq b -> r\nr ε -> p\n"} {
		n := mustLoad(t, text)
		d := Determinize(n)
		for _, st := range d.States() {
			seen := map[string]bool{}
			for _, tr := range d.Transitions() {
				if tr.From != st {
					continue
				}
				require.False(t, seen[tr.Symbol], "two moves from %s on %s", st, tr.Symbol)
				seen[tr.Symbol] = true
			}
		}
		for _, w := range allWords(n.Alphabet(), 6) {
			require.Equal(t, n.Accepts(w), d.Accepts(w), "word %q", w)
		}
	}
}

func TestDeterminizeNamesSubsets(t *testing.T) {
	d := Determinize(mustLoad(t, "start p\naccept r\np ε -> q\nq a -> q\nq ε -> r\n"))
	require.Equal(t, "{p,q,r}", d.Start())
	require.Equal(t, []string{"{p,q,r}", "{q,r}"}, d.States())
	require.Equal(t, []string{"{p,q,r}", "{q,r}"}, d.AcceptStates())
}

func TestDFAOfDeterministicNFAKeepsNames(t *testing.T) {
	n := mustLoad(t, "start a\naccept b\na x -> b\nb x -> a\n")
	require.True(t, n.IsDeterministic())
	d := n.DFA()
	require.Equal(t, []string{"a", "b"}, d.States())
	require.True(t, d.Accepts("xxx"))
	require.False(t, d.Accepts("xx"))
	require.False(t, d.Accepts("y"))
}

func TestNewDFARejectsConflicts(t *testing.T) {
	_, err := NewDFA([]string{"p", "q"}, []string{"a"}, "p", nil, []Transition{{"p", "a", "p"}, {"p", "a", "q"}})
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))

	_, err = NewDFA([]string{"p"}, []string{"a"}, "p", nil, []Transition{{"p", "b", "p"}})
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))

	_, err = NewDFA([]string{"p"}, []string{"a"}, "r", nil, nil)
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))

	_, err = NewNFA([]string{"p"}, []string{"a"}, "p", []string{"z"}, nil)
	require.Equal(t, ErrInvalidMachine, errors.Cause(err))
}

func TestMinimize(t *testing.T) {
	// even number of a's, spelled with four states
	d, err := NewDFA(
		[]string{"s0", "s1", "s2", "s3"}, []string{"a"}, "s0", []string{"s0", "s2"},
		[]Transition{{"s0", "a", "s1"}, {"s1", "a", "s2"}, {"s2", "a", "s3"}, {"s3", "a", "s0"}},
	)
	require.NoError(t, err)
	m := Minimize(d)
	require.Equal(t, []string{"q0", "q1"}, m.States())
	require.Equal(t, []string{"q0"}, m.AcceptStates())
	for _, w := range allWords([]string{"a"}, 8) {
		require.Equal(t, d.Accepts(w), m.Accepts(w), "word %q", w)
	}
}

func TestMinimizeAfterDeterminize(t *testing.T) {
	n := mustLoad(t, endsWithAB)
	m := Minimize(Determinize(n))
	require.Len(t, m.States(), 3)
	for _, w := range allWords(n.Alphabet(), 6) {
		require.Equal(t, n.Accepts(w), m.Accepts(w), "word %q", w)
	}
}

func TestMinimizeCompletesPartialDFA(t *testing.T) {
	d, err := NewDFA([]string{"p", "u"}, []string{"a", "b"}, "p", []string{"p"}, []Transition{{"p", "a", "p"}})
	require.NoError(t, err)
	m := Minimize(d)
	// u is unreachable; b leads to a dead state
	require.Len(t, m.States(), 2)
	require.Len(t, m.Transitions(), 4)
	require.True(t, m.Accepts("aaa"))
	require.False(t, m.Accepts("ab"))
}
