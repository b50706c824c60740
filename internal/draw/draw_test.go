package draw

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"automata/internal/automaton"
	"automata/internal/cfg"
	"automata/internal/config"
)

func loadMachine(t *testing.T) automaton.Machine {
	t.Helper()
	n, err := automaton.Load([]byte("start q0\naccept q1\nq0 a -> q0\nq0 b -> q0\nq0 a -> q1\n"))
	require.NoError(t, err)
	return n
}

func TestWriteMachineDOTMergesLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMachineDOT(&buf, loadMachine(t)))
	out := buf.String()
	require.Contains(t, out, `"q0" [shape=circle];`)
	require.Contains(t, out, `"q1" [shape=doublecircle];`)
	require.Contains(t, out, `"q0" -> "q0" [label="a,b"];`)
	require.Contains(t, out, `"q0" -> "q1" [label="a"];`)
	require.Contains(t, out, `_start -> "q0";`)
	require.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("[label=")))
}

func TestWriteMachineDOTRuleLabels(t *testing.T) {
	p, err := automaton.LoadPDA([]byte("start q0\naccept q2\nq0 a Z -> q0 A Z\nq0 a A -> q0 A A\nq0 b A -> q1\nq1 ε Z -> q2 Z\n"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteMachineDOT(&buf, p))
	require.Contains(t, buf.String(), `"q0" -> "q0" [label="a,A/AA\na,Z/AZ"];`)
	require.Contains(t, buf.String(), `"q0" -> "q1" [label="b,A/ε"];`)

	m, err := automaton.LoadTM([]byte("start q0\naccept qa\nq0 a -> q0 b R\nq0 b -> q0 a R\nq0 _ -> qa _ L\n"))
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteMachineDOT(&buf, m))
	require.Contains(t, buf.String(), `"q0" -> "q0" [label="a/b,R\nb/a,R"];`)
	require.Contains(t, buf.String(), `"qa" [shape=doublecircle];`)
}

func TestWriteGrammarDOT(t *testing.T) {
	g := cfg.MustParse("S -> a S b | A\nA -> ε")
	var buf bytes.Buffer
	require.NoError(t, WriteGrammarDOT(&buf, g))
	out := buf.String()
	require.Contains(t, out, `"n:S" [label="S", shape=ellipse];`)
	require.Contains(t, out, `"t:a" [label="a", shape=box];`)
	require.Contains(t, out, `"n:S" -> "n:S";`)
	require.Contains(t, out, `"n:S" -> "n:A";`)
	require.Contains(t, out, `"n:A" -> "ε";`)
	require.Contains(t, out, `_start -> "n:S";`)
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"n:S" -> "t:a";`)))
}

func TestDrawerWritesDOT(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := New(fs, config.Draw{OutputDir: "out"})

	paths, err := d.DrawMachine(context.Background(), "machine", loadMachine(t))
	require.NoError(t, err)
	require.Equal(t, []string{"out/machine.dot"}, paths)
	data, err := afero.ReadFile(fs, "out/machine.dot")
	require.NoError(t, err)
	require.Contains(t, string(data), "digraph G {")

	paths, err = d.DrawGrammar(context.Background(), "grammar", cfg.MustParse("S -> a"))
	require.NoError(t, err)
	require.Equal(t, []string{"out/grammar.dot"}, paths)
	ok, err := afero.Exists(fs, "out/grammar.dot")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDrawerWithoutDotBinary(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := New(fs, config.Draw{OutputDir: "out", Format: "png", DotBinary: "automata-test-missing-dot"})
	paths, err := d.DrawMachine(context.Background(), "m", loadMachine(t))
	require.NoError(t, err)
	require.Equal(t, []string{"out/m.dot"}, paths)
	ok, err := afero.Exists(fs, "out/m.png")
	require.NoError(t, err)
	require.False(t, ok)
}
