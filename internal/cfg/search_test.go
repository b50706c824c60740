package cfg

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

var anbn = MustParse("S -> a S b | ε")

func TestAcceptString(t *testing.T) {
	for _, w := range []string{"", "ab", "aabb", "aaabbb", "aaaabbbb"} {
		require.True(t, AcceptString(anbn, w), "word %q", w)
	}
	for _, w := range []string{"aab", "abab", "a", "b", "ba", "aaabb", "ababab"} {
		require.False(t, AcceptString(anbn, w), "word %q", w)
	}
}

func TestAcceptStringBudget(t *testing.T) {
	require.Equal(t, 22, DefaultMaxSteps(4))
	// a^4 b^4 is five rewrites away, so it sits in the sixth frontier
	require.True(t, AcceptString(anbn, "aaaabbbb", WithMaxSteps(6)))
	require.False(t, AcceptString(anbn, "aaaabbbb", WithMaxSteps(5)))
	require.True(t, AcceptString(anbn, "aaaabbbb", WithMaxSteps(0)))
}

func TestDerivation(t *testing.T) {
	steps, ok := Derivation(anbn, "ab")
	require.True(t, ok)
	require.Equal(t, []string{"S", "aSb", "ab"}, steps)

	steps, ok = Derivation(anbn, "aabb")
	require.True(t, ok)
	require.Equal(t, "S", steps[0])
	require.Equal(t, "aabb", steps[len(steps)-1])
	require.Len(t, steps, 4)

	steps, ok = Derivation(anbn, "aab")
	require.False(t, ok)
	require.Nil(t, steps)
}

func TestDerivationSteps(t *testing.T) {
	g := MustParse("S -> A B\nA -> a\nB -> b")
	rules, ok := DerivationSteps(g, "ab")
	require.True(t, ok)
	require.Len(t, rules, 3)
	require.Equal(t, "S -> A B", rules[0].Rule.String())
	require.Equal(t, 0, rules[0].At)

	// replaying the rules must reproduce the target
	f := form{g.Start().Symbol()}
	for _, r := range rules {
		require.Equal(t, r.Rule.LHS.Symbol(), f[r.At])
		f = f.replace(r.At, r.Rule.RHS)
	}
	require.Equal(t, "ab", f.text())
	require.False(t, f.hasNonTerminal())
}

func TestDerivationEachStepAppliesOneProduction(t *testing.T) {
	g := MustParse("E -> E + T | T\nT -> T * F | F\nF -> ( E ) | x")
	forms, edges, ok := g.derive("x+x*x", nil)
	require.True(t, ok)
	require.Equal(t, "x+x*x", forms[len(forms)-1].text())
	require.Len(t, edges, len(forms)-1)
	for i, e := range edges {
		next := forms[i].replace(e.at, g.productions[e.rule].RHS)
		require.Equal(t, forms[i+1].key(), next.key())
	}
}

func TestGenerateStrings(t *testing.T) {
	got := slices.Collect(GenerateStrings(anbn, 4))
	require.Equal(t, []string{"", "ab", "aabb"}, got)

	got = slices.Collect(GenerateStrings(MustParse("S -> a S | b S | ε"), 2))
	require.ElementsMatch(t, []string{"", "a", "b", "aa", "ab", "ba", "bb"}, got)
}

func TestGenerateStringsIsLazy(t *testing.T) {
	var got []string
	for w := range GenerateStrings(anbn, 10) {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"", "ab"}, got)

	// ranging again runs a new search from scratch
	require.Len(t, slices.Collect(GenerateStrings(anbn, 10)), 6)
}

func TestGenerateStringsDeduplicates(t *testing.T) {
	g := MustParse("S -> A | B\nA -> a\nB -> a")
	require.Equal(t, []string{"a"}, slices.Collect(GenerateStrings(g, 3)))
}

func TestDerive(t *testing.T) {
	trace, ok := Derive(anbn, "aabb")
	require.True(t, ok)
	require.Equal(t, []string{"S", "aSb", "aaSbb", "aabb"}, trace.Forms)
	require.Len(t, trace.Rules, len(trace.Forms)-1)
	require.Equal(t, "S -> a S b", trace.Rules[0].Rule.String())
	require.Equal(t, "S -> ε", trace.Rules[2].Rule.String())
	require.Equal(t, 2, trace.Rules[2].At)

	steps, ok := Derivation(anbn, "aabb")
	require.True(t, ok)
	require.Equal(t, trace.Forms, steps)
	rules, ok := DerivationSteps(anbn, "aabb")
	require.True(t, ok)
	require.Equal(t, trace.Rules, rules)

	trace, ok = Derive(anbn, "abb")
	require.False(t, ok)
	require.Empty(t, trace.Forms)
	require.Empty(t, trace.Rules)
}
