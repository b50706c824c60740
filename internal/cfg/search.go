package cfg

import (
	"iter"

	"go.uber.org/zap"

	"automata/internal/logutil"
)

// The breadth-first searches below explore sentential forms, expanding every
// non-terminal occurrence of every form in the frontier once per step. They
// work on any grammar but are bounded: forms with more terminal characters
// than the target are discarded and the search gives up after a step budget
// of 3*len+10 unless overridden. The budget is a heuristic; a grammar that
// needs longer derivations gets a false negative.

type searchOptions struct {
	maxSteps int
}

type SearchOption func(*searchOptions)

// WithMaxSteps overrides the step budget. Values <= 0 keep the default.
func WithMaxSteps(n int) SearchOption {
	return func(o *searchOptions) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// DefaultMaxSteps is the step budget used for a target of length n.
func DefaultMaxSteps(n int) int { return 3*n + 10 }

func newSearchOptions(n int, opts []SearchOption) searchOptions {
	o := searchOptions{maxSteps: DefaultMaxSteps(n)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// edge records how a form was first reached.
type edge struct {
	from form
	at   int
	rule int
}

type search struct {
	g        *Grammar
	maxLen   int
	maxSteps int
	track    bool

	visited map[string]struct{}
	parent  map[string]edge
}

func newSearch(g *Grammar, maxLen, maxSteps int, track bool) *search {
	s := &search{
		g:        g,
		maxLen:   maxLen,
		maxSteps: maxSteps,
		track:    track,
		visited:  make(map[string]struct{}),
	}
	if track {
		s.parent = make(map[string]edge)
	}
	return s
}

// run walks the frontier step by step and hands every discovered form to
// visit exactly once; visit returns true to stop. run reports whether visit
// stopped it.
func (s *search) run(visit func(form) bool) bool {
	start := form{s.g.start.Symbol()}
	s.visited[start.key()] = struct{}{}
	frontier := []form{start}
	for step := 0; step < s.maxSteps; step++ {
		var next []form
		for _, f := range frontier {
			if visit(f) {
				return true
			}
			for i, sym := range f {
				if sym.IsTerminal() {
					continue
				}
				for _, j := range s.g.byLHS[sym.NonTerminal()] {
					nf := f.replace(i, s.g.productions[j].RHS)
					if nf.terminalLen() > s.maxLen {
						continue
					}
					k := nf.key()
					if _, ok := s.visited[k]; ok {
						continue
					}
					s.visited[k] = struct{}{}
					if s.track {
						s.parent[k] = edge{from: f, at: i, rule: j}
					}
					next = append(next, nf)
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		frontier = next
	}
	logutil.BgLogger().Debug("derivation search budget exhausted",
		zap.Int("max-steps", s.maxSteps),
		zap.Int("frontier", len(frontier)),
		zap.Int("visited", len(s.visited)))
	return false
}

// path returns the forms from the start symbol to f and the edges between
// them.
func (s *search) path(f form) ([]form, []edge) {
	forms := []form{f}
	var edges []edge
	for {
		e, ok := s.parent[f.key()]
		if !ok {
			break
		}
		forms = append(forms, e.from)
		edges = append(edges, e)
		f = e.from
	}
	for i, j := 0, len(forms)-1; i < j; i, j = i+1, j-1 {
		forms[i], forms[j] = forms[j], forms[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return forms, edges
}

func isTarget(f form, input string) bool {
	return !f.hasNonTerminal() && f.text() == input
}

// AcceptString reports whether g derives input within the step budget.
func AcceptString(g *Grammar, input string, opts ...SearchOption) bool {
	o := newSearchOptions(len(input), opts)
	return newSearch(g, len(input), o.maxSteps, false).run(func(f form) bool {
		return isTarget(f, input)
	})
}

func (g *Grammar) derive(input string, opts []SearchOption) ([]form, []edge, bool) {
	o := newSearchOptions(len(input), opts)
	s := newSearch(g, len(input), o.maxSteps, true)
	var found form
	ok := s.run(func(f form) bool {
		if isTarget(f, input) {
			found = f
			return true
		}
		return false
	})
	if !ok {
		return nil, nil, false
	}
	forms, edges := s.path(found)
	return forms, edges, true
}

// AppliedRule is one step of a derivation: Rule rewrote the symbol at
// position At of the previous form.
type AppliedRule struct {
	Rule Production
	At   int
}

// DerivationTrace is a derivation found by the search. Forms[0] is the
// start symbol, the last form is the input and Rules[i] rewrites Forms[i]
// into Forms[i+1].
type DerivationTrace struct {
	Forms []string
	Rules []AppliedRule
}

// Derive returns the shortest derivation of input the breadth-first search
// finds. ok is false when the budget runs out.
func Derive(g *Grammar, input string, opts ...SearchOption) (trace DerivationTrace, ok bool) {
	forms, edges, ok := g.derive(input, opts)
	if !ok {
		return DerivationTrace{}, false
	}
	trace.Forms = make([]string, len(forms))
	for i, f := range forms {
		trace.Forms[i] = f.text()
	}
	trace.Rules = make([]AppliedRule, len(edges))
	for i, e := range edges {
		trace.Rules[i] = AppliedRule{Rule: g.productions[e.rule].clone(), At: e.at}
	}
	return trace, true
}

// Derivation returns the sentential forms of the first derivation of input
// found, from the start symbol to input itself. Each form follows from the
// previous one by a single production. ok is false when the budget runs out.
func Derivation(g *Grammar, input string, opts ...SearchOption) (steps []string, ok bool) {
	trace, ok := Derive(g, input, opts...)
	return trace.Forms, ok
}

// DerivationSteps is Derivation reporting the productions applied instead of
// the intermediate forms.
func DerivationSteps(g *Grammar, input string, opts ...SearchOption) ([]AppliedRule, bool) {
	trace, ok := Derive(g, input, opts...)
	return trace.Rules, ok
}

// GenerateStrings yields every string of length <= maxLength that the
// search discovers, each once, in discovery order. Every range over the
// returned sequence runs a new search.
func GenerateStrings(g *Grammar, maxLength int, opts ...SearchOption) iter.Seq[string] {
	return func(yield func(string) bool) {
		o := newSearchOptions(maxLength, opts)
		yielded := make(map[string]struct{})
		newSearch(g, maxLength, o.maxSteps, false).run(func(f form) bool {
			if f.hasNonTerminal() {
				return false
			}
			text := f.text()
			if _, ok := yielded[text]; ok || len(text) > maxLength {
				return false
			}
			yielded[text] = struct{}{}
			return !yield(text)
		})
	}
}
