package cfg

import (
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pingcap/errors"
)

// Surface syntax, one rule per line:
//
//	S -> a S b | ε
//	A -> epsilon
//
// Uppercase-initial symbols are non-terminals, everything else is a
// terminal. The lhs of the first rule is the start symbol.

type grammarText struct {
	Rules []*ruleLine `parser:"EOL* @@*"`
}

type ruleLine struct {
	Pos lexer.Position

	LHS          string         `parser:"@Symbol Arrow"`
	Alternatives []*alternative `parser:"@@ (Pipe @@)* EOL*"`
}

type alternative struct {
	Symbols []string `parser:"@Symbol+"`
}

var grammarLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Arrow", Pattern: `->|→`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Symbol", Pattern: `[^\s|#]+`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var grammarParser = participle.MustBuild[grammarText](
	participle.Lexer(grammarLexer),
	participle.Elide("Whitespace", "Comment"),
)

type parseOptions struct {
	compact bool
}

type ParseOption func(*parseOptions)

// CompactSymbols makes every character of a rhs token its own symbol, so
// "S -> aSb" reads as S -> a S b.
func CompactSymbols() ParseOption {
	return func(o *parseOptions) { o.compact = true }
}

func isEpsilon(tok string) bool { return tok == "ε" || tok == "epsilon" }

func isNonTerminalName(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

// Parse reads a grammar from its textual form.
func Parse(text string, opts ...ParseOption) (*Grammar, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	ast, err := grammarParser.ParseString("grammar", text)
	if err != nil {
		return nil, errors.Annotate(ErrSyntax, err.Error())
	}
	if len(ast.Rules) == 0 {
		return nil, errors.Annotate(ErrSyntax, "no productions")
	}

	var (
		nonTerminals []NonTerminal
		terminals    []Terminal
		productions  []Production
	)
	symbol := func(tok string) Symbol {
		if isNonTerminalName(tok) {
			nonTerminals = append(nonTerminals, NonTerminal(tok))
			return NonTerminal(tok).Symbol()
		}
		terminals = append(terminals, Terminal(tok))
		return Terminal(tok).Symbol()
	}

	for _, rule := range ast.Rules {
		if !isNonTerminalName(rule.LHS) {
			return nil, errors.Annotatef(ErrSyntax, "%s: lhs %q must start with an uppercase letter", rule.Pos, rule.LHS)
		}
		lhs := NonTerminal(rule.LHS)
		nonTerminals = append(nonTerminals, lhs)
		for _, alt := range rule.Alternatives {
			var rhs []Symbol
			for _, tok := range alt.Symbols {
				if isEpsilon(tok) {
					continue
				}
				if !o.compact {
					rhs = append(rhs, symbol(tok))
					continue
				}
				for _, r := range tok {
					rhs = append(rhs, symbol(string(r)))
				}
			}
			productions = append(productions, NewProduction(lhs, rhs...))
		}
	}
	g, err := New(NonTerminal(ast.Rules[0].LHS), nonTerminals, terminals, productions)
	return g, errors.Trace(err)
}

// MustParse is like Parse but panics on error. Meant for tests and fixed
// grammars.
func MustParse(text string, opts ...ParseOption) *Grammar {
	g, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func ParseFile(path string, opts ...ParseOption) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return Parse(string(data), opts...)
}
