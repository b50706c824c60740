package cfg

import "github.com/pingcap/errors"

// Use errors.Cause(err) to compare against these.
var (
	// ErrInvalidGrammar is a configuration error: the grammar references
	// undeclared symbols or its start symbol is not a declared non-terminal.
	ErrInvalidGrammar = errors.New("invalid grammar")
	// ErrNotCNF is returned by CNF-only algorithms given any other grammar.
	ErrNotCNF = errors.New("grammar is not in Chomsky normal form")
	// ErrSyntax is returned when grammar text cannot be parsed.
	ErrSyntax = errors.New("grammar syntax error")
)
