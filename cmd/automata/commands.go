package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"automata/internal/automaton"
	"automata/internal/cfg"
	"automata/internal/draw"
)

var (
	acceptColor = color.New(color.FgGreen, color.Bold)
	rejectColor = color.New(color.FgRed, color.Bold)
)

func verdict(ok bool) string {
	if ok {
		return acceptColor.Sprint("accept")
	}
	return rejectColor.Sprint("reject")
}

func displayWord(w string) string {
	if w == "" {
		return "ε"
	}
	return w
}

// grammarDoc is the YAML shape of a grammar.
type grammarDoc struct {
	Start        string   `yaml:"start"`
	NonTerminals []string `yaml:"non-terminals"`
	Terminals    []string `yaml:"terminals"`
	Productions  []string `yaml:"productions"`
}

func newGrammarDoc(g *cfg.Grammar) grammarDoc {
	doc := grammarDoc{Start: string(g.Start())}
	for _, a := range g.NonTerminals() {
		doc.NonTerminals = append(doc.NonTerminals, string(a))
	}
	for _, t := range g.Terminals() {
		doc.Terminals = append(doc.Terminals, string(t))
	}
	for _, p := range g.Productions() {
		doc.Productions = append(doc.Productions, p.String())
	}
	return doc
}

func writeGrammar(w io.Writer, g *cfg.Grammar, format string) error {
	switch format {
	case "", "text":
		_, err := fmt.Fprint(w, g.String())
		return errors.Trace(err)
	case "yaml":
		out, err := yaml.Marshal(newGrammarDoc(g))
		if err != nil {
			return errors.Trace(err)
		}
		_, err = w.Write(out)
		return errors.Trace(err)
	default:
		return errors.Errorf("unknown format %q, want text or yaml", format)
	}
}

func (a *app) newCNFCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cnf FILE",
		Short: "Convert a grammar to Chomsky normal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			cnf, err := cfg.ToCNF(g)
			if err != nil {
				return err
			}
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return errors.Trace(err)
			}
			return writeGrammar(cmd.OutOrStdout(), cnf, format)
		},
	}
	cmd.Flags().String(flagFormat, "text", "output format: text or yaml")
	return cmd
}

func (a *app) newAcceptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept FILE [WORD...]",
		Short: "Check words against a grammar with a bounded breadth-first search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			words := args[1:]
			if len(words) == 0 {
				words = []string{""}
			}
			for _, w := range words {
				opts, err := a.searchOptions(cmd.Flags(), len(w))
				if err != nil {
					return err
				}
				cmd.Printf("%s\t%s\n", displayWord(w), verdict(cfg.AcceptString(g, w, opts...)))
			}
			return nil
		},
	}
	addSearchFlags(cmd.Flags())
	return cmd
}

// renderCYKTable lays the table out as a pyramid: the bottom row holds
// the single-symbol spans and the top row the whole input.
func renderCYKTable(t *cfg.CYKTable, input string) string {
	tw := table.NewWriter()
	header := table.Row{"len"}
	for i := 0; i < t.Len(); i++ {
		header = append(header, strconv.Itoa(i))
	}
	tw.AppendHeader(header)
	for l := t.Len(); l >= 1; l-- {
		row := table.Row{l}
		for i := 0; i+l <= t.Len(); i++ {
			names := make([]string, 0)
			for _, n := range t.Cell(i, i+l-1) {
				names = append(names, string(n))
			}
			row = append(row, "{"+strings.Join(names, ",")+"}")
		}
		tw.AppendRow(row)
	}
	if t.Accepted() {
		tw.SetCaption("%q is accepted", input)
	} else {
		tw.SetCaption("%q is rejected", input)
		tw.SetRowPainter(func(row table.Row) text.Colors {
			if row[0] == t.Len() {
				return text.Colors{text.FgRed}
			}
			return nil
		})
	}
	return tw.Render()
}

func (a *app) newCYKCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cyk FILE WORD",
		Short: "Normalize a grammar and run the CYK recognizer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			cnf, err := cfg.ToCNF(g)
			if err != nil {
				return err
			}
			t, err := cfg.CYK(cnf, args[1])
			if err != nil {
				return err
			}
			showTable, err := cmd.Flags().GetBool(flagTable)
			if err != nil {
				return errors.Trace(err)
			}
			if showTable && t.Len() > 0 {
				cmd.Println(renderCYKTable(t, args[1]))
			}
			cmd.Printf("%s\t%s\n", displayWord(args[1]), verdict(t.Accepted()))
			return nil
		},
	}
	cmd.Flags().Bool(flagTable, false, "print the CYK table")
	return cmd
}

func (a *app) newDeriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive FILE WORD",
		Short: "Print the shortest derivation found by breadth-first search",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			opts, err := a.searchOptions(cmd.Flags(), len(args[1]))
			if err != nil {
				return err
			}
			trace, ok := cfg.Derive(g, args[1], opts...)
			if !ok {
				cmd.Printf("%s\t%s\n", displayWord(args[1]), verdict(false))
				return nil
			}
			for i, s := range trace.Forms {
				if i == 0 {
					cmd.Println(displayWord(s))
					continue
				}
				cmd.Printf("=> %s\t[%s]\n", displayWord(s), trace.Rules[i-1].Rule)
			}
			return nil
		},
	}
	addSearchFlags(cmd.Flags())
	return cmd
}

func (a *app) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate FILE MAXLEN",
		Short: "List the words of a grammar up to a length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			maxLen, err := strconv.Atoi(args[1])
			if err != nil || maxLen < 0 {
				return errors.Errorf("MAXLEN must be a non-negative integer, got %q", args[1])
			}
			opts, err := a.searchOptions(cmd.Flags(), maxLen)
			if err != nil {
				return err
			}
			for w := range cfg.GenerateStrings(g, maxLen, opts...) {
				cmd.Println(displayWord(w))
			}
			return nil
		},
	}
	addSearchFlags(cmd.Flags())
	return cmd
}

func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *app) drawer(cmd *cobra.Command) (*draw.Drawer, error) {
	c := a.cfg.Draw
	if cmd.Flags().Changed(flagOutDir) {
		dir, err := cmd.Flags().GetString(flagOutDir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		c.OutputDir = dir
	}
	if cmd.Flags().Changed(flagFormat) {
		format, err := cmd.Flags().GetString(flagFormat)
		if err != nil {
			return nil, errors.Trace(err)
		}
		c.Format = format
	}
	return draw.New(afero.NewOsFs(), c), nil
}

func printPaths(cmd *cobra.Command, paths []string) {
	for _, p := range paths {
		cmd.Printf("wrote %s\n", p)
	}
}

func (a *app) newDrawCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Write Graphviz drawings of grammars and automata",
	}
	cmd.PersistentFlags().String(flagOutDir, "", "output directory, overrides draw.output-dir")
	cmd.PersistentFlags().String(flagFormat, "", "image format passed to dot, e.g. png or svg")

	grammarCmd := &cobra.Command{
		Use:   "grammar FILE",
		Short: "Draw the non-terminal dependency graph of a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.parseGrammar(args[0])
			if err != nil {
				return err
			}
			toCNF, err := cmd.Flags().GetBool(flagCNF)
			if err != nil {
				return errors.Trace(err)
			}
			if toCNF {
				if g, err = cfg.ToCNF(g); err != nil {
					return err
				}
			}
			d, err := a.drawer(cmd)
			if err != nil {
				return err
			}
			paths, err := d.DrawGrammar(cmd.Context(), outputName(args[0]), g)
			if err != nil {
				return err
			}
			printPaths(cmd, paths)
			return nil
		},
	}
	grammarCmd.Flags().Bool(flagCNF, false, "draw the grammar after conversion to Chomsky normal form")

	machineCmd := &cobra.Command{
		Use:   "machine FILE",
		Short: "Draw a finite, pushdown or Turing machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, minimize, err := machineKind(cmd.Flags())
			if err != nil {
				return err
			}
			m, err := loadMachine(kind, args[0], minimize)
			if err != nil {
				return err
			}
			d, err := a.drawer(cmd)
			if err != nil {
				return err
			}
			paths, err := d.DrawMachine(cmd.Context(), outputName(args[0]), m)
			if err != nil {
				return err
			}
			printPaths(cmd, paths)
			return nil
		},
	}
	addMachineFlags(machineCmd.Flags())

	cmd.AddCommand(grammarCmd, machineCmd)
	return cmd
}

// loadMachine reads path as a machine of the given kind. minimize only
// applies to finite automata.
func loadMachine(kind, path string, minimize bool) (automaton.Machine, error) {
	switch kind {
	case kindPDA:
		p, err := automaton.LoadPDAFile(path)
		if err != nil {
			return nil, err
		}
		return p, nil
	case kindTM:
		m, err := automaton.LoadTMFile(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	n, err := automaton.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if minimize {
		return automaton.Minimize(n.DFA()), nil
	}
	return n, nil
}

func (a *app) newDFACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dfa FILE [WORD...]",
		Aliases: []string{"run"},
		Short:   "Run words through a finite, pushdown or Turing machine",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, minimize, err := machineKind(cmd.Flags())
			if err != nil {
				return err
			}
			maxSteps, err := cmd.Flags().GetInt(flagMaxSteps)
			if err != nil {
				return errors.Trace(err)
			}
			words := args[1:]
			if len(words) == 0 {
				words = []string{""}
			}
			switch kind {
			case kindPDA:
				return runPDA(cmd, args[0], words, automaton.WithMaxSteps(maxSteps))
			case kindTM:
				return runTM(cmd, args[0], words, automaton.WithMaxSteps(maxSteps))
			}
			n, err := automaton.LoadFile(args[0])
			if err != nil {
				return err
			}
			d := n.DFA()
			if minimize {
				d = automaton.Minimize(d)
			}
			cmd.Printf("states: %d\n", len(d.States()))
			for _, w := range words {
				cmd.Printf("%s\t%s\n", displayWord(w), verdict(d.Accepts(w)))
			}
			return nil
		},
	}
	addMachineFlags(cmd.Flags())
	cmd.Flags().Int(flagMaxSteps, 0, "step budget of pushdown and Turing machine runs, 0 keeps the default")
	return cmd
}

func runPDA(cmd *cobra.Command, path string, words []string, opts ...automaton.RunOption) error {
	p, err := automaton.LoadPDAFile(path)
	if err != nil {
		return err
	}
	cmd.Printf("states: %d\n", len(p.States()))
	for _, w := range words {
		cmd.Printf("%s\t%s\n", displayWord(w), verdict(p.Accepts(w, opts...)))
	}
	return nil
}

// runTM prints the verdict and the final tape of every word. A run that
// does not halt is reported and does not stop the others.
func runTM(cmd *cobra.Command, path string, words []string, opts ...automaton.RunOption) error {
	m, err := automaton.LoadTMFile(path)
	if err != nil {
		return err
	}
	cmd.Printf("states: %d\n", len(m.States()))
	for _, w := range words {
		ok, tape, err := m.Run(w, opts...)
		switch {
		case errors.Cause(err) == automaton.ErrStepLimit:
			cmd.Printf("%s\t%s\t%s\n", displayWord(w), rejectColor.Sprint("no halt"), tape)
		case err != nil:
			return err
		default:
			cmd.Printf("%s\t%s\t%s\n", displayWord(w), verdict(ok), tape)
		}
	}
	return nil
}
