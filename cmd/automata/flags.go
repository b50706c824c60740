package main

import (
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"automata/internal/cfg"
	"automata/internal/config"
	"automata/internal/logutil"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagCompact  = "compact"
	flagMaxSteps = "max-steps"
	flagOutDir   = "output-dir"
	flagFormat   = "format"
	flagTable    = "table"
	flagMinimize = "minimize"
	flagCNF      = "cnf"
	flagKind     = "kind"
)

const (
	kindFA  = "fa"
	kindPDA = "pda"
	kindTM  = "tm"
)

// AddFlags adds the global flags shared by every subcommand.
func AddFlags(flags *pflag.FlagSet) {
	flags.StringP(flagConfig, "c", "", "path to a TOML config file")
	flags.StringP(flagLogLevel, "L", "", "log level: debug, info, warn or error")
	flags.Bool(flagCompact, false, "split unspaced rhs tokens into one symbol per character")
}

func addSearchFlags(flags *pflag.FlagSet) {
	flags.Int(flagMaxSteps, 0, "search step budget, 0 derives it from the input length")
}

func addMachineFlags(flags *pflag.FlagSet) {
	flags.String(flagKind, kindFA, "machine kind: fa, pda or tm")
	flags.Bool(flagMinimize, false, "determinize and minimize a finite automaton first")
}

// machineKind reads --kind and rejects --minimize for anything but a
// finite automaton.
func machineKind(flags *pflag.FlagSet) (kind string, minimize bool, err error) {
	if kind, err = flags.GetString(flagKind); err != nil {
		return "", false, errors.Trace(err)
	}
	switch kind {
	case kindFA, kindPDA, kindTM:
	default:
		return "", false, errors.Errorf("unknown machine kind %q, want fa, pda or tm", kind)
	}
	if minimize, err = flags.GetBool(flagMinimize); err != nil {
		return "", false, errors.Trace(err)
	}
	if minimize && kind != kindFA {
		return "", false, errors.Errorf("--%s only applies to finite automata", flagMinimize)
	}
	return kind, minimize, nil
}

// app holds what the global flags resolve to.
type app struct {
	cfg     *config.Config
	compact bool
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, err := flags.GetString(flagConfig)
	if err != nil {
		return errors.Trace(err)
	}
	a.cfg = config.Default()
	if path != "" {
		if a.cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if flags.Changed(flagLogLevel) {
		if a.cfg.Log.Level, err = flags.GetString(flagLogLevel); err != nil {
			return errors.Trace(err)
		}
	}
	if a.compact, err = flags.GetBool(flagCompact); err != nil {
		return errors.Trace(err)
	}
	return logutil.InitLogger(&a.cfg.Log)
}

func (a *app) parseGrammar(path string) (*cfg.Grammar, error) {
	var opts []cfg.ParseOption
	if a.compact {
		opts = append(opts, cfg.CompactSymbols())
	}
	return cfg.ParseFile(path, opts...)
}

// searchOptions sets the step budget for input from --max-steps, or from
// the search section of the config when the flag is not given.
func (a *app) searchOptions(flags *pflag.FlagSet, inputLen int) ([]cfg.SearchOption, error) {
	n, err := flags.GetInt(flagMaxSteps)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if n <= 0 {
		n = a.cfg.Search.MaxSteps(inputLen)
	}
	return []cfg.SearchOption{cfg.WithMaxSteps(n)}, nil
}
