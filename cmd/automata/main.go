package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"automata/internal/logutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		logutil.BgLogger().Error("automata failed", zap.Error(err))
		os.Exit(1) // nolint:gocritic
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "automata",
		Short:             "automata normalizes context-free grammars and runs finite automata.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		a.newCNFCommand(),
		a.newAcceptCommand(),
		a.newCYKCommand(),
		a.newDeriveCommand(),
		a.newGenerateCommand(),
		a.newDrawCommand(),
		a.newDFACommand(),
	)
	return rootCmd
}
