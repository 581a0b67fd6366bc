package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns an independent tree
// so tests can run commands in isolation.
func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "argon2",
		Short: "Argon2 password hashing and key derivation",
		Long: `argon2 derives keys and encoded hashes with the Argon2 memory-hard
function (variants d, i and id, versions 0x10 and 0x13), verifies encoded
hashes, benchmarks the engine and writes known-answer logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newHashCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newKATCmd())
	return root
}

// Execute runs the command line args with SIGINT and SIGTERM cancelling
// the running derivation.
func Execute(ctx context.Context, args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
