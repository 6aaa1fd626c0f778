package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/smartscore/internal/config"
	"github.com/okian/smartscore/pkg/logger"
	"github.com/okian/smartscore/pkg/metrics"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the loaded configuration to subcommands.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// Use fmt for errors since the logger may not be configured yet
		fmt.Fprintln(os.Stderr, "smartscore:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "smartscore",
		Short:         "Weight-space search tooling for the player scoring model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if dump, _ := cmd.Flags().GetBool("metrics"); dump {
				return metrics.WriteText(cmd.ErrOrStderr(), metrics.GetRegistry())
			}
			return nil
		},
	}

	root.PersistentFlags().Int("step", 0, "lattice step in percent (overrides step_percent)")
	root.PersistentFlags().Int("workers", 0, "worker count (overrides worker_count)")
	root.PersistentFlags().String("log-level", "", "log level (overrides log_level)")
	root.PersistentFlags().Bool("metrics", false, "write collected metrics to stderr on exit")

	root.AddCommand(c.censusCmd())
	root.AddCommand(c.compareCmd())
	root.AddCommand(c.selftestCmd())
	root.AddCommand(versionCmd())
	return root
}

// setup loads configuration (defaults -> optional file -> env -> flags) and
// configures the global logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("step") {
		cfg.StepPercent, _ = flags.GetInt("step")
	}
	if flags.Changed("workers") {
		cfg.WorkerCount, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr; stdout carries command output.
	if err := logger.InitWithWriter(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	c.cfg = cfg
	c.log = logger.Named("cli")
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "smartscore", version)
		},
	}
}
