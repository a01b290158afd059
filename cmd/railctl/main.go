// Command railctl is the RailSpark fleet operations CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"railspark/cmd/railctl/ui"
	"railspark/internal/usage"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	baseURL    string
	timeout    time.Duration

	// Logger
	logger *zap.Logger

	// Initialized in PersistentPreRunE
	env *appEnv
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "railctl",
	Short: "railctl - RailSpark fleet operations CLI",
	Long: `railctl talks to the RailSpark backend: trains, job cards, branding
contracts, induction plans, AI insights and CSV data uploads.

Log in first with "railctl login". The session is stored under
<workspace>/.railspark and shared by every command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		env, err = newAppEnv(envOptions{
			workspace:  workspace,
			configPath: configPath,
			baseURL:    baseURL,
			timeout:    timeout,
			logger:     logger,
			out:        cmd.OutOrStdout(),
			errOut:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		// Subcommands keep the context of their first run; rebase on this one.
		cmd.SetContext(usage.NewContext(cmd.Root().Context(), env.tracker))
		return nil
	},
}

// closeEnv runs after every command, including failed ones.
func closeEnv() {
	if env != nil {
		env.close()
		env = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func init() {
	cobra.OnFinalize(closeEnv)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.railspark/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (overrides config; 0 = config value)")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		whoamiCmd,
		trainsCmd,
		jobsCmd,
		brandingCmd,
		inductionCmd,
		chatCmd,
		dashboardCmd,
		reportCmd,
		alertsCmd,
		uploadCmd,
		usageCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorPanel(ui.DefaultStyles(), err.Error()))
		stop()
		os.Exit(1)
	}
}
