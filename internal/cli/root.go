// Package cli provides the command-line interface for SQLWeave.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/commands"
	"github.com/sqlweave-labs/sqlweave/internal/cli/config"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"

	// Register every built-in dialect.
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/ansi"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/databricks"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/duckdb"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/postgres"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/snowflake"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/sqlserver"
)

var cfgFile string

// Stamped through -ldflags on release builds.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd assembles the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlweave",
		Short: "SQLWeave - SQL data lineage engine",
		Long: `SQLWeave parses SQL scripts and builds multi-level data lineage:
which relations feed which, and how every output column derives from
source columns, across statements, files, and dialects.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// help and completion run without project config.
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// cmd.Flags() carries the executing command's local flags plus
			// the inherited persistent ones, so serve's --port lands in
			// config the same way the global --dialect does.
			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if cfg.Verbose {
				if path := config.GetConfigFileUsed(); path != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", path)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlweave.yaml)")
	rootCmd.PersistentFlags().String("dialect", "", "SQL dialect to analyze with")
	rootCmd.PersistentFlags().StringSlice("schema", nil, "Schema file to import (repeatable)")
	rootCmd.PersistentFlags().StringSlice("search-path", nil, "Schemas to resolve unqualified tables against (repeatable)")
	rootCmd.PersistentFlags().String("state", "", "Path to the run history database")
	rootCmd.PersistentFlags().Bool("no-history", false, "Do not record runs in the state database")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// --dialect completes from the registry rather than a fixed list.
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewLineageCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewRunsCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewServeCommand(Version))
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command with signal-aware cancellation, so serve
// and watch loops shut down cleanly on Ctrl-C.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for SQLWeave.

To load completions:

Bash:
  $ source <(sqlweave completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlweave completion bash > /etc/bash_completion.d/sqlweave
  # macOS:
  $ sqlweave completion bash > $(brew --prefix)/etc/bash_completion.d/sqlweave

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlweave completion zsh > "${fpath[1]}/_sqlweave"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sqlweave completion fish | source

  # To load completions for each session, execute once:
  $ sqlweave completion fish > ~/.config/fish/completions/sqlweave.fish

PowerShell:
  PS> sqlweave completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sqlweave completion powershell > sqlweave.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
