package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/config"
	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewEngine builds a fresh analysis engine from the command configuration.
// Schema files are checked first so a bad path fails with a hint instead
// of a loader error. Engines hold no external resources, so there is
// nothing to close.
func (cc *CommandContext) NewEngine() (*engine.Engine, error) {
	if err := cc.Cfg.ValidateSchemaFiles(); err != nil {
		return nil, err
	}
	return engine.New(cc.Cfg.EngineConfig(cc.Logger))
}

// NewEngineSession is NewEngine for commands that accumulate state across
// inputs, such as the REPL.
func (cc *CommandContext) NewEngineSession() (*engine.Session, error) {
	if err := cc.Cfg.ValidateSchemaFiles(); err != nil {
		return nil, err
	}
	return engine.NewSession(cc.Cfg.EngineConfig(cc.Logger))
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only touch configuration or stored state.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// rendererFor returns the command renderer, letting a command-local format
// flag override the configured output mode.
func (cc *CommandContext) rendererFor(cmd *cobra.Command, format string) *output.Renderer {
	if format == "" {
		return cc.Renderer
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables with defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Dialect:        getEnvOrDefault("SQLWEAVE_DIALECT", config.DefaultDialect),
		CaptureImplied: true,
		Output:         getEnvOrDefault("SQLWEAVE_OUTPUT", config.DefaultOutput),
		StatePath:      getEnvOrDefault("SQLWEAVE_STATE_PATH", config.DefaultStateFile),
		History:        true,
		Verbose:        os.Getenv("SQLWEAVE_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStateStore opens the run history database, creating its directory
// and applying pending migrations.
func openStateStore(cfg *config.Config, logger *slog.Logger) (*state.Store, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	st := state.NewStore(logger)
	if err := st.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
