package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/sqlweave-labs/sqlweave/internal/config"
)

// loggerKey is used to store the logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// flagKeys maps CLI flag names to config keys. Only flags listed here flow
// into the config; command-local flags such as --watch stay out of it.
var flagKeys = map[string]string{
	"dialect":     "dialect",
	"schema":      "schema_files",
	"search-path": "search_path",
	"output":      "output",
	"state":       "state_path",
	"verbose":     "verbose",
	"host":        "serve.host",
	"port":        "serve.port",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sqlweave.yaml in root > sqlweave.yml in root.
func findConfigFile(explicit, root string) string {
	if explicit != "" {
		return explicit
	}
	return sharedcfg.FindConfigFile(root)
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for sqlweave.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(filepath.Clean(cfgFile))
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := sharedcfg.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Track paths that were explicitly provided as flags (relative to CWD).
	// These are converted to absolute paths before the normal resolution
	// step, which anchors file paths to the project root instead.
	var flagStatePath string
	var flagSchemaFiles []string
	if flags != nil {
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagStatePath, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("schema") {
			values, _ := flags.GetStringSlice("schema")
			for _, v := range values {
				if v == "" {
					continue
				}
				abs, err := filepath.Abs(v)
				if err != nil {
					abs = filepath.Clean(v)
				}
				flagSchemaFiles = append(flagSchemaFiles, abs)
			}
		}
	}

	// 1. Load defaults
	defaults := sharedcfg.ProjectDefaults()
	defaults["output"] = DefaultOutput
	defaults["state_path"] = DefaultStateFile
	defaults["history"] = true
	defaults["verbose"] = false
	defaults["serve.host"] = sharedcfg.DefaultServeHost
	defaults["serve.port"] = sharedcfg.DefaultServePort
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file. The file is decoded strictly on its
	// own first so typoed keys are reported against the file, then merged.
	configFileUsed = findConfigFile(cfgFile, projectRoot)
	if configFileUsed != "" {
		fileK := koanf.New(".")
		if err := fileK.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		var fileCfg Config
		if err := fileK.UnmarshalWithConf("", &fileCfg, sharedcfg.UnmarshalConf(&fileCfg, true)); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configFileUsed, err)
		}
		if err := k.Merge(fileK); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SQLWEAVE_ prefix)
	// Transform: SQLWEAVE_SEARCH_PATH -> search_path
	if err := k.Load(env.Provider("SQLWEAVE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SQLWEAVE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// The --no-history flag inverts into the history key.
			if f.Name == "no-history" {
				disabled, _ := flags.GetBool("no-history")
				return "history", !disabled
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct. Lenient here: stray SQLWEAVE_ env
	// vars must not fail the load, file keys were already checked.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, sharedcfg.UnmarshalConf(&cfg, false)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths against it. Paths
	// given as flags keep their CWD-relative meaning via the absolute
	// paths computed above.
	cfg.ProjectRoot = projectRoot
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	if len(flagSchemaFiles) > 0 {
		cfg.SchemaFiles = flagSchemaFiles
	} else {
		for i, p := range cfg.SchemaFiles {
			cfg.SchemaFiles[i] = resolvePathRelativeTo(p, projectRoot)
		}
	}

	// 7. Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
