package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the standard config file name.
const ConfigFileName = "sqlweave.yaml"

// ConfigFileNameAlt is the alternative config file name.
const ConfigFileNameAlt = "sqlweave.yml"

// FindConfigFile looks for a config file in the given directory.
// Returns the full path if found, empty string otherwise.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir looking for a config file.
// Returns the directory containing the config file, or empty string if
// none was found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadFromDir loads project configuration from a directory. Returns
// (nil, nil) when the directory has no config file.
func LoadFromDir(dir string) (*ProjectConfig, error) {
	path := FindConfigFile(dir)
	if path == "" {
		return nil, nil
	}
	return LoadFile(path)
}

// LoadFile loads project configuration from a specific config file. The
// decode is lenient: keys outside ProjectConfig, such as CLI output
// settings in a shared sqlweave.yaml, are ignored here.
func LoadFile(path string) (*ProjectConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(ProjectDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	cfg := &ProjectConfig{}
	if err := k.UnmarshalWithConf("", cfg, UnmarshalConf(cfg, false)); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	ApplyDefaults(cfg)
	return cfg, nil
}
