package config

// Default values applied when a setting is absent from the config file,
// environment, and flags.
const (
	// DefaultDialect is used when no dialect is configured.
	DefaultDialect = "ansi"

	// DefaultOutput selects report rendering: auto picks text on a TTY
	// and json otherwise.
	DefaultOutput = "auto"

	// DefaultStateFile is the run history database path, relative to the
	// project root.
	DefaultStateFile = ".sqlweave/state.db"

	// DefaultServeHost and DefaultServePort are the HTTP server bind
	// address.
	DefaultServeHost = "127.0.0.1"
	DefaultServePort = 8765
)

// ProjectDefaults returns the koanf seed values for project settings.
func ProjectDefaults() map[string]any {
	return map[string]any{
		"dialect":         DefaultDialect,
		"capture_implied": true,
	}
}

// DefaultProject returns a project configuration with defaults applied.
func DefaultProject() *ProjectConfig {
	p := &ProjectConfig{CaptureImplied: true}
	ApplyDefaults(p)
	return p
}

// ApplyDefaults fills unset fields of p with default values. CaptureImplied
// is left alone because false is a deliberate choice; loaders seed it true
// via ProjectDefaults before unmarshalling.
func ApplyDefaults(p *ProjectConfig) {
	if p == nil {
		return
	}
	if p.Dialect == "" {
		p.Dialect = DefaultDialect
	}
}
