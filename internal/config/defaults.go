package config

const (
	defaultWorkspaceDir          = "plugins"
	defaultOutputDir             = "target/bundled"
	defaultLogDir                = "~/.local/share/deckhand/logs"
	defaultBundlerBinary         = "cargo"
	defaultBundleExtension       = ".clap"
	defaultBundlerTimeoutSeconds = 900
	defaultHistoryPath           = "~/.local/share/deckhand/history.db"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultBundlerArgs() []string {
	return []string{"xtask", "bundle"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Bundler: Bundler{
			Binary:         defaultBundlerBinary,
			Args:           defaultBundlerArgs(),
			Extension:      defaultBundleExtension,
			Release:        true,
			TimeoutSeconds: defaultBundlerTimeoutSeconds,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
