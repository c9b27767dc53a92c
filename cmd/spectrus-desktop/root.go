package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clk-66/spectrus-desktop/internal/config"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
	"github.com/clk-66/spectrus-desktop/internal/log"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	LogLevelStr string
	BackendStr  string
	Resolved    config.Resolved
	Logger      *slog.Logger
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// logger returns the configured logger, or a discarding one before the
// root command has run.
func logger() *slog.Logger {
	if GlobalConfig.Logger == nil {
		return log.Discard()
	}
	return GlobalConfig.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "spectrus-desktop",
		Short:         "Native helper for the Spectrus desktop client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:         GlobalConfig.ConfigStr,
				CLIFormat:          GlobalConfig.FormatStr,
				CLIFormatSet:       cmd.Flags().Changed("format"),
				CLILogLevel:        GlobalConfig.LogLevelStr,
				CLILogLevelSet:     cmd.Flags().Changed("log-level"),
				CLIKeychainBackend: GlobalConfig.BackendStr,
				CLIBackendSet:      cmd.Flags().Changed("keychain-backend"),
				EnvFormat:          os.Getenv("SPECTRUS_FORMAT"),
				EnvLogLevel:        os.Getenv("SPECTRUS_LOG_LEVEL"),
				EnvKeychainBackend: os.Getenv("SPECTRUS_KEYCHAIN_BACKEND"),
			})
			if xe != nil {
				return xe
			}
			GlobalConfig.Resolved = r
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.LogLevelStr = r.LogLevel
			GlobalConfig.BackendStr = r.KeychainBackend

			level, xe := log.ParseLevel(r.LogLevel)
			if xe != nil {
				return xe
			}
			// stdout 只输出数据（serve 时是 MCP stdio），日志一律写 stderr
			GlobalConfig.Logger = log.NewWithLevel(os.Stderr, level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./spectrus-desktop.yaml or $HOME/.config/spectrus-desktop/spectrus-desktop.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "info", "Log level on stderr: debug|info|warn|error")
	root.PersistentFlags().StringVar(&GlobalConfig.BackendStr, "keychain-backend", keychain.BackendAuto, "Credential store: auto|keyring|macos-keychain|memory")

	return root
}
