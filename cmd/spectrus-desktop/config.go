package main

import (
	"github.com/spf13/cobra"

	"github.com/clk-66/spectrus-desktop/internal/config"
	"github.com/clk-66/spectrus-desktop/internal/deeplink"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
	"github.com/clk-66/spectrus-desktop/internal/output"
)

// NewConfigCommand creates the config command group
func NewConfigCommand(w *output.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(newConfigShowCommand(w))
	return configCmd
}

// newConfigShowCommand creates the config show command
func newConfigShowCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			return w.WriteOK(format, configView(GlobalConfig.Resolved))
		},
	}
}

// configView 展示合并后的配置；明文 token 打码，keyring 引用原样显示。
func configView(r config.Resolved) map[string]any {
	f := r.File
	endpoint := f.DeepLink.Endpoint
	if endpoint == "" {
		endpoint = deeplink.DefaultEndpoint()
	}
	token := f.Bridge.HTTP.AuthToken
	if token != "" && !keychain.IsRef(token) {
		token = "***"
	}
	return map[string]any{
		"config_path": r.ConfigPath,
		"format":      r.Format,
		"log_level":   r.LogLevel,
		"keychain": map[string]any{
			"namespace": keychain.Namespace,
			"backend":   r.KeychainBackend,
			"audit_log": f.Keychain.AuditLog,
		},
		"deep_link": map[string]any{
			"scheme":   f.DeepLink.Scheme,
			"endpoint": endpoint,
			"register": f.DeepLink.ShouldRegister(),
			"event":    deeplink.EventName,
		},
		"bridge": map[string]any{
			"transport": f.Bridge.Transport,
			"http": map[string]any{
				"addr":                  f.Bridge.HTTP.Addr,
				"auth_token":            token,
				"allow_plaintext_token": f.Bridge.HTTP.AllowPlaintextToken,
			},
		},
	}
}
