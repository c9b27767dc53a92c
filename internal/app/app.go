package app

import (
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
	"github.com/clk-66/spectrus-desktop/internal/output"
	"github.com/clk-66/spectrus-desktop/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./spectrus-desktop.yaml or $HOME/.config/spectrus-desktop/spectrus-desktop.yaml"},
		{Name: "format", Shorthand: "f", Env: "SPECTRUS_FORMAT", Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "log-level", Env: "SPECTRUS_LOG_LEVEL", Default: "info", Description: "Log level on stderr: debug|info|warn|error"},
		{Name: "keychain-backend", Env: "SPECTRUS_KEYCHAIN_BACKEND", Default: keychain.BackendAuto, Description: "Credential store: auto|keyring|macos-keychain|memory"},
	}
	withFlags := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		out := append([]spec.FlagSpec(nil), globalFlags...)
		return append(out, extra...)
	}
	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Namespace:     keychain.Namespace,
		Commands: []spec.CommandSpec{
			{
				Name:        "spec",
				Description: "Export tool spec for AI/agents",
				Flags:       globalFlags,
			},
			{
				Name:        "version",
				Description: "Print version information",
				Flags:       globalFlags,
			},
			{
				Name:        "keychain set",
				Description: "Store or overwrite a secret; value is prompted for when omitted",
				Flags:       globalFlags,
			},
			{
				Name:        "keychain get",
				Description: "Read a secret; data.value is null when absent",
				Flags:       globalFlags,
			},
			{
				Name:        "keychain delete",
				Description: "Delete a secret; deleting an absent key succeeds",
				Flags:       globalFlags,
			},
			{
				Name:        "open",
				Description: "Forward deep-link URIs to the running instance; on macOS the app shell calls it for each kAEGetURL Apple Event",
				Flags:       withFlags(spec.FlagSpec{Name: "endpoint", Default: "", Description: "Activation endpoint (default: platform default)"}),
			},
			{
				Name:        "register",
				Description: "Register the URI scheme handler with the OS",
				Flags:       withFlags(spec.FlagSpec{Name: "scheme", Default: "spectrus", Description: "URI scheme to register"}),
			},
			{
				Name:        "serve",
				Description: "Run the deep-link relay and the UI bridge",
				Flags: withFlags(
					spec.FlagSpec{Name: "transport", Env: "SPECTRUS_BRIDGE_TRANSPORT", Default: "stdio", Description: "Bridge transport: stdio|streamable_http"},
					spec.FlagSpec{Name: "http-addr", Env: "SPECTRUS_BRIDGE_HTTP_ADDR", Default: "127.0.0.1:8787", Description: "Streamable HTTP listen address"},
					spec.FlagSpec{Name: "http-auth-token", Env: "SPECTRUS_BRIDGE_HTTP_AUTH_TOKEN", Default: "", Description: "Streamable HTTP bearer token"},
					spec.FlagSpec{Name: "no-register", Default: "false", Description: "Skip URI scheme registration on startup"},
				),
			},
			{
				Name:        "config show",
				Description: "Show the resolved configuration",
				Flags:       globalFlags,
			},
		},
		ErrorCodes: errors.AllCodes(),
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
