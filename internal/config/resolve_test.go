package config

import (
	"path/filepath"
	"testing"
)

func TestResolve_Defaults(t *testing.T) {
	tmp := t.TempDir()
	r, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if r.Format != "auto" || r.LogLevel != "info" || r.KeychainBackend != "auto" {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if r.ConfigPath != "" {
		t.Fatalf("expected no config path, got %q", r.ConfigPath)
	}
}

func TestResolve_Precedence(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, filepath.Join(tmp, "spectrus-desktop.yaml"), `format: yaml
log_level: warn
keychain:
  backend: keyring
`)

	cases := []struct {
		name        string
		opts        Options
		wantFormat  string
		wantLevel   string
		wantBackend string
	}{
		{
			name:        "config only",
			opts:        Options{},
			wantFormat:  "yaml",
			wantLevel:   "warn",
			wantBackend: "keyring",
		},
		{
			name:        "env over config",
			opts:        Options{EnvFormat: "json", EnvLogLevel: "debug", EnvKeychainBackend: "memory"},
			wantFormat:  "json",
			wantLevel:   "debug",
			wantBackend: "memory",
		},
		{
			name: "cli over env",
			opts: Options{
				EnvFormat: "json", CLIFormat: "csv", CLIFormatSet: true,
				EnvLogLevel: "debug", CLILogLevel: "error", CLILogLevelSet: true,
				EnvKeychainBackend: "memory", CLIKeychainBackend: "macos-keychain", CLIBackendSet: true,
			},
			wantFormat:  "csv",
			wantLevel:   "error",
			wantBackend: "macos-keychain",
		},
		{
			name:        "cli value ignored when not set",
			opts:        Options{CLIFormat: "table"},
			wantFormat:  "yaml",
			wantLevel:   "warn",
			wantBackend: "keyring",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.WorkDir = tmp
			tc.opts.HomeDir = tmp
			r, xe := Resolve(tc.opts)
			if xe != nil {
				t.Fatalf("unexpected error: %v", xe)
			}
			if r.Format != tc.wantFormat {
				t.Errorf("format=%q want %q", r.Format, tc.wantFormat)
			}
			if r.LogLevel != tc.wantLevel {
				t.Errorf("log_level=%q want %q", r.LogLevel, tc.wantLevel)
			}
			if r.KeychainBackend != tc.wantBackend {
				t.Errorf("backend=%q want %q", r.KeychainBackend, tc.wantBackend)
			}
			if r.File.Keychain.Backend != tc.wantBackend {
				t.Errorf("File.Keychain.Backend=%q want %q", r.File.Keychain.Backend, tc.wantBackend)
			}
		})
	}
}

func TestResolve_MissingExplicitConfig(t *testing.T) {
	tmp := t.TempDir()
	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, ConfigPath: "missing.yaml"})
	if xe == nil || xe.Code != "SPECTRUS_CFG_NOT_FOUND" {
		t.Fatalf("expected SPECTRUS_CFG_NOT_FOUND, got %v", xe)
	}
}
