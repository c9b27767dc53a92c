package config

import (
	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// Resolve 合并 format/log level/keychain backend：CLI > ENV > Config > 默认值。
func Resolve(opts Options) (Resolved, *errors.XError) {
	// 1) 读取配置文件（如有），已填充默认值
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// 2) 合并：--flag > SPECTRUS_* > 配置文件
	format := pick(opts.CLIFormatSet, opts.CLIFormat, opts.EnvFormat, cfg.Format)
	logLevel := pick(opts.CLILogLevelSet, opts.CLILogLevel, opts.EnvLogLevel, cfg.LogLevel)
	backend := pick(opts.CLIBackendSet, opts.CLIKeychainBackend, opts.EnvKeychainBackend, cfg.Keychain.Backend)

	cfg.Format = format
	cfg.LogLevel = logLevel
	cfg.Keychain.Backend = backend

	return Resolved{
		ConfigPath:      cfgPath,
		Format:          format,
		LogLevel:        logLevel,
		KeychainBackend: backend,
		File:            cfg,
	}, nil
}

func pick(cliSet bool, cli, env, fromConfig string) string {
	if cliSet {
		return cli
	}
	if env != "" {
		return env
	}
	return fromConfig
}
