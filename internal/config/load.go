package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

const fileName = "spectrus-desktop.yaml"

func defaultConfigPaths(workDir, homeDir string) []string {
	paths := make([]string, 0, 2)
	if workDir != "" {
		paths = append(paths, filepath.Join(workDir, fileName))
	}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ".config", "spectrus-desktop", fileName))
	}
	return paths
}

func readFile(path string) (File, *errors.XError) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.New(errors.CodeCfgNotFound, "config file not found", map[string]any{"path": path})
		}
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "failed to read config file", map[string]any{"path": path}, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "invalid config file", map[string]any{"path": path}, err)
	}
	return f, nil
}

// LoadConfig 加载配置文件，返回完整配置（已填充默认值）和配置文件路径。
// 未找到任何默认路径下的配置时返回默认配置与空路径。
func LoadConfig(opts Options) (File, string, *errors.XError) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, _ := os.Getwd()
		workDir = wd
	}
	if opts.HomeDir == "" {
		if hd, err := os.UserHomeDir(); err == nil {
			opts.HomeDir = hd
		}
	}

	if opts.ConfigPath != "" {
		abs := opts.ConfigPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		f, xe := readFile(abs)
		if xe != nil {
			return File{}, "", xe
		}
		return applyDefaults(f), abs, nil
	}

	for _, p := range defaultConfigPaths(workDir, opts.HomeDir) {
		f, xe := readFile(p)
		if xe != nil {
			if xe.Code == errors.CodeCfgNotFound {
				continue
			}
			return File{}, "", xe
		}
		return applyDefaults(f), p, nil
	}

	return applyDefaults(File{}), "", nil
}

func applyDefaults(f File) File {
	if f.Format == "" {
		f.Format = DefaultFormat
	}
	if f.LogLevel == "" {
		f.LogLevel = DefaultLogLevel
	}
	if f.Keychain.Backend == "" {
		f.Keychain.Backend = DefaultBackend
	}
	if f.DeepLink.Scheme == "" {
		f.DeepLink.Scheme = DefaultScheme
	}
	if f.Bridge.Transport == "" {
		f.Bridge.Transport = DefaultTransport
	}
	if f.Bridge.HTTP.Addr == "" {
		f.Bridge.HTTP.Addr = DefaultHTTPAddr
	}
	return f
}
