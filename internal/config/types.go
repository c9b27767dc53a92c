package config

// File 表示 spectrus-desktop.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config > 默认值。
type File struct {
	Format   string         `yaml:"format"`
	LogLevel string         `yaml:"log_level"`
	Keychain KeychainConfig `yaml:"keychain"`
	DeepLink DeepLinkConfig `yaml:"deep_link"`
	Bridge   BridgeConfig   `yaml:"bridge"`
}

// KeychainConfig 选择凭据存储后端。namespace 固定，不可配置。
type KeychainConfig struct {
	Backend  string `yaml:"backend"`   // auto | keyring | macos-keychain | memory
	AuditLog string `yaml:"audit_log"` // 为空则不记录审计日志
}

type DeepLinkConfig struct {
	Scheme   string `yaml:"scheme"`
	Endpoint string `yaml:"endpoint"` // unix socket 路径或 named pipe；为空使用平台默认
	// Register 为 nil 表示未设置（默认 true）。
	Register *bool `yaml:"register"`
}

// ShouldRegister 返回是否在启动时向 OS 注册 URI scheme。
func (d DeepLinkConfig) ShouldRegister() bool {
	return d.Register == nil || *d.Register
}

type BridgeConfig struct {
	Transport string     `yaml:"transport"` // stdio | streamable_http
	HTTP      BridgeHTTP `yaml:"http"`
}

type BridgeHTTP struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:xxx 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type Resolved struct {
	ConfigPath      string
	Format          string
	LogLevel        string
	KeychainBackend string
	File            File // 完整配置供 serve/bridge 使用
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIFormat          string
	CLIFormatSet       bool
	CLILogLevel        string
	CLILogLevelSet     bool
	CLIKeychainBackend string
	CLIBackendSet      bool

	// ENV（由调用方注入，便于测试）
	EnvFormat          string
	EnvLogLevel        string
	EnvKeychainBackend string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}

const (
	DefaultFormat    = "auto"
	DefaultLogLevel  = "info"
	DefaultBackend   = "auto"
	DefaultScheme    = "spectrus"
	DefaultTransport = "stdio"
	DefaultHTTPAddr  = "127.0.0.1:8787"
)
