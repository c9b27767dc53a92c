package keychain

import (
	"github.com/clk-66/spectrus-desktop/internal/errors"
)

const (
	BackendAuto          = "auto"
	BackendKeyring       = "keyring"
	BackendMacOSKeychain = "macos-keychain"
	BackendMemory        = "memory"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendAuto, BackendKeyring, BackendMacOSKeychain, BackendMemory}
}

// Open 按名称选择后端；空串等同 auto（即 keyring）。
// 打开本身不访问 OS 存储：存储不可用只会在具体调用时报错。
func Open(backend string) (Store, *errors.XError) {
	switch backend {
	case "", BackendAuto, BackendKeyring:
		return newOSKeyring(), nil
	case BackendMacOSKeychain:
		s, err := newSystemStore()
		if err != nil {
			return nil, errors.AsOrWrap(err)
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.New(errors.CodeCfgInvalid, "unsupported keychain backend",
			map[string]any{"backend": backend, "supported": Backends()})
	}
}
