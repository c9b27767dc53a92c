package keychain

import (
	"strings"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

const refPrefix = "keyring:"

// ResolveOptions 控制 secret 引用的解析行为。
type ResolveOptions struct {
	AllowPlaintext bool  // 是否允许明文（默认 false）
	Store          Store // 可注入的后端（nil 则用默认 keyring）
}

// Resolve 解析配置中的 secret 值：
//  1. keyring:xxx → 从凭据存储读取（namespace 固定）
//  2. 否则若为明文且允许明文 → 直接返回
//  3. 否则报错
func Resolve(raw string, opts ResolveOptions) (string, *errors.XError) {
	if IsRef(raw) {
		key := strings.TrimPrefix(raw, refPrefix)
		if key == "" {
			return "", errors.New(errors.CodeCfgInvalid, "empty keyring reference", map[string]any{"ref": raw})
		}
		store := opts.Store
		if store == nil {
			store = newOSKeyring()
		}
		val, found, err := New(store).Get(key)
		if err != nil {
			return "", errors.AsOrWrap(err)
		}
		if !found {
			return "", errors.New(errors.CodeSecretNotFound, "secret not found in keychain", map[string]any{"key": key})
		}
		return val, nil
	}
	// 明文
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use keyring: reference or enable allow_plaintext_token", nil)
}

// IsRef 判断值是否为 keyring 引用。
func IsRef(s string) bool {
	return strings.HasPrefix(s, refPrefix)
}
