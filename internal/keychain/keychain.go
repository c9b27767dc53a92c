// Package keychain persists small secrets (auth tokens) in the operating
// system's credential store.
//
// Every entry lives under the fixed service name Namespace; the caller picks
// the account (key). Nothing is cached locally: each call goes straight to the
// backend.
//
// Absence is not an error. Get reports a missing key as found=false and
// Delete of a missing key succeeds, so callers can treat "never set" as a
// normal state and clean up unconditionally.
package keychain

import (
	stderrors "errors"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// Namespace 是本应用在 OS 凭据存储中的 service name，所有 key 都在其下。
const Namespace = "com.spectrus.app"

// ErrNotFound is returned by a Store when the key does not exist.
var ErrNotFound = stderrors.New("secret not found in keychain")

// Store 是对凭据存储后端的最小抽象，便于测试与跨平台。
// 实现需绑定 Namespace，并在 key 不存在时返回（包装后的）ErrNotFound。
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Keychain 是 UI 层使用的 facade：三种结果（值 / 不存在 / 失败）。
// 不加锁、不缓存；同一 key 的并发写由后端决定先后。
type Keychain struct {
	store Store
}

// New wraps store.
func New(store Store) *Keychain {
	return &Keychain{store: store}
}

// Set writes or overwrites the secret for key.
func (k *Keychain) Set(key, value string) error {
	if err := k.store.Set(key, value); err != nil {
		return failure("set", key, err)
	}
	return nil
}

// Get returns the secret for key. found is false, with a nil error, when the
// key has never been set or was deleted.
func (k *Keychain) Get(key string) (value string, found bool, err error) {
	v, err := k.store.Get(key)
	switch {
	case err == nil:
		return v, true, nil
	case stderrors.Is(err, ErrNotFound):
		return "", false, nil
	default:
		return "", false, failure("get", key, err)
	}
}

// Delete removes the secret for key. Deleting an absent key succeeds.
func (k *Keychain) Delete(key string) error {
	err := k.store.Delete(key)
	if err == nil || stderrors.Is(err, ErrNotFound) {
		return nil
	}
	return failure("delete", key, err)
}

// Store returns the backend the facade delegates to.
func (k *Keychain) Store() Store {
	return k.store
}

// failure 把后端错误原样带给调用方：cause 保留，reason 为原文。
func failure(op, key string, err error) *errors.XError {
	return errors.Wrap(errors.CodeKeychainFailed, "keychain "+op+" failed",
		map[string]any{"key": key, "reason": err.Error()}, err)
}
