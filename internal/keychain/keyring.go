package keychain

import (
	stderrors "errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// osKeyring 使用 zalando/go-keyring：macOS Keychain、Secret Service、
// Windows Credential Manager。Get 见 keyring_default.go / keyring_windows.go。
type osKeyring struct {
	service string
}

func newOSKeyring() *osKeyring {
	return &osKeyring{service: Namespace}
}

func (o *osKeyring) Set(key, value string) error {
	return keyring.Set(o.service, key, value)
}

func (o *osKeyring) Delete(key string) error {
	return notFound(keyring.Delete(o.service, key), key)
}

// notFound 把 go-keyring 的 ErrNotFound 换成本包的 ErrNotFound。
func notFound(err error, key string) error {
	if err != nil && stderrors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}
