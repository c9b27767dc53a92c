//go:build windows

package keychain

import (
	"strings"

	"github.com/zalando/go-keyring"
)

func (o *osKeyring) Get(key string) (string, error) {
	val, err := keyring.Get(o.service, key)
	if err != nil {
		return "", notFound(err, key)
	}
	// Windows Credential Manager 在字符间插入 null 字节（UTF-16 遗留问题）
	val = strings.ReplaceAll(val, "\x00", "")
	return val, nil
}
