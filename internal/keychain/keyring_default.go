//go:build !windows

package keychain

import "github.com/zalando/go-keyring"

func (o *osKeyring) Get(key string) (string, error) {
	val, err := keyring.Get(o.service, key)
	if err != nil {
		return "", notFound(err, key)
	}
	return val, nil
}
