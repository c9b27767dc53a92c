//go:build darwin

package keychain

import (
	stderrors "errors"
	"fmt"

	gokeychain "github.com/keybase/go-keychain"
)

// systemStore talks to the macOS Keychain directly. Items are generic
// passwords that never sync to iCloud and are readable only while the
// machine is unlocked.
type systemStore struct {
	service string
}

func newSystemStore() (Store, error) {
	return &systemStore{service: Namespace}, nil
}

// Set overwrites by deleting any existing item first.
func (s *systemStore) Set(key, value string) error {
	if err := clearExisting(gokeychain.DeleteGenericPasswordItem(s.service, key)); err != nil {
		return fmt.Errorf("keychain replace %q: %w", key, err)
	}

	item := gokeychain.NewGenericPassword(
		s.service,
		key,
		fmt.Sprintf("Spectrus: %s", key),
		[]byte(value),
		"",
	)
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := gokeychain.AddItem(item); err != nil {
		return fmt.Errorf("keychain add %q: %w", key, err)
	}
	return nil
}

func (s *systemStore) Get(key string) (string, error) {
	data, err := gokeychain.GetGenericPassword(s.service, key, "", "")
	if err != nil {
		if stderrors.Is(err, gokeychain.ErrorItemNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("keychain get %q: %w", key, err)
	}
	// GetGenericPassword 在没有匹配项时返回 nil, nil
	if data == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return string(data), nil
}

func (s *systemStore) Delete(key string) error {
	err := gokeychain.DeleteGenericPasswordItem(s.service, key)
	if err != nil {
		if stderrors.Is(err, gokeychain.ErrorItemNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("keychain delete %q: %w", key, err)
	}
	return nil
}

// clearExisting 只忽略“条目不存在”，其余删除失败（如访问被拒）原样返回。
func clearExisting(err error) error {
	if err == nil || stderrors.Is(err, gokeychain.ErrorItemNotFound) {
		return nil
	}
	return err
}
