//go:build windows

package deeplink

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows/registry"
)

func registerScheme(_ context.Context, reg Registration, logger *slog.Logger) error {
	base := `Software\Classes\` + reg.Scheme

	k, _, err := registry.CreateKey(registry.CURRENT_USER, base, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create %s: %w", base, err)
	}
	defer k.Close()
	if err := k.SetStringValue("", "URL:"+reg.Name+" Protocol"); err != nil {
		return err
	}
	if err := k.SetStringValue("URL Protocol", ""); err != nil {
		return err
	}

	cmdPath := base + `\shell\open\command`
	ck, _, err := registry.CreateKey(registry.CURRENT_USER, cmdPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create %s: %w", cmdPath, err)
	}
	defer ck.Close()
	if err := ck.SetStringValue("", fmt.Sprintf(`"%s" open "%%1"`, reg.Exe)); err != nil {
		return err
	}

	logger.Info("deep-link handler registered", "scheme", reg.Scheme, "key", `HKCU\`+base)
	return nil
}
