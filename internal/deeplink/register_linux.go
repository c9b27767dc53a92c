//go:build linux

package deeplink

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func registerScheme(ctx context.Context, reg Registration, logger *slog.Logger) error {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "applications")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := desktopEntryName(reg.Scheme)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(desktopEntry(reg)), 0o644); err != nil {
		return err
	}
	logger.Info("deep-link handler registered", "scheme", reg.Scheme, "desktop_entry", path)

	xdgMime, err := exec.LookPath("xdg-mime")
	if err != nil {
		logger.Debug("xdg-mime not found, desktop entry written without setting default", "scheme", reg.Scheme)
		return nil
	}
	out, err := exec.CommandContext(ctx, xdgMime, "default", name, "x-scheme-handler/"+strings.ToLower(reg.Scheme)).CombinedOutput()
	if err != nil {
		logger.Warn("xdg-mime default failed", "scheme", reg.Scheme, "error", err, "output", string(out))
	}
	return nil
}
