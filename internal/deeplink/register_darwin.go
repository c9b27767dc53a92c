//go:build darwin

package deeplink

import (
	"context"
	"log/slog"
)

// On macOS the scheme is declared under CFBundleURLTypes in the app bundle's
// Info.plist; LaunchServices picks it up when the bundle is installed.
// Activations then arrive at the bundle's main executable as kAEGetURL Apple
// Events, never as argv of this binary, so the shell relays each URL through
// `spectrus-desktop open <uri>`.
func registerScheme(_ context.Context, reg Registration, logger *slog.Logger) error {
	logger.Debug("deep-link scheme is declared in Info.plist, nothing to register", "scheme", reg.Scheme)
	return nil
}
