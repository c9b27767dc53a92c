//go:build !linux && !windows && !darwin

package deeplink

import (
	"context"
	"log/slog"
	"runtime"
)

func registerScheme(_ context.Context, reg Registration, logger *slog.Logger) error {
	logger.Warn("deep-link registration not supported on this platform", "scheme", reg.Scheme, "goos", runtime.GOOS)
	return nil
}
