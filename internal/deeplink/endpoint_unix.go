//go:build !windows

package deeplink

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// DefaultEndpoint returns the per-user unix socket path.
func DefaultEndpoint() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "spectrus-desktop.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("spectrus-desktop-%d.sock", os.Getuid()))
}

// listen claims the socket. A socket file nobody answers on is left over
// from a crashed instance and is replaced; anything else at the path is left
// alone.
func listen(endpoint string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(endpoint), 0o700); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", endpoint)
	if err != nil {
		conn, dialErr := net.DialTimeout("unix", endpoint, time.Second)
		if dialErr == nil {
			conn.Close()
			return nil, ErrAlreadyRunning
		}
		fi, statErr := os.Lstat(endpoint)
		if statErr != nil || fi.Mode()&os.ModeSocket == 0 {
			return nil, err
		}
		if rmErr := os.Remove(endpoint); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, err
		}
		if ln, err = net.Listen("unix", endpoint); err != nil {
			return nil, err
		}
	}
	if err := os.Chmod(endpoint, 0o600); err != nil {
		ln.Close()
		return nil, err
	}
	return ln, nil
}

func dial(ctx context.Context, endpoint string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", endpoint)
}
