//go:build windows

package deeplink

import (
	"context"
	"net"
	"os"
	"strings"

	"github.com/Microsoft/go-winio"
)

// DefaultEndpoint returns the per-user named pipe.
func DefaultEndpoint() string {
	user := strings.ToLower(os.Getenv("USERNAME"))
	if user == "" {
		return `\\.\pipe\spectrus-desktop`
	}
	return `\\.\pipe\spectrus-desktop-` + user
}

// listen creates the first instance of the pipe. If the pipe already
// exists and answers, another instance owns it.
func listen(endpoint string) (net.Listener, error) {
	ln, err := winio.ListenPipe(endpoint, nil)
	if err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), handoffTimeout)
		defer cancel()
		if conn, dialErr := winio.DialPipeContext(ctx, endpoint); dialErr == nil {
			conn.Close()
			return nil, ErrAlreadyRunning
		}
		return nil, err
	}
	return ln, nil
}

func dial(ctx context.Context, endpoint string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, endpoint)
}
