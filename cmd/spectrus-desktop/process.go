package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/clk-66/spectrus-desktop/internal/errors"
	mcp_pkg "github.com/clk-66/spectrus-desktop/internal/mcp"
)

// processGrace gives the bridge time to write the tool result before shutdown.
const processGrace = 200 * time.Millisecond

// exitRequest carries a non-zero exit code asked for by the UI up to run.
type exitRequest struct {
	code int
}

func (e *exitRequest) Error() string {
	return fmt.Sprintf("exit requested with code %d", e.code)
}

// processControl implements mcp.ProcessControl for serve. The first request
// wins; later ones are ignored.
type processControl struct {
	cancel    context.CancelFunc
	transport string

	mu        sync.Mutex
	requested bool
	code      int
	restart   bool
}

func (p *processControl) Exit(code int) {
	p.request(code, false)
}

func (p *processControl) Restart() error {
	// stdio 的管道归启动方所有，无法交给新进程
	if p.transport != mcp_pkg.TransportStreamableHTTP {
		return errors.New(errors.CodeCfgInvalid, "restart is only available over the streamable_http bridge",
			map[string]any{"transport": p.transport})
	}
	p.request(0, true)
	return nil
}

func (p *processControl) request(code int, restart bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.requested {
		return
	}
	p.requested, p.code, p.restart = true, code, restart
	time.AfterFunc(processGrace, p.cancel)
}

func (p *processControl) outcome() (requested bool, code int, restart bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested, p.code, p.restart
}

// relaunchArgs drops the launch URIs from argv; they were already dispatched.
func relaunchArgs(argv, launchURLs []string) []string {
	out := make([]string, 0, len(argv))
	for _, a := range argv {
		if slices.Contains(launchURLs, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// relaunch starts a detached copy of this binary with args.
func relaunch(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, args...)
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
