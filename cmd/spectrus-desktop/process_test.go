package main

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"
	"time"

	"github.com/clk-66/spectrus-desktop/internal/errors"
	mcp_pkg "github.com/clk-66/spectrus-desktop/internal/mcp"
)

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestProcessControl_ExitCancelsAfterGrace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctl := &processControl{cancel: cancel, transport: mcp_pkg.TransportStdio}

	ctl.Exit(7)
	ctl.Exit(1) // 只有第一次请求生效

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled")
	}
	requested, code, restart := ctl.outcome()
	if !requested || code != 7 || restart {
		t.Fatalf("outcome = %v %d %v, want true 7 false", requested, code, restart)
	}
}

func TestProcessControl_RestartNeedsHTTPBridge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctl := &processControl{cancel: cancel, transport: mcp_pkg.TransportStdio}

	err := ctl.Restart()
	if err == nil {
		t.Fatal("expected restart to be refused over stdio")
	}
	if !errors.Is(err, errors.CodeCfgInvalid) {
		t.Fatalf("expected CFG_INVALID, got %v", err)
	}
	if requested, _, _ := ctl.outcome(); requested {
		t.Fatal("refused restart must not be recorded")
	}
	select {
	case <-ctx.Done():
		t.Fatal("refused restart must not stop serve")
	case <-time.After(2 * processGrace):
	}

	ctl = &processControl{cancel: cancel, transport: mcp_pkg.TransportStreamableHTTP}
	if err := ctl.Restart(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, restart := ctl.outcome(); !restart {
		t.Fatal("restart not recorded")
	}
}

func TestRelaunchArgs(t *testing.T) {
	argv := []string{"serve", "--transport", "streamable_http", "spectrus://invite/abc", "--no-register"}
	got := relaunchArgs(argv, []string{"spectrus://invite/abc"})
	want := []string{"serve", "--transport", "streamable_http", "--no-register"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("relaunchArgs = %v, want %v", got, want)
	}
}

func TestFinishServe(t *testing.T) {
	withGlobalConfig(t, &Config{})

	t.Run("not requested", func(t *testing.T) {
		inst := &closeCounter{}
		if err := finishServe(&processControl{cancel: func() {}}, inst, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inst.n != 0 {
			t.Fatal("endpoint closed without a request")
		}
	})

	t.Run("exit zero", func(t *testing.T) {
		ctl := &processControl{cancel: func() {}, requested: true}
		inst := &closeCounter{}
		if err := finishServe(ctl, inst, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inst.n != 1 {
			t.Fatalf("endpoint closed %d times, want 1", inst.n)
		}
	})

	t.Run("exit non-zero", func(t *testing.T) {
		ctl := &processControl{cancel: func() {}, requested: true, code: 9}
		err := finishServe(ctl, &closeCounter{}, nil)
		var er *exitRequest
		if !stderrors.As(err, &er) || er.code != 9 {
			t.Fatalf("expected exitRequest{9}, got %v", err)
		}
	})
}
