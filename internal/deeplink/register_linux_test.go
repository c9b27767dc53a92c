//go:build linux

package deeplink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clk-66/spectrus-desktop/internal/log"
)

func TestRegister_WritesDesktopEntry(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("PATH", "") // xdg-mime 不可用时只写文件

	err := Register(context.Background(), Registration{Scheme: "spectrus", Exe: "/opt/spectrus/spectrus-desktop"}, log.Discard())
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dataHome, "applications", "spectrus-url-handler.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "MimeType=x-scheme-handler/spectrus;")
	assert.Contains(t, string(b), "Name=Spectrus")

	// 幂等：再次注册覆盖同一个文件
	require.NoError(t, Register(context.Background(), Registration{Scheme: "spectrus", Exe: "/usr/bin/spectrus-desktop"}, log.Discard()))
	b, err = os.ReadFile(filepath.Join(dataHome, "applications", "spectrus-url-handler.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Exec=/usr/bin/spectrus-desktop open %u")
}

func TestRegister_SetsLowercaseDefaultHandler(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	bin := t.TempDir()
	argsFile := filepath.Join(bin, "args")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "xdg-mime"), []byte(script), 0o755))
	t.Setenv("PATH", bin)

	err := Register(context.Background(), Registration{Scheme: "Spectrus", Exe: "/opt/spectrus/spectrus-desktop"}, log.Discard())
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "default spectrus-url-handler.desktop x-scheme-handler/spectrus\n", string(args))

	b, err := os.ReadFile(filepath.Join(dataHome, "applications", "spectrus-url-handler.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "MimeType=x-scheme-handler/spectrus;")
}
