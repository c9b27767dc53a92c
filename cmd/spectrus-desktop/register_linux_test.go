//go:build linux

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRegister_WritesDesktopEntry(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("PATH", "")
	withGlobalConfig(t, &Config{})

	res, xe := runRegister(nil, &registerOptions{scheme: "spectrus", exe: "/opt/spectrus/spectrus-desktop"})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if res.Scheme != "spectrus" || res.OS != "linux" {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(filepath.Join(dataHome, "applications", "spectrus-url-handler.desktop"))
	if err != nil {
		t.Fatalf("desktop entry not written: %v", err)
	}
	if !strings.Contains(string(b), "Exec=/opt/spectrus/spectrus-desktop open %u") {
		t.Fatalf("unexpected desktop entry:\n%s", b)
	}
}
