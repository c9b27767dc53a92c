package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestLogger_WritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	if err := l.Log(Entry{Action: ActionSecretWrite, Namespace: "com.spectrus.app", Key: "auth/refresh", Actor: "bridge", Outcome: OutcomeOK}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := l.Log(Entry{Action: ActionSecretRead, Namespace: "com.spectrus.app", Key: "auth/refresh", Outcome: OutcomeNotFound}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	sc := bufio.NewScanner(&buf)
	var entries []Entry
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line is not JSON: %q", sc.Text())
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Timestamp.Equal(fixed) {
		t.Errorf("timestamp=%v want %v", entries[0].Timestamp, fixed)
	}
	if entries[1].Outcome != OutcomeNotFound {
		t.Errorf("outcome=%q", entries[1].Outcome)
	}
}

func TestOpen_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	for i := 0; i < 2; i++ {
		l, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := l.Log(Entry{Action: ActionSecretDelete, Key: "k", Outcome: OutcomeOK}); err != nil {
			t.Fatalf("Log: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(b, []byte("\n")); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); runtime.GOOS != "windows" && perm&0o077 != 0 {
		t.Errorf("audit log should not be group/world accessible, got %o", perm)
	}
}

func TestNew_CloseIsNoop(t *testing.T) {
	if err := New(&bytes.Buffer{}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
