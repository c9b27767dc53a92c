package keychain

import (
	"runtime"
	"testing"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

func TestOpen(t *testing.T) {
	cases := []struct {
		backend string
		check   func(Store) bool
	}{
		{"", func(s Store) bool { _, ok := s.(*osKeyring); return ok }},
		{BackendAuto, func(s Store) bool { _, ok := s.(*osKeyring); return ok }},
		{BackendKeyring, func(s Store) bool { _, ok := s.(*osKeyring); return ok }},
		{BackendMemory, func(s Store) bool { _, ok := s.(*MemoryStore); return ok }},
	}
	for _, tc := range cases {
		s, xe := Open(tc.backend)
		if xe != nil {
			t.Errorf("Open(%q) unexpected error: %v", tc.backend, xe)
			continue
		}
		if !tc.check(s) {
			t.Errorf("Open(%q) returned %T", tc.backend, s)
		}
	}
}

func TestOpen_Unsupported(t *testing.T) {
	_, xe := Open("gnome-keyring-legacy")
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected SPECTRUS_CFG_INVALID, got %v", xe)
	}
}

func TestOpen_MacOSKeychain(t *testing.T) {
	s, xe := Open(BackendMacOSKeychain)
	if runtime.GOOS == "darwin" {
		if xe != nil || s == nil {
			t.Fatalf("expected system store on darwin, got %v", xe)
		}
		return
	}
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected SPECTRUS_CFG_INVALID off darwin, got %v", xe)
	}
}

func TestProbe(t *testing.T) {
	if err := Probe(NewMemoryStore()); err != nil {
		t.Fatalf("Probe on empty store should succeed: %v", err)
	}
	if err := Probe(failingStore{err: errStoreDown}); err == nil {
		t.Fatal("Probe should fail when the store errors")
	}
}
