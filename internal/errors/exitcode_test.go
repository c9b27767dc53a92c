package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		code Code
		want ExitCode
	}{
		{CodeCfgNotFound, ExitConfig},
		{CodeCfgInvalid, ExitConfig},
		{CodeSecretNotFound, ExitConfig},
		{CodeKeychainFailed, ExitKeychain},
		{CodeDeepLinkInvalid, ExitDeepLink},
		{CodeDeepLinkUnavailable, ExitDeepLink},
		{CodeInternal, ExitInternal},
		{Code("UNKNOWN_CODE"), ExitInternal}, // unknown code
	}
	for _, tc := range cases {
		if got := ExitCodeFor(tc.code); got != tc.want {
			t.Errorf("ExitCodeFor(%s)=%d want %d", tc.code, got, tc.want)
		}
	}
}

func TestXError_Error(t *testing.T) {
	xe := New(CodeCfgInvalid, "test message", nil)
	expected := "SPECTRUS_CFG_INVALID: test message"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	cause := stderrors.New("permission denied")
	xe = Wrap(CodeKeychainFailed, "keychain set failed", nil, cause)
	expected = "SPECTRUS_KEYCHAIN_FAILED: keychain set failed: permission denied"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	var nilErr *XError
	if nilErr.Error() != "" {
		t.Errorf("nil XError.Error() should return empty string")
	}
}

func TestXError_Reason(t *testing.T) {
	cause := stderrors.New("The user name or passphrase you entered is not correct.")
	xe := Wrap(CodeKeychainFailed, "keychain get failed", nil, cause)
	if xe.Reason() != cause.Error() {
		t.Errorf("Reason()=%q, want cause text verbatim", xe.Reason())
	}

	xe = New(CodeDeepLinkInvalid, "bad uri", nil)
	if xe.Reason() != "bad uri" {
		t.Errorf("Reason()=%q, want message", xe.Reason())
	}

	var nilErr *XError
	if nilErr.Reason() != "" {
		t.Errorf("nil XError.Reason() should return empty string")
	}
}

func TestXError_Unwrap(t *testing.T) {
	cause := stderrors.New("cause")
	xe := Wrap(CodeKeychainFailed, "msg", nil, cause)
	if xe.Unwrap() != cause {
		t.Error("Unwrap should return cause")
	}
	if !stderrors.Is(xe, cause) {
		t.Error("errors.Is should see through XError")
	}

	xe2 := New(CodeCfgInvalid, "msg", nil)
	if xe2.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAs(t *testing.T) {
	xe := New(CodeCfgInvalid, "test", nil)
	got, ok := As(xe)
	if !ok || got != xe {
		t.Error("As should return XError")
	}

	wrapped := fmt.Errorf("outer: %w", xe)
	got, ok = As(wrapped)
	if !ok || got != xe {
		t.Error("As should unwrap to find XError")
	}

	_, ok = As(stderrors.New("plain error"))
	if ok {
		t.Error("As should return false for non-XError")
	}
}

func TestIs(t *testing.T) {
	xe := New(CodeDeepLinkUnavailable, "no instance", nil)
	if !Is(fmt.Errorf("forward: %w", xe), CodeDeepLinkUnavailable) {
		t.Error("Is should match wrapped code")
	}
	if Is(xe, CodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), CodeInternal) {
		t.Error("Is should be false for non-XError")
	}
}

func TestAsOrWrap(t *testing.T) {
	plain := stderrors.New("boom")
	xe := AsOrWrap(plain)
	if xe.Code != CodeInternal || xe.Message != "boom" {
		t.Errorf("AsOrWrap(plain)=%+v", xe)
	}
	orig := New(CodeKeychainFailed, "x", nil)
	if AsOrWrap(orig) != orig {
		t.Error("AsOrWrap should return existing XError")
	}
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()
	if len(codes) != 7 {
		t.Errorf("AllCodes() should return 7 codes, got %d", len(codes))
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("Duplicate code: %s", c)
		}
		seen[c] = true
	}
}
