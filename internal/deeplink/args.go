package deeplink

import (
	"net/url"
	"strings"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

// ValidScheme reports whether s is a syntactically valid URI scheme
// (RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )).
func ValidScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// ValidateURL checks that raw parses and uses scheme.
func ValidateURL(scheme, raw string) *errors.XError {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(errors.CodeDeepLinkInvalid, "malformed deep link", map[string]any{"url": raw}, err)
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return errors.New(errors.CodeDeepLinkInvalid, "deep link has unexpected scheme",
			map[string]any{"url": raw, "scheme": u.Scheme, "expected": scheme})
	}
	return nil
}

// ParseArgs picks the arguments that are URIs of scheme, in order. Other
// arguments (launcher flags such as macOS -psn_*) are ignored.
func ParseArgs(scheme string, args []string) ([]string, *errors.XError) {
	prefix := strings.ToLower(scheme) + ":"
	var urls []string
	for _, a := range args {
		a = strings.TrimSpace(a)
		if !strings.HasPrefix(strings.ToLower(a), prefix) {
			continue
		}
		if xe := ValidateURL(scheme, a); xe != nil {
			return nil, xe
		}
		urls = append(urls, a)
	}
	return urls, nil
}
