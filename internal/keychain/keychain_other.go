//go:build !darwin

package keychain

import (
	"runtime"

	"github.com/clk-66/spectrus-desktop/internal/errors"
)

func newSystemStore() (Store, error) {
	return nil, errors.New(errors.CodeCfgInvalid, "keychain backend is only available on macOS",
		map[string]any{"backend": BackendMacOSKeychain, "goos": runtime.GOOS})
}
