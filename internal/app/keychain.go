package app

import (
	"log/slog"

	"github.com/clk-66/spectrus-desktop/internal/audit"
	"github.com/clk-66/spectrus-desktop/internal/errors"
	"github.com/clk-66/spectrus-desktop/internal/keychain"
)

// Vault 持有 keychain facade 以及需要在退出时关闭的资源（审计日志）。
type Vault struct {
	Keychain   *keychain.Keychain
	Backend    string
	CloseFuncs []func() error
}

func (v *Vault) Close() error {
	var errs []error
	for _, fn := range v.CloseFuncs {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type VaultOptions struct {
	Backend string
	// AuditLog 为空则不记录审计日志。
	AuditLog string
	// Actor 写入审计记录（cli / bridge）。
	Actor  string
	Logger *slog.Logger
	// Store 非空时跳过 Backend 选择（测试注入）。
	Store keychain.Store
}

// OpenVault 选择后端并按需包一层审计。
func OpenVault(opts VaultOptions) (*Vault, *errors.XError) {
	store := opts.Store
	if store == nil {
		s, xe := keychain.Open(opts.Backend)
		if xe != nil {
			return nil, xe
		}
		store = s
	}
	backend := opts.Backend
	if backend == "" {
		backend = keychain.BackendAuto
	}

	v := &Vault{Backend: backend}
	if opts.AuditLog != "" {
		al, err := audit.Open(opts.AuditLog)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to open audit log",
				map[string]any{"path": opts.AuditLog}, err)
		}
		v.CloseFuncs = append(v.CloseFuncs, al.Close)
		store = keychain.NewAuditedStore(store, al, opts.Actor, opts.Logger)
	}
	v.Keychain = keychain.New(store)
	return v, nil
}
