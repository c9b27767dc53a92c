package keychain

import (
	stderrors "errors"
	"log/slog"

	"github.com/clk-66/spectrus-desktop/internal/audit"
)

// AuditedStore wraps a Store and records every call in the audit log.
// Audit failures are logged and never fail the operation.
type AuditedStore struct {
	inner  Store
	audit  *audit.Logger
	actor  string
	logger *slog.Logger
}

// NewAuditedStore wraps inner. actor names the caller ("cli" or "bridge").
func NewAuditedStore(inner Store, auditLog *audit.Logger, actor string, logger *slog.Logger) *AuditedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedStore{inner: inner, audit: auditLog, actor: actor, logger: logger}
}

func (s *AuditedStore) Set(key, value string) error {
	err := s.inner.Set(key, value)
	s.record(audit.ActionSecretWrite, key, err)
	return err
}

func (s *AuditedStore) Get(key string) (string, error) {
	val, err := s.inner.Get(key)
	s.record(audit.ActionSecretRead, key, err)
	return val, err
}

func (s *AuditedStore) Delete(key string) error {
	err := s.inner.Delete(key)
	s.record(audit.ActionSecretDelete, key, err)
	return err
}

func (s *AuditedStore) record(action audit.Action, key string, err error) {
	entry := audit.Entry{
		Action:    action,
		Namespace: Namespace,
		Key:       key,
		Actor:     s.actor,
		Outcome:   audit.OutcomeOK,
	}
	switch {
	case err == nil:
	case stderrors.Is(err, ErrNotFound):
		entry.Outcome = audit.OutcomeNotFound
	default:
		entry.Outcome = audit.OutcomeFailed
		entry.Error = err.Error()
	}
	if logErr := s.audit.Log(entry); logErr != nil {
		s.logger.Warn("audit log write failed", "action", action, "key", key, "error", logErr)
	}
}
