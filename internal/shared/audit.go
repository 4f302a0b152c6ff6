package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AuditLog represents a single ledger-affecting action.
type AuditLog struct {
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditLogger writes audit records as structured log lines.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With(slog.String("component", "audit"))}
}

// Record emits the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	at := log.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	attrs := []slog.Attr{
		slog.String("action", log.Action),
		slog.String("entity", log.Entity),
		slog.String("entity_id", log.EntityID),
		slog.Time("at", at),
	}
	if len(log.Meta) > 0 {
		attrs = append(attrs, slog.Any("meta", log.Meta))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
	return nil
}
