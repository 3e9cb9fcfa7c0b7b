package catalog

import (
	"context"
	"log/slog"
)

const (
	OpGetAll    = "getAll"
	OpGetByID   = "getById"
	OpSearch    = "search"
	OpAdd       = "add"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpDeleteAll = "deleteAll"
)

// AuditEvent describes one completed service operation.
type AuditEvent struct {
	Operation string
	Resource  string
	IDs       []string
}

// Auditor receives an event after every successful operation.
type Auditor interface {
	Audit(ctx context.Context, e AuditEvent)
}

type AuditorFunc func(ctx context.Context, e AuditEvent)

func (f AuditorFunc) Audit(ctx context.Context, e AuditEvent) { f(ctx, e) }

type nopAuditor struct{}

func (nopAuditor) Audit(context.Context, AuditEvent) {}

// SlogAuditor writes one structured "audit" line per event.
type SlogAuditor struct {
	Logger *slog.Logger
}

func NewSlogAuditor(logger *slog.Logger) *SlogAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditor{Logger: logger}
}

func (a *SlogAuditor) Audit(ctx context.Context, e AuditEvent) {
	a.Logger.InfoContext(ctx, "audit",
		"operation", e.Operation,
		"resource", e.Resource,
		"ids", e.IDs,
	)
}
