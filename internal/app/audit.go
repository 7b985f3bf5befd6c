package app

import (
	"context"
	"log"

	"github.com/fanandmerch/tickets-api/internal/clock"
	"github.com/fanandmerch/tickets-api/internal/domain"
)

type AuditRepository interface {
	InsertLog(ctx context.Context, entry domain.LogEntry) error
}

// Auditor writes durable audit entries. Writes are best-effort: the sale path
// must not fail because the log table is unavailable.
type Auditor struct {
	repo   AuditRepository
	clock  clock.Clock
	logger *log.Logger
}

func NewAuditor(repo AuditRepository, clk clock.Clock, logger *log.Logger) *Auditor {
	if logger == nil {
		logger = log.Default()
	}
	return &Auditor{repo: repo, clock: clk, logger: logger}
}

// Record stores one audit entry. A nil Auditor is a no-op so tests can leave
// it out.
func (a *Auditor) Record(ctx context.Context, level, endpoint, eventID, message string) {
	if a == nil {
		return
	}
	entry := domain.LogEntry{
		CreatedAt: a.clock.Now(),
		Endpoint:  endpoint,
		Level:     level,
		EventID:   eventID,
		Message:   message,
	}
	if err := a.repo.InsertLog(ctx, entry); err != nil {
		a.logger.Printf("WARN: audit log write failed endpoint=%s: %v", endpoint, err)
	}
}
