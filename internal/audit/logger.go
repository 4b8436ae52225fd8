// Package audit records authentication events. Recording is observability,
// not a correctness gate: a failed write never fails the operation that
// triggered it, but is reported to monitoring.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"auth-control-plane/internal/audit/domain"
	auditrepo "auth-control-plane/internal/audit/repository"
	"auth-control-plane/internal/monitor"
)

// UnknownActor is the actor id recorded when the identity lookup failed.
const UnknownActor = "unknown"

// Logger writes a single audit entry per authentication event.
// Record is best-effort: failures are logged and emitted to monitoring,
// never returned to the caller.
type Logger interface {
	Record(ctx context.Context, actorID, action, ip, device, detail string)
}

// EventLogger implements Logger using the audit repository and an optional
// monitor emitter for write failures.
type EventLogger struct {
	repo    auditrepo.Repository
	emitter monitor.Emitter
}

// NewLogger returns a Logger that persists to repo and reports write failures
// to emitter. emitter may be nil; failures are then only logged.
func NewLogger(repo auditrepo.Repository, emitter monitor.Emitter) *EventLogger {
	return &EventLogger{repo: repo, emitter: emitter}
}

// Record appends one audit entry. Empty actorID is recorded as UnknownActor.
func (l *EventLogger) Record(ctx context.Context, actorID, action, ip, device, detail string) {
	if l == nil || l.repo == nil {
		return
	}
	if actorID == "" {
		actorID = UnknownActor
	}
	entry := &domain.Entry{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		IPAddress: ip,
		Device:    device,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s for %s: %v", action, actorID, err)
		monitor.EmitAsync(l.emitter, ctx, &monitor.Event{
			IdentityID: actorID,
			EventType:  monitor.EventAuditWriteFailure,
			Source:     "audit",
			Detail:     action + ": " + err.Error(),
			CreatedAt:  time.Now().UTC(),
		})
	}
}
