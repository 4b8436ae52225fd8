package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"auth-control-plane/internal/audit/domain"
	"auth-control-plane/internal/monitor"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.Entry
	failErr error
}

func (r *memAuditRepo) Create(ctx context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAuditRepo) ListByActor(ctx context.Context, actorID string, limit, offset int32) ([]*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Entry
	for _, e := range r.entries {
		if e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out, nil
}

type captureEmitter struct {
	mu     sync.Mutex
	events []*monitor.Event
}

func (c *captureEmitter) Emit(ctx context.Context, e *monitor.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *captureEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestRecord_AppendsEntry(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)

	l.Record(context.Background(), "identity-1", domain.ActionLoginSuccess, "10.0.0.1", "cli/1.0", "")

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry must get an id")
	}
	if e.ActorID != "identity-1" || e.Action != domain.ActionLoginSuccess {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.IPAddress != "10.0.0.1" || e.Device != "cli/1.0" {
		t.Errorf("origin not recorded: %+v", e)
	}
}

func TestRecord_EmptyActorBecomesUnknown(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)

	l.Record(context.Background(), "", domain.ActionLoginFailure, "", "", "unknown-user")

	if repo.entries[0].ActorID != UnknownActor {
		t.Errorf("ActorID = %q, want %q", repo.entries[0].ActorID, UnknownActor)
	}
}

func TestRecord_FailureNeverPropagatesButAlerts(t *testing.T) {
	repo := &memAuditRepo{failErr: errors.New("db down")}
	emitter := &captureEmitter{}
	l := NewLogger(repo, emitter)

	// Must not panic or return anything; alert goes to monitoring.
	l.Record(context.Background(), "identity-1", domain.ActionLoginSuccess, "", "", "")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && emitter.count() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if emitter.count() != 1 {
		t.Fatalf("alerts = %d, want 1", emitter.count())
	}
	emitter.mu.Lock()
	ev := emitter.events[0]
	emitter.mu.Unlock()
	if ev.EventType != monitor.EventAuditWriteFailure {
		t.Errorf("EventType = %q", ev.EventType)
	}
	if ev.IdentityID != "identity-1" {
		t.Errorf("IdentityID = %q", ev.IdentityID)
	}
}

func TestRecord_NilReceiverAndRepo(t *testing.T) {
	var l *EventLogger
	l.Record(context.Background(), "a", "b", "", "", "") // no panic
	NewLogger(nil, nil).Record(context.Background(), "a", "b", "", "", "")
}
