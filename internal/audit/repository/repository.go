package repository

import (
	"context"

	"auth-control-plane/internal/audit/domain"
)

// Repository defines persistence for audit entries. The core path only
// appends; ListByActor serves the ops surface.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
	ListByActor(ctx context.Context, actorID string, limit, offset int32) ([]*domain.Entry, error)
}
