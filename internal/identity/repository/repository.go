package repository

import (
	"context"

	"auth-control-plane/internal/identity/domain"
)

// Repository defines persistence for identities. The credential core only
// reads identities; Create exists for the seed surface.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Create(ctx context.Context, i *domain.Identity) error
}
