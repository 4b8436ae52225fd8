package repository

import (
	"context"

	"auth-control-plane/internal/mfa/domain"
)

// Repository persists pending MFA challenges. Challenges are single use:
// a successful Consume removes the row so a reference can never be
// redeemed twice.
type Repository interface {
	Create(ctx context.Context, challenge *domain.Challenge) (*domain.Challenge, error)

	// Consume atomically fetches and deletes the challenge. A second
	// concurrent Consume of the same ID observes no row and gets (nil, nil).
	Consume(ctx context.Context, id string) (*domain.Challenge, error)

	// SweepExpired deletes challenges past their redemption window and
	// returns the number removed.
	SweepExpired(ctx context.Context) (int64, error)
}
