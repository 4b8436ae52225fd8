package domain

import (
	"errors"
	"strings"
	"time"
)

// Status marks whether an identity may authenticate.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Identity represents a user account as the credential core sees it:
// stable id, login name, password verification material, and MFA enrollment.
// The core only reads identities; account registration lives elsewhere.
type Identity struct {
	ID           string
	Username     string
	PasswordHash string
	MFAEnrolled  bool
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks structural invariants before persistence.
func (i *Identity) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("identity: id is required")
	}
	if strings.TrimSpace(i.Username) == "" {
		return errors.New("identity: username is required")
	}
	if len(i.Username) > 255 {
		return errors.New("identity: username must not exceed 255 characters")
	}
	if i.Status != StatusActive && i.Status != StatusDisabled {
		return errors.New("identity: invalid status")
	}
	return nil
}
