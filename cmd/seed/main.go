// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev identity (devuser) already exists.
package main

import (
	"context"
	"log"
	"time"

	"auth-control-plane/internal/config"
	"auth-control-plane/internal/db"
	identitydomain "auth-control-plane/internal/identity/domain"
	identityrepo "auth-control-plane/internal/identity/repository"
	"auth-control-plane/internal/security"
)

const (
	devUsername      = "devuser"
	devMFAUsername   = "devuser-mfa"
	devPassword      = "password123"
	devIdentityID    = "dev-identity-001"
	devMFAIdentityID = "dev-identity-002"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	identities := identityrepo.NewPostgresRepository(conn)

	existing, err := identities.GetByUsername(ctx, devUsername)
	if err != nil {
		log.Fatalf("seed: lookup: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", devUsername)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash: %v", err)
	}

	now := time.Now().UTC()
	seedIdentities := []*identitydomain.Identity{
		{
			ID:           devIdentityID,
			Username:     devUsername,
			PasswordHash: hash,
			MFAEnrolled:  false,
			Status:       identitydomain.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           devMFAIdentityID,
			Username:     devMFAUsername,
			PasswordHash: hash,
			MFAEnrolled:  true,
			Status:       identitydomain.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	for _, ident := range seedIdentities {
		if err := ident.Validate(); err != nil {
			log.Fatalf("seed: %v", err)
		}
		if err := identities.Create(ctx, ident); err != nil {
			log.Fatalf("seed: create %s: %v", ident.Username, err)
		}
		log.Printf("seed: created %s (password %q, mfa=%v)", ident.Username, devPassword, ident.MFAEnrolled)
	}
}
