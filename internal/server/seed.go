package server

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the initial admin account if none exist.
// Idempotent: does nothing once any admin is present.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := store.CreateAdmin(ctx, email, string(hash)); err != nil {
		return err
	}

	logger.Info("seeded initial admin", "email", email)
	return nil
}
