// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for users.
type UserRepository interface {
	// Create inserts a user; PasswordHash must already be set.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailTaken reports whether another user already uses email.
	EmailTaken(ctx context.Context, email string) (bool, error)
	// List returns all users ordered by creation.
	List(ctx context.Context) ([]model.User, error)
	// Update applies the mutable fields present in p.
	Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error)
	// SetPasswordHash replaces the stored hash.
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	// Delete removes the user row and returns the number of rows removed.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
