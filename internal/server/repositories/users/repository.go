// Package users implements persistence of user records over a single opaque
// blob that is reloaded and rewritten on every mutating operation.
package users

import (
	"context"

	"github.com/avilov/authgate/internal/server/models"
)

// Repository abstracts CRUD over the user collection. Lookups that return
// *models.Profile strip credentials; VerifyPassword is the only operation
// handing back a raw record, and it is for internal use by the service
// layer only.
type Repository interface {
	// Create registers a new user, enforcing username and email uniqueness
	// before any mutation. It returns common.ErrUsernameTaken or
	// common.ErrEmailTaken on conflict.
	Create(ctx context.Context, username, email, password string) (*models.Profile, error)

	// FindByUsername returns the raw record for username, or
	// common.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail returns the raw record for email, or common.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the outward projection for id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// TouchLastLogin stamps the record's LastLogin with the current time.
	// A missing id is a no-op, not an error.
	TouchLastLogin(ctx context.Context, id string) error

	// VerifyPassword checks the candidate password for username. A missing
	// user yields (false, nil, nil); otherwise the raw record is returned
	// together with the comparison result.
	VerifyPassword(ctx context.Context, username, password string) (bool, *models.User, error)
}
