package auth

import (
	"context"

	"github.com/mmynk/billtracker/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// magic links, OAuth, etc.) without changing the HTTP layer.
type Authenticator interface {
	// Register creates a new user account for the given email and credential.
	// The email is normalized before storage. Returns the created user or an
	// error if the email is already taken.
	Register(ctx context.Context, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful. Fails with ErrInvalidCredentials for an unknown email and
	// for a wrong password alike.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
