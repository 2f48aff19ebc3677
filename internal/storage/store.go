// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist, or exists but
	// is owned by a different user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness
	// constraint (duplicate email).
	ErrConflict = errors.New("record already exists")
)

// BillFilter narrows a bill listing. Zero values mean "no filter".
type BillFilter struct {
	// Status narrows to a single status. Must already be validated;
	// the store applies it verbatim.
	Status models.BillStatus

	// From and To bound DueDate inclusively on both ends.
	From, To time.Time
}

// Store defines the interface for user and bill persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails with ErrConflict if the
	// email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by normalized email.
	// Fails with ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Fails with ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateBill persists a new bill owned by bill.UserID.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID, scoped to the owning user.
	// Fails with ErrNotFound if the bill is absent or owned by someone else.
	GetBill(ctx context.Context, userID, billID string) (*models.Bill, error)

	// ListBills returns the user's bills matching the filter, ordered by
	// due date ascending, then status ascending.
	ListBills(ctx context.Context, userID string, filter BillFilter) ([]*models.Bill, error)

	// UpdateBill writes back a modified bill, scoped to bill.UserID.
	// Fails with ErrNotFound under the same ownership rule as GetBill.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill, scoped to the owning user.
	// Fails with ErrNotFound under the same ownership rule as GetBill.
	DeleteBill(ctx context.Context, userID, billID string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
