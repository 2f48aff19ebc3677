package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	byEmail map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{byEmail: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return storage.ErrConflict
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("register then authenticate succeeds", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		user, err := a.Register(ctx, "alice@example.com", "hunter2")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "hunter2" {
			t.Error("Password stored in plaintext")
		}

		got, err := a.Authenticate(ctx, "alice@example.com", "hunter2")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("User ID mismatch: got %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("email normalized on register and login", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		user, err := a.Register(ctx, "  Bob@Example.COM ", "hunter2")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Email != "bob@example.com" {
			t.Errorf("Email not normalized: got %q", user.Email)
		}

		if _, err := a.Authenticate(ctx, "BOB@example.com", "hunter2"); err != nil {
			t.Errorf("Authenticate with differently-cased email failed: %v", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		if _, err := a.Register(ctx, "carol@example.com", "first"); err != nil {
			t.Fatalf("First register failed: %v", err)
		}
		_, err := a.Register(ctx, " Carol@Example.com", "second")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		if _, err := a.Register(ctx, "dave@example.com", "correct"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		_, errWrongPassword := a.Authenticate(ctx, "dave@example.com", "wrong")
		_, errUnknownEmail := a.Authenticate(ctx, "nobody@example.com", "whatever")

		if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
			t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", errWrongPassword)
		}
		if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
			t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", errUnknownEmail)
		}
		if errWrongPassword.Error() != errUnknownEmail.Error() {
			t.Error("Error messages differ between wrong password and unknown email")
		}
	})
}
