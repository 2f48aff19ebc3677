package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "billtracker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and get by email", func(t *testing.T) {
		user := createTestUser(t, store, "alice@example.com")

		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "alice@example.com" {
			t.Errorf("Email mismatch: got %s", byID.Email)
		}
	})

	t.Run("duplicate email fails with ErrConflict", func(t *testing.T) {
		createTestUser(t, store, "bob@example.com")
		err := store.CreateUser(ctx, models.NewUser("bob@example.com", "otherhash"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown email fails with ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestBillStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")
	other := createTestUser(t, store, "other@example.com")

	t.Run("create and get round trip", func(t *testing.T) {
		amount := 1200.0
		bill := &models.Bill{
			UserID:    owner.ID,
			Title:     "Rent",
			DueDate:   time.Date(2024, 3, 5, 12, 30, 0, 0, time.Local),
			Status:    models.StatusPending,
			Amount:    &amount,
			Notes:     "March rent",
			Recurring: true,
		}

		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetBill(ctx, owner.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Title != "Rent" || got.Status != models.StatusPending {
			t.Errorf("Got %+v", got)
		}
		if got.Amount == nil || *got.Amount != 1200 {
			t.Errorf("Amount mismatch: got %v", got.Amount)
		}
		if got.Notes != "March rent" || !got.Recurring {
			t.Errorf("Got notes=%q recurring=%v", got.Notes, got.Recurring)
		}
		if !got.DueDate.Equal(bill.DueDate) {
			t.Errorf("DueDate mismatch: got %v, want %v", got.DueDate, bill.DueDate)
		}
	})

	t.Run("other user cannot see the bill", func(t *testing.T) {
		bill := &models.Bill{UserID: owner.ID, Title: "Internet", DueDate: time.Now()}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		if _, err := store.GetBill(ctx, other.ID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get: expected ErrNotFound, got %v", err)
		}

		stolen := *bill
		stolen.UserID = other.ID
		if err := store.UpdateBill(ctx, &stolen); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Update: expected ErrNotFound, got %v", err)
		}

		if err := store.DeleteBill(ctx, other.ID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update writes back fields", func(t *testing.T) {
		bill := &models.Bill{UserID: owner.ID, Title: "Gym", DueDate: time.Now(), Status: models.StatusIncomplete}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		bill.Title = "Gym membership"
		bill.Status = models.StatusCompleted
		amount := 45.5
		bill.Amount = &amount
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, owner.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Title != "Gym membership" || got.Status != models.StatusCompleted {
			t.Errorf("Got %+v", got)
		}
		if got.Amount == nil || *got.Amount != 45.5 {
			t.Errorf("Amount mismatch: got %v", got.Amount)
		}
	})

	t.Run("delete removes the bill", func(t *testing.T) {
		bill := &models.Bill{UserID: owner.ID, Title: "One-off", DueDate: time.Now()}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		if err := store.DeleteBill(ctx, owner.ID, bill.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, owner.ID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestListBills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "list@example.com")
	other := createTestUser(t, store, "neighbor@example.com")

	mustCreate := func(title string, due time.Time, status models.BillStatus) *models.Bill {
		t.Helper()
		bill := &models.Bill{UserID: owner.ID, Title: title, DueDate: due, Status: status}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill(%s) failed: %v", title, err)
		}
		return bill
	}

	// Bills around the March 2024 window, plus one for another user.
	lastFeb := mustCreate("Last of Feb", time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.Local), models.StatusPending)
	firstMar := mustCreate("First of Mar", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), models.StatusPending)
	midMar := mustCreate("Mid Mar", time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local), models.StatusCompleted)
	lastMar := mustCreate("Last of Mar", time.Date(2024, 3, 31, 23, 59, 59, int(999*time.Millisecond), time.Local), models.StatusIncomplete)
	firstApr := mustCreate("First of Apr", time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), models.StatusPending)

	otherBill := &models.Bill{UserID: other.ID, Title: "Not yours", DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)}
	if err := store.CreateBill(ctx, otherBill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	t.Run("unfiltered list is ordered and scoped to owner", func(t *testing.T) {
		bills, err := store.ListBills(ctx, owner.ID, storage.BillFilter{})
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 5 {
			t.Fatalf("Expected 5 bills, got %d", len(bills))
		}
		wantOrder := []string{lastFeb.ID, firstMar.ID, midMar.ID, lastMar.ID, firstApr.ID}
		for i, want := range wantOrder {
			if bills[i].ID != want {
				t.Errorf("Position %d: got %s (%s)", i, bills[i].Title, bills[i].ID)
			}
		}
	})

	t.Run("status filter narrows", func(t *testing.T) {
		bills, err := store.ListBills(ctx, owner.ID, storage.BillFilter{Status: models.StatusPending})
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 3 {
			t.Fatalf("Expected 3 pending bills, got %d", len(bills))
		}
		for _, b := range bills {
			if b.Status != models.StatusPending {
				t.Errorf("Unexpected status %s", b.Status)
			}
		}
	})

	t.Run("month window is inclusive at both boundaries", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0).Add(-time.Millisecond)

		bills, err := store.ListBills(ctx, owner.ID, storage.BillFilter{From: from, To: to})
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 3 {
			t.Fatalf("Expected 3 March bills, got %d", len(bills))
		}
		if bills[0].ID != firstMar.ID || bills[2].ID != lastMar.ID {
			t.Errorf("Boundary bills missing: got %s .. %s", bills[0].Title, bills[2].Title)
		}
	})

	t.Run("same due date sorts by status lexically", func(t *testing.T) {
		due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
		p := mustCreate("P", due, models.StatusPending)
		c := mustCreate("C", due, models.StatusCompleted)
		i := mustCreate("I", due, models.StatusIncomplete)

		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0).Add(-time.Millisecond)
		bills, err := store.ListBills(ctx, owner.ID, storage.BillFilter{From: from, To: to})
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		// completed < incomplete < pending
		wantOrder := []string{c.ID, i.ID, p.ID}
		if len(bills) != 3 {
			t.Fatalf("Expected 3 bills, got %d", len(bills))
		}
		for idx, want := range wantOrder {
			if bills[idx].ID != want {
				t.Errorf("Position %d: got %s", idx, bills[idx].Status)
			}
		}
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		lonely := createTestUser(t, store, "lonely@example.com")
		bills, err := store.ListBills(ctx, lonely.ID, storage.BillFilter{})
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if bills == nil || len(bills) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", bills)
		}
	})
}
