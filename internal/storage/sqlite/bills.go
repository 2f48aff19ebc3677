package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// CreateBill persists a new bill to the database.
// Generates the ID and timestamps if not already set.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = now
	}

	var amount interface{}
	if bill.Amount != nil {
		amount = *bill.Amount
	}
	var notes interface{}
	if bill.Notes != "" {
		notes = bill.Notes
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (id, user_id, title, due_date, status, amount, notes, recurring, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.UserID, bill.Title, bill.DueDate.UnixMilli(), string(bill.Status),
		amount, notes, boolToInt(bill.Recurring), bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID scoped to the owning user.
// A bill owned by another user fails with storage.ErrNotFound exactly
// like an absent one.
func (s *SQLiteStore) GetBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, due_date, status, amount, notes, recurring, created_at, updated_at
		 FROM bills WHERE id = ? AND user_id = ?`,
		billID, userID,
	)

	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// ListBills returns the user's bills matching the filter, ordered by
// due date then status (ascending).
func (s *SQLiteStore) ListBills(ctx context.Context, userID string, filter storage.BillFilter) ([]*models.Bill, error) {
	query := `SELECT id, user_id, title, due_date, status, amount, notes, recurring, created_at, updated_at
		 FROM bills WHERE user_id = ?`
	args := []interface{}{userID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		query += " AND due_date >= ? AND due_date <= ?"
		args = append(args, filter.From.UnixMilli(), filter.To.UnixMilli())
	}
	query += " ORDER BY due_date ASC, status ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*models.Bill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// UpdateBill writes back a modified bill, scoped to its owning user.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	bill.UpdatedAt = time.Now().Unix()

	var amount interface{}
	if bill.Amount != nil {
		amount = *bill.Amount
	}
	var notes interface{}
	if bill.Notes != "" {
		notes = bill.Notes
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE bills
		 SET title = ?, due_date = ?, status = ?, amount = ?, notes = ?, recurring = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		bill.Title, bill.DueDate.UnixMilli(), string(bill.Status),
		amount, notes, boolToInt(bill.Recurring), bill.UpdatedAt,
		bill.ID, bill.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteBill removes a bill, scoped to the owning user.
func (s *SQLiteStore) DeleteBill(ctx context.Context, userID, billID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND user_id = ?",
		billID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(sc scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var (
		dueDate   int64
		status    string
		amount    sql.NullFloat64
		notes     sql.NullString
		recurring int
	)

	err := sc.Scan(
		&bill.ID, &bill.UserID, &bill.Title, &dueDate, &status,
		&amount, &notes, &recurring, &bill.CreatedAt, &bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bill.DueDate = time.UnixMilli(dueDate)
	bill.Status = models.BillStatus(status)
	if amount.Valid {
		bill.Amount = &amount.Float64
	}
	if notes.Valid {
		bill.Notes = notes.String
	}
	bill.Recurring = recurring != 0

	return bill, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
