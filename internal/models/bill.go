package models

import "time"

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	StatusIncomplete BillStatus = "incomplete"
	StatusPending    BillStatus = "pending"
	StatusCompleted  BillStatus = "completed"
)

// ValidStatus reports whether s is one of the three recognized statuses.
// Anything else is ignored wherever a status is accepted (filters, create,
// update) rather than rejected.
func ValidStatus(s string) bool {
	switch BillStatus(s) {
	case StatusIncomplete, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// Bill represents a single bill owned by exactly one user.
// No operation may read or write a bill belonging to another user.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// UserID is the owning user. Immutable after creation.
	UserID string `json:"userId"`

	// Title is the human-readable name for the bill. Always non-empty
	// after trimming.
	Title string `json:"title"`

	// DueDate is when the bill is due. Stored with millisecond
	// precision so month-window filters can use an inclusive
	// 23:59:59.999 upper bound.
	DueDate time.Time `json:"dueDate"`

	// Status is one of incomplete, pending or completed.
	Status BillStatus `json:"status"`

	// Amount is the billed amount. Optional.
	Amount *float64 `json:"amount,omitempty"`

	// Notes holds free-form text, trimmed. Optional.
	Notes string `json:"notes,omitempty"`

	// Recurring marks bills that repeat every period.
	Recurring bool `json:"recurring"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updatedAt"`
}
