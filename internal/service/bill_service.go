package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// dueDateFormats are the accepted layouts for due dates, tried in order.
// Date-only values are interpreted in server local time, matching how the
// month filter windows are computed.
var dueDateFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// BillService serves the per-user bill CRUD endpoints. Every handler
// reads the caller's identity from the request context; the auth guard
// runs before any of them.
type BillService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBillService creates a new bill service with the given storage backend.
func NewBillService(store storage.Store, logger *slog.Logger) *BillService {
	return &BillService{store: store, logger: logger}
}

type createBillRequest struct {
	Title     string   `json:"title"`
	DueDate   string   `json:"dueDate"`
	Status    string   `json:"status"`
	Amount    *float64 `json:"amount"`
	Notes     string   `json:"notes"`
	Recurring bool     `json:"recurring"`
}

// List handles GET /api/bills?month=YYYY-MM&status=...
// Invalid status values and malformed month strings are silently ignored,
// never rejected.
func (s *BillService) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	filter := storage.BillFilter{}

	if status := r.URL.Query().Get("status"); models.ValidStatus(status) {
		filter.Status = models.BillStatus(status)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if from, to, ok := monthWindow(month); ok {
			filter.From, filter.To = from, to
		}
	}

	bills, err := s.store.ListBills(r.Context(), userID, filter)
	if err != nil {
		s.logger.Error("ListBills failed", "user_id", userID, "error", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, bills)
}

// Create handles POST /api/bills.
func (s *BillService) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeErr(w, http.StatusBadRequest, "Title required")
		return
	}

	dueDate := time.Now()
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		dueDate = parsed
	}

	status := models.StatusIncomplete
	if models.ValidStatus(req.Status) {
		status = models.BillStatus(req.Status)
	}

	bill := &models.Bill{
		UserID:    userID,
		Title:     title,
		DueDate:   dueDate,
		Status:    status,
		Amount:    req.Amount,
		Notes:     strings.TrimSpace(req.Notes),
		Recurring: req.Recurring,
	}

	if err := s.store.CreateBill(r.Context(), bill); err != nil {
		s.logger.Error("CreateBill failed", "user_id", userID, "error", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Bill created", "bill_id", bill.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, bill)
}

// Get handles GET /api/bills/{id}.
func (s *BillService) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	billID := chi.URLParam(r, "id")

	bill, err := s.store.GetBill(r.Context(), userID, billID)
	if err != nil {
		s.respondBillError(w, userID, billID, err)
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

// Update handles PATCH /api/bills/{id}. Only fields present in the body
// are applied; an invalid status value is silently dropped.
func (s *BillService) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	billID := chi.URLParam(r, "id")

	bill, err := s.store.GetBill(r.Context(), userID, billID)
	if err != nil {
		s.respondBillError(w, userID, billID, err)
		return
	}

	var patch models.BillPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if patch.Title.Set && patch.Title.Valid {
		if title := strings.TrimSpace(patch.Title.Value); title != "" {
			bill.Title = title
		}
	}
	if patch.DueDate.Set && patch.DueDate.Valid {
		parsed, err := parseDueDate(patch.DueDate.Value)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		bill.DueDate = parsed
	}
	if patch.Status.Set && patch.Status.Valid && models.ValidStatus(patch.Status.Value) {
		bill.Status = models.BillStatus(patch.Status.Value)
	}
	if patch.Amount.Set {
		if patch.Amount.Valid {
			bill.Amount = &patch.Amount.Value
		} else {
			bill.Amount = nil
		}
	}
	if patch.Notes.Set {
		if patch.Notes.Valid {
			bill.Notes = strings.TrimSpace(patch.Notes.Value)
		} else {
			bill.Notes = ""
		}
	}
	if patch.Recurring.Set {
		// null coerces to false, same as an explicit false
		bill.Recurring = patch.Recurring.Valid && patch.Recurring.Value
	}

	if err := s.store.UpdateBill(r.Context(), bill); err != nil {
		s.respondBillError(w, userID, billID, err)
		return
	}

	s.logger.Info("Bill updated", "bill_id", bill.ID, "user_id", userID)
	writeJSON(w, http.StatusOK, bill)
}

// Delete handles DELETE /api/bills/{id}.
func (s *BillService) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	billID := chi.URLParam(r, "id")

	if err := s.store.DeleteBill(r.Context(), userID, billID); err != nil {
		s.respondBillError(w, userID, billID, err)
		return
	}

	s.logger.Info("Bill deleted", "bill_id", billID, "user_id", userID)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// respondBillError maps store errors for a single bill to HTTP. A bill
// owned by another user gets the same 404 as an absent one.
func (s *BillService) respondBillError(w http.ResponseWriter, userID, billID string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Bill not found")
		return
	}
	s.logger.Error("Bill operation failed", "bill_id", billID, "user_id", userID, "error", err)
	writeErr(w, http.StatusInternalServerError, err.Error())
}

// parseDueDate parses an explicit due date value.
func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unparsable due date")
}

// monthWindow computes the inclusive [first instant, last instant] window
// for a "YYYY-M" or "YYYY-MM" month string in server local time. Returns
// ok=false for anything that does not split into two numbers.
func monthWindow(month string) (time.Time, time.Time, bool) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	from := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0).Add(-time.Millisecond)
	return from, to, true
}
