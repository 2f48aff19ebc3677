package models

import "encoding/json"

// Optional wraps a JSON field so a partial update can tell apart three
// cases: field omitted (Set=false), field explicitly null (Set=true,
// Valid=false), and field set to a value (Set=true, Valid=true).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the document, so
// Set is true whenever it runs.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// BillPatch is the wire shape of a partial bill update. Only fields
// present in the request body are applied; null clears optional fields.
type BillPatch struct {
	Title     Optional[string]  `json:"title"`
	DueDate   Optional[string]  `json:"dueDate"`
	Status    Optional[string]  `json:"status"`
	Amount    Optional[float64] `json:"amount"`
	Notes     Optional[string]  `json:"notes"`
	Recurring Optional[bool]    `json:"recurring"`
}
