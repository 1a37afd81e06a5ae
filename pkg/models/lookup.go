package models

// Label is a row from one of the small lookup tables (inventory status,
// delivery status, transaction type, good types, application status). They
// are consumed purely as label dictionaries for form dropdowns.
type Label struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
