package models

const (
	ChangeTypeApproval  = "aprovacao"
	ChangeTypeInventory = "inventario"
)

// ChangeLogEntry is an append-only audit note (alteracao) recorded alongside
// administrator actions.
type ChangeLogEntry struct {
	ID          int    `json:"id" db:"id"`
	Type        string `json:"type" db:"type"`
	Description string `json:"description" db:"description"`
	ActorName   string `json:"actor_name" db:"actor_name"`
	ActorNumber string `json:"actor_number" db:"actor_number"`
	Date        string `json:"date" db:"date"`
	Time        string `json:"time" db:"time"`
}
