package models

import "time"

// InventoryItem is a stockable good (bem).
type InventoryItem struct {
	ID         int        `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Category   string     `json:"category" db:"category"`
	GoodTypeID *int       `json:"good_type_id,omitempty" db:"good_type_id"`
	Quantity   int        `json:"quantity" db:"quantity"`
	MinStock   int        `json:"min_stock" db:"min_stock"`
	Supplier   string     `json:"supplier" db:"supplier"`
	StatusID   *int       `json:"status_id,omitempty" db:"status_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	EntryDate  *time.Time `json:"entry_date,omitempty" db:"entry_date"`
	ValidUntil *time.Time `json:"valid_until,omitempty" db:"valid_until"`
}

// LowStock flags items below their minimum threshold. Low-stock items remain
// orderable until the quantity reaches zero.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity < i.MinStock
}
