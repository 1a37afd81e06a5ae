package models

import "time"

const (
	DeliveryStatusDelivered = "ENTREGUE"
	DeliveryStatusPending   = "PENDENTE"
)

// Delivery is the immutable audit row (entrega) produced whenever stock is
// decremented, either by request approval or by a manual write-off. Rows are
// never updated or deleted.
type Delivery struct {
	ID               int        `json:"id" db:"id"`
	BeneficiaryID    string     `json:"beneficiary_id" db:"beneficiary_id"`
	BeneficiaryEmail string     `json:"beneficiary_email" db:"beneficiary_email"`
	BeneficiaryName  string     `json:"beneficiary_name" db:"beneficiary_name"`
	ProductID        int        `json:"product_id" db:"product_id"`
	ProductName      string     `json:"product_name" db:"product_name"`
	ProductCategory  string     `json:"product_category" db:"product_category"`
	Quantity         int        `json:"quantity" db:"quantity"`
	StockBefore      int        `json:"stock_before" db:"stock_before"`
	StockAfter       int        `json:"stock_after" db:"stock_after"`
	DeliveryStatus   string     `json:"delivery_status" db:"delivery_status"`
	Notes            string     `json:"notes" db:"notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	DeliveryDate     *time.Time `json:"delivery_date,omitempty" db:"delivery_date"`
}
