package models

import "time"

const (
	RequestStatusPending   = "PENDENTE"
	RequestStatusApproved  = "APROVADO"
	RequestStatusRejected  = "REJEITADO"
	RequestStatusDelivered = "ENTREGUE"
)

const DefaultRequestItemUnit = "unidade"

// Request is a beneficiary's ask (pedido) for quantities of inventory items.
// Beneficiary fields are denormalized onto the request at creation time.
type Request struct {
	ID               int           `json:"id" db:"id"`
	BeneficiaryID    string        `json:"beneficiary_id" db:"beneficiary_id"`
	BeneficiaryEmail string        `json:"beneficiary_email" db:"beneficiary_email"`
	BeneficiaryName  string        `json:"beneficiary_name" db:"beneficiary_name"`
	Items            []RequestItem `json:"items" db:"-"`
	Status           string        `json:"status" db:"status"`
	Notes            string        `json:"notes" db:"notes"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
	ApprovedBy       *string       `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt       *time.Time    `json:"approved_at,omitempty" db:"approved_at"`
	DeliveredAt      *time.Time    `json:"delivered_at,omitempty" db:"delivered_at"`
}

type RequestItem struct {
	ID              int    `json:"id,omitempty" db:"id"`
	RequestID       int    `json:"-" db:"request_id"`
	ProductID       int    `json:"product_id" db:"product_id"`
	ProductName     string `json:"product_name" db:"product_name"`
	ProductCategory string `json:"product_category" db:"product_category"`
	Quantity        int    `json:"quantity" db:"quantity"`
	Unit            string `json:"unit" db:"unit"`
}

// CreateRequestRequest is the creation payload bound from JSON.
type CreateRequestRequest struct {
	BeneficiaryID    string                     `json:"beneficiary_id"`
	BeneficiaryEmail string                     `json:"beneficiary_email"`
	BeneficiaryName  string                     `json:"beneficiary_name"`
	Items            []CreateRequestItemRequest `json:"items"`
	Notes            string                     `json:"notes"`
}

type CreateRequestItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}
