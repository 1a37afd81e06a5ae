package deliveries

import (
	"fmt"
	"strings"

	"sasocial/internal/repository"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type DeliveryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *DeliveryRepository {
	return &DeliveryRepository{repository: r}
}

func (r *DeliveryRepository) deliveryQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			"id", "beneficiary_id", "beneficiary_email", "beneficiary_name",
			"product_id", "product_name", "product_category", "quantity",
			"stock_before", "stock_after", "delivery_status", "notes",
			"created_at", "delivery_date",
		).
		From("deliveries")
}

func (r *DeliveryRepository) GetDeliveries() ([]models.Delivery, error) {
	var deliveries []models.Delivery
	query := r.deliveryQuery().Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&deliveries); err != nil {
		return nil, fmt.Errorf("unable to select deliveries from database: %w", err)
	}

	return deliveries, nil
}

// GetDeliveriesByEmail matches on the denormalized beneficiary email,
// case-insensitively.
func (r *DeliveryRepository) GetDeliveriesByEmail(email string) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	query := r.deliveryQuery().
		Where(goqu.L("LOWER(beneficiary_email)").Eq(strings.ToLower(strings.TrimSpace(email)))).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&deliveries); err != nil {
		return nil, fmt.Errorf("unable to select deliveries from database: %w", err)
	}

	return deliveries, nil
}
