package ledger

import (
	"fmt"
	"strconv"
	"time"

	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// StockLedger owns every quantity mutation on inventory items and the
// immutable delivery rows that document them.
type StockLedger struct {
	repository *repository.Repository
}

func NewStockLedger(r *repository.Repository) *StockLedger {
	return &StockLedger{repository: r}
}

// Decrement lowers an item's quantity inside tx and returns the stock level
// before and after. The quantity guard sits in the WHERE clause, so two
// concurrent decrements can never drive the stock negative: the second one
// simply matches no row.
func (l *StockLedger) Decrement(tx *goqu.TxDatabase, productID, quantity int) (before, after int, err error) {
	if quantity < 1 {
		return 0, 0, &custom_error.ValidationError{Property: "quantity", Message: "must be at least 1"}
	}

	query := tx.Update("inventory_items").
		Set(goqu.Record{"quantity": goqu.L("quantity - ?", quantity)}).
		Where(
			goqu.C("id").Eq(productID),
			goqu.C("quantity").Gte(quantity),
		).
		Returning("quantity")

	found, err := query.Executor().ScanVal(&after)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decrement stock for item %d: %w", productID, err)
	}

	if !found {
		// Either the item is gone or there is not enough on hand; look at the
		// current row to report the right reason.
		var item struct {
			Name     string `db:"name"`
			Quantity int    `db:"quantity"`
		}
		exists, selErr := tx.Select("name", "quantity").
			From("inventory_items").
			Where(goqu.Ex{"id": productID}).
			Executor().ScanStruct(&item)
		if selErr != nil {
			return 0, 0, fmt.Errorf("failed to inspect stock for item %d: %w", productID, selErr)
		}
		if !exists {
			return 0, 0, &custom_error.NotFoundError{Resource: "inventory item", ID: strconv.Itoa(productID)}
		}
		return 0, 0, &custom_error.InsufficientStockError{
			Product:   item.Name,
			Requested: quantity,
			Available: item.Quantity,
		}
	}

	return after + quantity, after, nil
}

// InsertDelivery records the audit row for a decrement. Delivery rows are
// write-once; no update or delete path exists anywhere in the service.
func (l *StockLedger) InsertDelivery(tx *goqu.TxDatabase, d models.Delivery) error {
	deliveryDate := d.DeliveryDate
	if deliveryDate == nil {
		now := time.Now()
		deliveryDate = &now
	}

	query := tx.Insert("deliveries").
		Rows(goqu.Record{
			"beneficiary_id":    d.BeneficiaryID,
			"beneficiary_email": d.BeneficiaryEmail,
			"beneficiary_name":  d.BeneficiaryName,
			"product_id":        d.ProductID,
			"product_name":      d.ProductName,
			"product_category":  d.ProductCategory,
			"quantity":          d.Quantity,
			"stock_before":      d.StockBefore,
			"stock_after":       d.StockAfter,
			"delivery_status":   d.DeliveryStatus,
			"notes":             d.Notes,
			"delivery_date":     deliveryDate,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert delivery record: %w", err)
	}

	return nil
}
