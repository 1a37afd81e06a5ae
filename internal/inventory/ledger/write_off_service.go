package ledger

import (
	"fmt"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TxRunner interface {
	Transaction(fn func(tx *goqu.TxDatabase) error) error
}

type Ledger interface {
	Decrement(tx *goqu.TxDatabase, productID, quantity int) (before, after int, err error)
	InsertDelivery(tx *goqu.TxDatabase, d models.Delivery) error
}

type ItemReader interface {
	GetItem(id int) (*models.InventoryItem, error)
}

// WriteOffRequest is an administrator-initiated stock decrement outside the
// request flow (dar baixa).
type WriteOffRequest struct {
	Quantity         int    `json:"quantity" binding:"required"`
	BeneficiaryID    string `json:"beneficiary_id"`
	BeneficiaryEmail string `json:"beneficiary_email"`
	BeneficiaryName  string `json:"beneficiary_name"`
	Notes            string `json:"notes"`
}

type WriteOffService struct {
	db        TxRunner
	ledger    Ledger
	items     ItemReader
	changeLog *changelog.ChangeLog
}

func NewWriteOffService(db TxRunner, ledger Ledger, items ItemReader, changeLog *changelog.ChangeLog) *WriteOffService {
	return &WriteOffService{
		db:        db,
		ledger:    ledger,
		items:     items,
		changeLog: changeLog,
	}
}

// ManualWriteOff decrements stock and records the delivery in one
// transaction. Write-offs carry the "PENDENTE" delivery status so they are
// distinguishable from request-approval deliveries in the history.
func (s *WriteOffService) ManualWriteOff(productID int, req WriteOffRequest, actorName string) (*models.Delivery, error) {
	if req.Quantity < 1 {
		return nil, &custom_error.ValidationError{Property: "quantity", Message: "must be at least 1"}
	}

	item, err := s.items.GetItem(productID)
	if err != nil {
		return nil, err
	}

	delivery := models.Delivery{
		BeneficiaryID:    req.BeneficiaryID,
		BeneficiaryEmail: req.BeneficiaryEmail,
		BeneficiaryName:  req.BeneficiaryName,
		ProductID:        item.ID,
		ProductName:      item.Name,
		ProductCategory:  item.Category,
		Quantity:         req.Quantity,
		DeliveryStatus:   models.DeliveryStatusPending,
		Notes:            req.Notes,
	}

	err = s.db.Transaction(func(tx *goqu.TxDatabase) error {
		before, after, err := s.ledger.Decrement(tx, productID, req.Quantity)
		if err != nil {
			return err
		}
		delivery.StockBefore = before
		delivery.StockAfter = after

		return s.ledger.InsertDelivery(tx, delivery)
	})
	if err != nil {
		return nil, err
	}

	s.changeLog.Record(models.ChangeTypeInventory,
		fmt.Sprintf("Baixa manual de %d x %s", req.Quantity, item.Name), actorName, "")

	return &delivery, nil
}
