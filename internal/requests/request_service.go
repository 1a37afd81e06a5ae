package requests

import (
	"fmt"
	"strings"
	"time"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TxRunner interface {
	Transaction(fn func(tx *goqu.TxDatabase) error) error
}

type Repository interface {
	InsertRequest(tx *goqu.TxDatabase, req models.Request) (int, error)
	GetRequest(requestID int) (*models.Request, error)
	GetRequests() ([]models.Request, error)
	MarkApproved(tx *goqu.TxDatabase, requestID int, approver string, when time.Time) (bool, error)
	MarkRejected(requestID int, approver string, when time.Time) (bool, error)
	MarkDelivered(requestID int, when time.Time) (bool, error)
}

type ItemReader interface {
	GetItem(id int) (*models.InventoryItem, error)
}

type Ledger interface {
	Decrement(tx *goqu.TxDatabase, productID, quantity int) (before, after int, err error)
	InsertDelivery(tx *goqu.TxDatabase, d models.Delivery) error
}

// RequestService owns the request state machine:
//
//	PENDENTE -> APROVADO -> ENTREGUE
//	PENDENTE -> REJEITADO
//
// Nothing leaves REJEITADO or ENTREGUE, and requests are never deleted.
type RequestService struct {
	db        TxRunner
	requests  Repository
	items     ItemReader
	ledger    Ledger
	changeLog *changelog.ChangeLog
}

func NewService(db TxRunner, requests Repository, items ItemReader, ledger Ledger, changeLog *changelog.ChangeLog) *RequestService {
	return &RequestService{
		db:        db,
		requests:  requests,
		items:     items,
		ledger:    ledger,
		changeLog: changeLog,
	}
}

// Create validates and persists a new PENDENTE request. Line items are
// denormalized with the product's current name and category so the request
// stays readable even if the item is later edited.
func (s *RequestService) Create(req models.CreateRequestRequest) (int, error) {
	if strings.TrimSpace(req.BeneficiaryEmail) == "" {
		return 0, &custom_error.ValidationError{Property: "beneficiary_email", Message: "Email do beneficiário é obrigatório"}
	}
	if len(req.Items) == 0 {
		return 0, &custom_error.ValidationError{Property: "items", Message: "Selecione pelo menos um item"}
	}

	request := models.Request{
		BeneficiaryID:    req.BeneficiaryID,
		BeneficiaryEmail: strings.TrimSpace(req.BeneficiaryEmail),
		BeneficiaryName:  req.BeneficiaryName,
		Notes:            req.Notes,
		Status:           models.RequestStatusPending,
	}

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return 0, &custom_error.ValidationError{Property: "items", Message: "Quantidade deve ser pelo menos 1"}
		}

		item, err := s.items.GetItem(line.ProductID)
		if err != nil {
			return 0, err
		}

		request.Items = append(request.Items, models.RequestItem{
			ProductID:       item.ID,
			ProductName:     item.Name,
			ProductCategory: item.Category,
			Quantity:        line.Quantity,
			Unit:            models.DefaultRequestItemUnit,
		})
	}

	var requestID int
	err := s.db.Transaction(func(tx *goqu.TxDatabase) error {
		var err error
		requestID, err = s.requests.InsertRequest(tx, request)
		return err
	})
	if err != nil {
		return 0, err
	}

	return requestID, nil
}

// Approve moves a PENDENTE request to APROVADO and settles its stock. The
// status flip, every decrement and every delivery record commit in one
// transaction: a failure on any line (insufficient stock included) rolls the
// whole approval back and the request stays PENDENTE.
func (s *RequestService) Approve(requestID int, approver string) error {
	req, err := s.requests.GetRequest(requestID)
	if err != nil {
		return err
	}

	switch req.Status {
	case models.RequestStatusApproved, models.RequestStatusDelivered:
		return &custom_error.AlreadyProcessedError{Status: req.Status}
	case models.RequestStatusPending:
		// proceed
	default:
		return &custom_error.InvalidStateTransitionError{Current: req.Status, Attempted: "approve"}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *goqu.TxDatabase) error {
		moved, err := s.requests.MarkApproved(tx, requestID, approver, now)
		if err != nil {
			return err
		}
		if !moved {
			// Lost the race to another admin between our read and this write.
			return &custom_error.AlreadyProcessedError{Status: models.RequestStatusApproved}
		}

		for _, line := range req.Items {
			before, after, err := s.ledger.Decrement(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}

			delivery := models.Delivery{
				BeneficiaryID:    req.BeneficiaryID,
				BeneficiaryEmail: req.BeneficiaryEmail,
				BeneficiaryName:  req.BeneficiaryName,
				ProductID:        line.ProductID,
				ProductName:      line.ProductName,
				ProductCategory:  line.ProductCategory,
				Quantity:         line.Quantity,
				StockBefore:      before,
				StockAfter:       after,
				DeliveryStatus:   models.DeliveryStatusDelivered,
				Notes:            fmt.Sprintf("Entrega aprovada do pedido %d", requestID),
				DeliveryDate:     &now,
			}
			if err := s.ledger.InsertDelivery(tx, delivery); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.changeLog.Record(models.ChangeTypeApproval,
		fmt.Sprintf("Pedido #%d aprovado (%s)", requestID, req.BeneficiaryName),
		approver, "")

	return nil
}

// Reject moves a PENDENTE request to REJEITADO. No stock effect. Rejecting
// an approved request is deliberately not expressible: the approval already
// settled stock and there is no compensation path.
func (s *RequestService) Reject(requestID int, approver string) error {
	req, err := s.requests.GetRequest(requestID)
	if err != nil {
		return err
	}

	if req.Status != models.RequestStatusPending {
		return &custom_error.InvalidStateTransitionError{Current: req.Status, Attempted: "reject"}
	}

	moved, err := s.requests.MarkRejected(requestID, approver, time.Now())
	if err != nil {
		return err
	}
	if !moved {
		return &custom_error.InvalidStateTransitionError{Current: req.Status, Attempted: "reject"}
	}

	s.changeLog.Record(models.ChangeTypeApproval,
		fmt.Sprintf("Pedido #%d rejeitado", requestID), approver, "")

	return nil
}

// MarkDelivered closes an APROVADO request once the beneficiary picked up
// the goods.
func (s *RequestService) MarkDelivered(requestID int) error {
	req, err := s.requests.GetRequest(requestID)
	if err != nil {
		return err
	}

	if req.Status != models.RequestStatusApproved {
		return &custom_error.InvalidStateTransitionError{Current: req.Status, Attempted: "deliver"}
	}

	moved, err := s.requests.MarkDelivered(requestID, time.Now())
	if err != nil {
		return err
	}
	if !moved {
		return &custom_error.InvalidStateTransitionError{Current: req.Status, Attempted: "deliver"}
	}

	return nil
}

func (s *RequestService) GetRequest(requestID int) (*models.Request, error) {
	return s.requests.GetRequest(requestID)
}

func (s *RequestService) GetRequests() ([]models.Request, error) {
	return s.requests.GetRequests()
}

// FilterByBeneficiaryEmail returns the requests whose denormalized email
// matches, ignoring case and surrounding whitespace. Pure, no I/O.
func FilterByBeneficiaryEmail(all []models.Request, email string) []models.Request {
	needle := strings.ToLower(strings.TrimSpace(email))

	filtered := make([]models.Request, 0)
	for _, req := range all {
		if strings.ToLower(strings.TrimSpace(req.BeneficiaryEmail)) == needle {
			filtered = append(filtered, req)
		}
	}
	return filtered
}
