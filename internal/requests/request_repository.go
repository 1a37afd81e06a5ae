package requests

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type RequestRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *RequestRepository {
	return &RequestRepository{repository: r}
}

// InsertRequest persists the request row and its line items inside tx.
func (r *RequestRepository) InsertRequest(tx *goqu.TxDatabase, req models.Request) (int, error) {
	var requestID int
	query := tx.Insert("requests").
		Rows(goqu.Record{
			"beneficiary_id":    req.BeneficiaryID,
			"beneficiary_email": req.BeneficiaryEmail,
			"beneficiary_name":  req.BeneficiaryName,
			"status":            models.RequestStatusPending,
			"notes":             req.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&requestID); err != nil {
		return 0, fmt.Errorf("failed to insert request record: %w", err)
	}

	rows := make([]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		rows = append(rows, goqu.Record{
			"request_id":       requestID,
			"product_id":       item.ProductID,
			"product_name":     item.ProductName,
			"product_category": item.ProductCategory,
			"quantity":         item.Quantity,
			"unit":             item.Unit,
		})
	}

	if _, err := tx.Insert("request_items").Rows(rows...).Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to insert request items: %w", err)
	}

	return requestID, nil
}

func (r *RequestRepository) requestQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			"id", "beneficiary_id", "beneficiary_email", "beneficiary_name",
			"status", "notes", "created_at", "updated_at",
			"approved_by", "approved_at", "delivered_at",
		).
		From("requests")
}

func (r *RequestRepository) GetRequest(requestID int) (*models.Request, error) {
	var req models.Request
	query := r.requestQuery().Where(goqu.Ex{"id": requestID})

	found, err := query.Executor().ScanStruct(&req)
	if err != nil {
		return nil, fmt.Errorf("unable to select request from database: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "request", ID: strconv.Itoa(requestID)}
	}

	items, err := r.getItems([]int{requestID})
	if err != nil {
		return nil, err
	}
	req.Items = items[requestID]

	return &req, nil
}

func (r *RequestRepository) GetRequests() ([]models.Request, error) {
	var reqs []models.Request
	query := r.requestQuery().Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&reqs); err != nil {
		return nil, fmt.Errorf("unable to select requests from database: %w", err)
	}

	if len(reqs) == 0 {
		return reqs, nil
	}

	ids := make([]int, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}

	items, err := r.getItems(ids)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		reqs[i].Items = items[reqs[i].ID]
	}

	return reqs, nil
}

func (r *RequestRepository) getItems(requestIDs []int) (map[int][]models.RequestItem, error) {
	var items []models.RequestItem
	query := r.repository.GoquDBWrapper.
		Select("id", "request_id", "product_id", "product_name", "product_category", "quantity", "unit").
		From("request_items").
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select request items from database: %w", err)
	}

	grouped := make(map[int][]models.RequestItem, len(requestIDs))
	for _, item := range items {
		grouped[item.RequestID] = append(grouped[item.RequestID], item)
	}

	return grouped, nil
}

// MarkApproved transitions the request to APROVADO inside tx. The status
// guard in the WHERE clause is the idempotency barrier: a request already
// approved by a concurrent admin matches no row and the caller sees moved ==
// false.
func (r *RequestRepository) MarkApproved(tx *goqu.TxDatabase, requestID int, approver string, when time.Time) (bool, error) {
	query := tx.Update("requests").
		Set(goqu.Record{
			"status":      models.RequestStatusApproved,
			"approved_by": approver,
			"approved_at": when,
			"updated_at":  when,
		}).
		Where(goqu.Ex{"id": requestID, "status": models.RequestStatusPending})

	return execTransition(query.Executor().Exec())
}

func (r *RequestRepository) MarkRejected(requestID int, approver string, when time.Time) (bool, error) {
	query := r.repository.GoquDBWrapper.Update("requests").
		Set(goqu.Record{
			"status":      models.RequestStatusRejected,
			"approved_by": approver,
			"approved_at": when,
			"updated_at":  when,
		}).
		Where(goqu.Ex{"id": requestID, "status": models.RequestStatusPending})

	return execTransition(query.Executor().Exec())
}

func (r *RequestRepository) MarkDelivered(requestID int, when time.Time) (bool, error) {
	query := r.repository.GoquDBWrapper.Update("requests").
		Set(goqu.Record{
			"status":       models.RequestStatusDelivered,
			"delivered_at": when,
			"updated_at":   when,
		}).
		Where(goqu.Ex{"id": requestID, "status": models.RequestStatusApproved})

	return execTransition(query.Executor().Exec())
}

func execTransition(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
