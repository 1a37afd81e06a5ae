package items

import (
	"errors"
	"fmt"
	"strconv"

	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ItemRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

func (r *ItemRepository) itemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			"id", "name", "category", "good_type_id", "quantity", "min_stock",
			"supplier", "status_id", "created_at", "entry_date", "valid_until",
		).
		From("inventory_items")
}

func (r *ItemRepository) GetItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := r.itemQuery().Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select inventory items from database: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) GetItem(id int) (*models.InventoryItem, error) {
	var item models.InventoryItem
	query := r.itemQuery().Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to select inventory item from database: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "inventory item", ID: strconv.Itoa(id)}
	}

	return &item, nil
}

func (r *ItemRepository) PersistItem(req CreateItemRequest) (*models.InventoryItem, error) {
	query := r.repository.GoquDBWrapper.Insert("inventory_items").
		Rows(goqu.Record{
			"name":         req.Name,
			"category":     req.Category,
			"good_type_id": req.GoodTypeID,
			"quantity":     req.Quantity,
			"min_stock":    req.MinStock,
			"supplier":     req.Supplier,
			"status_id":    req.StatusID,
			"entry_date":   req.EntryDate,
			"valid_until":  req.ValidUntil,
		}).
		Returning("id")

	item := models.InventoryItem{
		Name:       req.Name,
		Category:   req.Category,
		GoodTypeID: req.GoodTypeID,
		Quantity:   req.Quantity,
		MinStock:   req.MinStock,
		Supplier:   req.Supplier,
		StatusID:   req.StatusID,
		EntryDate:  req.EntryDate,
		ValidUntil: req.ValidUntil,
	}

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return nil, custom_error.WrapDBError("inventory item "+req.Name, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert inventory item record: %w", err)
	}

	return &item, nil
}

func (r *ItemRepository) UpdateItem(id int, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return &custom_error.ValidationError{Message: "no fields to update"}
	}

	record := goqu.Record{}
	for key, value := range updates {
		record[key] = value
	}

	query := r.repository.GoquDBWrapper.Update("inventory_items").
		Set(record).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return &custom_error.NotFoundError{Resource: "inventory item", ID: strconv.Itoa(id)}
	}

	return nil
}

// DeleteItem removes an item. The deliveries table references items with ON
// DELETE RESTRICT, so items with delivery history cannot be removed; the
// violation surfaces as a ForeignKeyViolationError.
func (r *ItemRepository) DeleteItem(id int) error {
	query := r.repository.GoquDBWrapper.Delete("inventory_items").
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("inventory item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return &custom_error.NotFoundError{Resource: "inventory item", ID: strconv.Itoa(id)}
	}

	return nil
}
