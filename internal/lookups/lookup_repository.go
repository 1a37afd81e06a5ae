package lookups

import (
	"fmt"

	"sasocial/internal/repository"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LookupRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LookupRepository {
	return &LookupRepository{repository: r}
}

func (r *LookupRepository) GetLabels(table string) ([]models.Label, error) {
	var labels []models.Label
	query := r.repository.GoquDBWrapper.
		Select("id", "name").
		From(table).
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&labels); err != nil {
		return nil, fmt.Errorf("unable to select labels from %s: %w", table, err)
	}

	return labels, nil
}
