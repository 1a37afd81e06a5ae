package changelog

import (
	"fmt"

	"sasocial/internal/repository"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

func (r *Repository) InsertEntry(entry models.ChangeLogEntry) error {
	query := r.repository.GoquDBWrapper.Insert("change_log").
		Rows(goqu.Record{
			"type":         entry.Type,
			"description":  entry.Description,
			"actor_name":   entry.ActorName,
			"actor_number": entry.ActorNumber,
			"date":         entry.Date,
			"time":         entry.Time,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert change log entry: %w", err)
	}

	return nil
}

func (r *Repository) GetEntries() ([]models.ChangeLogEntry, error) {
	var entries []models.ChangeLogEntry
	query := r.repository.GoquDBWrapper.
		Select("id", "type", "description", "actor_name", "actor_number", "date", "time").
		From("change_log").
		Order(goqu.I("id").Desc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}
