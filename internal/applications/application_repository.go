package applications

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ApplicationRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ApplicationRepository {
	return &ApplicationRepository{repository: r}
}

func (r *ApplicationRepository) applicationQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			"id", "school_year", "name", "birth_date", "national_id", "phone", "email",
			"degree", "course", "student_number",
			"wants_food", "wants_hygiene", "wants_cleaning", "wants_other",
			"scholarship_holder", "scholarship_entity",
			"truth_declaration", "rgpd_declaration",
			"status", "created_at", "decided_at", "documents",
		).
		From("applications")
}

func (r *ApplicationRepository) GetApplications() ([]models.Application, error) {
	var flatApps []models.FlatApplicationRecord
	query := r.applicationQuery().Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&flatApps); err != nil {
		return nil, fmt.Errorf("unable to select applications from database: %w", err)
	}

	apps := make([]models.Application, 0, len(flatApps))
	for i := range flatApps {
		app, err := flatApps[i].TransformToApplication()
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, nil
}

func (r *ApplicationRepository) GetApplication(id int) (*models.Application, error) {
	var flatApp models.FlatApplicationRecord
	query := r.applicationQuery().Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&flatApp)
	if err != nil {
		return nil, fmt.Errorf("unable to select application from database: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "application", ID: strconv.Itoa(id)}
	}

	app, err := flatApp.TransformToApplication()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) InsertApplication(app models.Application) (int, error) {
	documents, err := json.Marshal(app.Documents)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal application documents: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("applications").
		Rows(goqu.Record{
			"school_year":        app.SchoolYear,
			"name":               app.Name,
			"birth_date":         app.BirthDate,
			"national_id":        app.NationalID,
			"phone":              app.Phone,
			"email":              app.Email,
			"degree":             app.Degree,
			"course":             app.Course,
			"student_number":     app.StudentNumber,
			"wants_food":         app.WantsFood,
			"wants_hygiene":      app.WantsHygiene,
			"wants_cleaning":     app.WantsCleaning,
			"wants_other":        app.WantsOther,
			"scholarship_holder": app.ScholarshipHolder,
			"scholarship_entity": app.ScholarshipEntity,
			"truth_declaration":  app.TruthDeclaration,
			"rgpd_declaration":   app.RGPDDeclaration,
			"status":             models.ApplicationStatusPending,
			"documents":          string(documents),
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("application for this email", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert application record: %w", err)
	}

	return id, nil
}

// TransitionStatus moves an application out of "pendente". The WHERE clause
// carries the expected current status so review decisions are one-way even
// under concurrent admins.
func (r *ApplicationRepository) TransitionStatus(id int, from, to string) (bool, error) {
	query := r.repository.GoquDBWrapper.Update("applications").
		Set(goqu.Record{
			"status":     to,
			"decided_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id, "status": from})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update application status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	return affected > 0, nil
}
