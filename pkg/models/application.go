package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	ApplicationStatusPending  = "pendente"
	ApplicationStatusAccepted = "aceite"
	ApplicationStatusApproved = "aprovado" // legacy synonym of "aceite", still present in old rows
	ApplicationStatusRejected = "recusado"
)

// Application is a submitted eligibility application (candidatura).
type Application struct {
	ID         int    `json:"id" db:"id"`
	SchoolYear string `json:"school_year" db:"school_year"`

	Name       string `json:"name" db:"name"`
	BirthDate  string `json:"birth_date" db:"birth_date"`
	NationalID string `json:"national_id" db:"national_id"`
	Phone      string `json:"phone" db:"phone"`
	Email      string `json:"email" db:"email"`

	Degree        string `json:"degree" db:"degree"`
	Course        string `json:"course" db:"course"`
	StudentNumber string `json:"student_number" db:"student_number"`

	// Tipologia do pedido: category flags declared by the applicant.
	WantsFood     bool `json:"wants_food" db:"wants_food"`
	WantsHygiene  bool `json:"wants_hygiene" db:"wants_hygiene"`
	WantsCleaning bool `json:"wants_cleaning" db:"wants_cleaning"`
	WantsOther    bool `json:"wants_other" db:"wants_other"`

	ScholarshipHolder string `json:"scholarship_holder" db:"scholarship_holder"`
	ScholarshipEntity string `json:"scholarship_entity" db:"scholarship_entity"`

	TruthDeclaration bool `json:"truth_declaration" db:"truth_declaration"`
	RGPDDeclaration  bool `json:"rgpd_declaration" db:"rgpd_declaration"`

	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty" db:"decided_at"`

	Documents []ApplicationDocument `json:"documents" db:"-"`
}

// ApplicationDocument is an attached supporting file, stored inline as base64.
type ApplicationDocument struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  int64  `json:"size"`
	Data  string `json:"data"`
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// FlatApplicationRecord is the row shape scanned from the database; documents
// land as a raw JSONB column.
type FlatApplicationRecord struct {
	Application
	DocumentsRaw []byte `db:"documents"`
}

func (fa *FlatApplicationRecord) TransformToApplication() (Application, error) {
	app := fa.Application
	if len(fa.DocumentsRaw) > 0 {
		if err := json.Unmarshal(fa.DocumentsRaw, &app.Documents); err != nil {
			return Application{}, fmt.Errorf("failed to unmarshal application documents: %w", err)
		}
	}
	return app, nil
}

// IsAccepted reports whether the application was approved under either of the
// status spellings found in production data. Case-insensitive: old rows were
// hand-entered and carry mixed casing.
func (a *Application) IsAccepted() bool {
	return strings.EqualFold(a.Status, ApplicationStatusAccepted) ||
		strings.EqualFold(a.Status, ApplicationStatusApproved)
}
