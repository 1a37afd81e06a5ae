package models

// BeneficiaryProfile is the resolved identity of a beneficiary as seen by the
// stock and request screens. HasApplication distinguishes profiles backed by
// a real application row from profiles synthesized purely from an allowlisted
// email domain; the two regimes grant different category sets.
type BeneficiaryProfile struct {
	ApplicationID  int    `json:"application_id,omitempty"`
	HasApplication bool   `json:"has_application"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Status         string `json:"status"`

	WantsFood     bool `json:"wants_food"`
	WantsHygiene  bool `json:"wants_hygiene"`
	WantsCleaning bool `json:"wants_cleaning"`
	WantsOther    bool `json:"wants_other"`
}
