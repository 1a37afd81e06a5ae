package identity

import (
	"os"
	"strings"

	"sasocial/pkg/models"

	"go.uber.org/zap"
)

type Role string

const (
	RoleAdministrator Role = "admin"
	RoleBeneficiary   Role = "beneficiario"
)

// Email domains whose holders are beneficiaries without needing an
// application on file.
var beneficiaryDomains = []string{
	"@alunos.ipca.pt",
	"@ipca.pt",
	"@gmail.com",
}

// ApplicationsReader is the slice of the applications store the resolver
// needs for its fallback scan.
type ApplicationsReader interface {
	GetApplications() ([]models.Application, error)
}

type Resolver struct {
	apps        ApplicationsReader
	log         *zap.Logger
	adminUserID string
	adminEmail  string
}

func NewResolver(apps ApplicationsReader, log *zap.Logger) *Resolver {
	adminUserID := os.Getenv("ADMIN_USER_ID")
	if adminUserID == "" {
		adminUserID = "1"
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@ipca.pt"
	}

	return &Resolver{
		apps:        apps,
		log:         log,
		adminUserID: adminUserID,
		adminEmail:  adminEmail,
	}
}

// Resolve classifies an authenticated identity. Anything that is not a
// beneficiary falls back to the administrator view; precedence order matters
// and mirrors the login flow exactly.
func (r *Resolver) Resolve(userID, email string) Role {
	if userID == r.adminUserID {
		return RoleAdministrator
	}

	if strings.TrimSpace(email) == "" {
		return RoleAdministrator
	}

	// The admin mailbox is reserved for the back office, never a beneficiary.
	if strings.EqualFold(email, r.adminEmail) {
		return RoleAdministrator
	}

	if hasBeneficiaryDomain(email) {
		return RoleBeneficiary
	}

	// Fallback: a full scan of applications for an accepted one with this
	// email. Read failures are swallowed on purpose: login must not block on
	// the store, so a transient error classifies as not-a-beneficiary.
	apps, err := r.apps.GetApplications()
	if err != nil {
		r.log.Warn("role resolution: unable to scan applications, defaulting to administrator view",
			zap.String("email", email), zap.Error(err))
		return RoleAdministrator
	}

	for _, app := range apps {
		if strings.EqualFold(app.Email, email) && app.IsAccepted() {
			return RoleBeneficiary
		}
	}

	return RoleAdministrator
}

// Profile resolves the full beneficiary profile for an identity, or nil when
// the identity is not a beneficiary.
//
// An application matching the email is always preferred, even one still
// pending: its declared categories restrict what the beneficiary sees, and
// its status is coerced to accepted in the returned value only (never
// persisted). Without an application, an allowlisted domain yields a
// synthesized profile with every category flag set.
func (r *Resolver) Profile(userID, email string) (*models.BeneficiaryProfile, error) {
	if userID == r.adminUserID {
		return nil, nil
	}
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	if strings.EqualFold(email, r.adminEmail) {
		return nil, nil
	}

	apps, err := r.apps.GetApplications()
	if err != nil {
		return nil, err
	}

	for _, app := range apps {
		if !strings.EqualFold(app.Email, email) {
			continue
		}
		status := app.Status
		if !app.IsAccepted() {
			status = models.ApplicationStatusAccepted
		}
		return &models.BeneficiaryProfile{
			ApplicationID:  app.ID,
			HasApplication: true,
			Name:           app.Name,
			Email:          app.Email,
			Status:         status,
			WantsFood:      app.WantsFood,
			WantsHygiene:   app.WantsHygiene,
			WantsCleaning:  app.WantsCleaning,
			WantsOther:     app.WantsOther,
		}, nil
	}

	if hasBeneficiaryDomain(email) {
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		return &models.BeneficiaryProfile{
			HasApplication: false,
			Name:           name,
			Email:          email,
			Status:         models.ApplicationStatusAccepted,
			WantsFood:      true,
			WantsHygiene:   true,
			WantsCleaning:  true,
			WantsOther:     true,
		}, nil
	}

	return nil, nil
}

func hasBeneficiaryDomain(email string) bool {
	lower := strings.ToLower(email)
	for _, domain := range beneficiaryDomains {
		if strings.HasSuffix(lower, domain) {
			return true
		}
	}
	return false
}
