package applications

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const tempPasswordLength = 12

type Repository interface {
	GetApplications() ([]models.Application, error)
	GetApplication(id int) (*models.Application, error)
	InsertApplication(app models.Application) (int, error)
	TransitionStatus(id int, from, to string) (bool, error)
}

type AccountWriter interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
}

type ApplicationService struct {
	repo      Repository
	accounts  AccountWriter
	changeLog *changelog.ChangeLog
}

func NewService(repo Repository, accounts AccountWriter, changeLog *changelog.ChangeLog) *ApplicationService {
	return &ApplicationService{
		repo:      repo,
		accounts:  accounts,
		changeLog: changeLog,
	}
}

// Submit records a new application from the public intake form.
func (s *ApplicationService) Submit(app models.Application) (int, error) {
	email := strings.TrimSpace(app.Email)
	if !validEmail(email) {
		return 0, &custom_error.ValidationError{Property: "email", Message: "Email inválido: " + email}
	}
	if strings.TrimSpace(app.Name) == "" {
		return 0, &custom_error.ValidationError{Property: "name", Message: "Nome é obrigatório"}
	}
	app.Email = email

	return s.repo.InsertApplication(app)
}

// Accept transitions a pending application to "aceite" and, when requested,
// provisions a login for the applicant. The temporary password is returned
// exactly once for the admin to hand over; afterwards only the hash exists.
func (s *ApplicationService) Accept(id int, createAccount bool, actorName string) (string, error) {
	app, err := s.repo.GetApplication(id)
	if err != nil {
		return "", err
	}

	if app.Status != models.ApplicationStatusPending {
		return "", &custom_error.InvalidStateTransitionError{Current: app.Status, Attempted: "accept"}
	}

	moved, err := s.repo.TransitionStatus(id, models.ApplicationStatusPending, models.ApplicationStatusAccepted)
	if err != nil {
		return "", err
	}
	if !moved {
		return "", &custom_error.InvalidStateTransitionError{Current: app.Status, Attempted: "accept"}
	}

	var tempPassword string
	if createAccount {
		tempPassword, err = s.provisionAccount(app)
		if err != nil {
			return "", err
		}
	}

	s.changeLog.Record(models.ChangeTypeApproval,
		fmt.Sprintf("Candidatura #%d (%s) aceite", id, app.Name), actorName, strconv.Itoa(id))

	return tempPassword, nil
}

func (s *ApplicationService) Reject(id int, actorName string) error {
	app, err := s.repo.GetApplication(id)
	if err != nil {
		return err
	}

	if app.Status != models.ApplicationStatusPending {
		return &custom_error.InvalidStateTransitionError{Current: app.Status, Attempted: "reject"}
	}

	moved, err := s.repo.TransitionStatus(id, models.ApplicationStatusPending, models.ApplicationStatusRejected)
	if err != nil {
		return err
	}
	if !moved {
		return &custom_error.InvalidStateTransitionError{Current: app.Status, Attempted: "reject"}
	}

	s.changeLog.Record(models.ChangeTypeApproval,
		fmt.Sprintf("Candidatura #%d (%s) recusada", id, app.Name), actorName, strconv.Itoa(id))

	return nil
}

func (s *ApplicationService) GetApplications() ([]models.Application, error) {
	return s.repo.GetApplications()
}

func (s *ApplicationService) GetApplication(id int) (*models.Application, error) {
	return s.repo.GetApplication(id)
}

func (s *ApplicationService) provisionAccount(app *models.Application) (string, error) {
	if !validEmail(app.Email) {
		return "", &custom_error.ValidationError{Property: "email", Message: "Email inválido: " + app.Email}
	}

	tempPassword, err := generateTemporaryPassword()
	if err != nil {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	err = s.accounts.PersistUser(models.CreateUserRequest{
		Email:    app.Email,
		Fullname: app.Name,
		Role:     "beneficiario",
	}, hashedPassword)
	if err != nil {
		// An existing account is fine: the status transition stands and the
		// applicant keeps their old credentials.
		var unique *custom_error.UniqueViolationError
		if errors.As(err, &unique) {
			return "", nil
		}
		return "", err
	}

	return tempPassword, nil
}

func validEmail(email string) bool {
	if email == "" || !emailPattern.MatchString(email) {
		return false
	}
	for _, r := range []string{".", "-", "_"} {
		if strings.HasPrefix(email, r) || strings.HasSuffix(email, r) {
			return false
		}
	}
	return true
}

func generateTemporaryPassword() (string, error) {
	const alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	out := make([]byte, tempPasswordLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
