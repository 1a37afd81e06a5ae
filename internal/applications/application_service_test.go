package applications

import (
	"testing"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) GetApplications() ([]models.Application, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetApplication(id int) (*models.Application, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) InsertApplication(app models.Application) (int, error) {
	args := m.Called(app)
	return args.Int(0), args.Error(1)
}

func (m *MockApplicationRepository) TransitionStatus(id int, from, to string) (bool, error) {
	args := m.Called(id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockAccountWriter struct {
	mock.Mock
}

func (m *MockAccountWriter) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

type MockEntryWriter struct {
	mock.Mock
}

func (m *MockEntryWriter) InsertEntry(entry models.ChangeLogEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func newTestApplicationService(repo Repository, accounts AccountWriter) *ApplicationService {
	entries := new(MockEntryWriter)
	entries.On("InsertEntry", mock.Anything).Return(nil).Maybe()

	return NewService(repo, accounts, changelog.NewChangeLog(entries, zap.NewNop()))
}

func TestSubmitValidApplication(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	service := newTestApplicationService(mockRepo, new(MockAccountWriter))

	mockRepo.On("InsertApplication", mock.MatchedBy(func(app models.Application) bool {
		return app.Email == "a12345@alunos.ipca.pt"
	})).Return(7, nil).Once()

	id, err := service.Submit(models.Application{
		Name:  "Maria Silva",
		Email: "  a12345@alunos.ipca.pt  ",
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	mockRepo.AssertExpectations(t)
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	service := newTestApplicationService(new(MockApplicationRepository), new(MockAccountWriter))

	for _, email := range []string{"", "not-an-email", "a@b", ".starts@ipca.pt", "ends@ipca.pt."} {
		_, err := service.Submit(models.Application{Name: "Maria Silva", Email: email})

		var validation *custom_error.ValidationError
		assert.ErrorAs(t, err, &validation, "email %q should be rejected", email)
	}
}

func TestSubmitRequiresName(t *testing.T) {
	service := newTestApplicationService(new(MockApplicationRepository), new(MockAccountWriter))

	_, err := service.Submit(models.Application{Email: "a12345@alunos.ipca.pt"})

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAcceptPendingApplicationWithAccount(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	mockAccounts := new(MockAccountWriter)
	service := newTestApplicationService(mockRepo, mockAccounts)

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Name:   "Maria Silva",
		Email:  "a12345@alunos.ipca.pt",
		Status: models.ApplicationStatusPending,
	}, nil)
	mockRepo.On("TransitionStatus", 7, models.ApplicationStatusPending, models.ApplicationStatusAccepted).
		Return(true, nil).Once()
	mockAccounts.On("PersistUser", mock.MatchedBy(func(req models.CreateUserRequest) bool {
		return req.Email == "a12345@alunos.ipca.pt" && req.Role == "beneficiario"
	}), mock.Anything).Return(nil).Once()

	tempPassword, err := service.Accept(7, true, "admin@ipca.pt")

	assert.NoError(t, err)
	assert.Len(t, tempPassword, tempPasswordLength)
	mockRepo.AssertExpectations(t)
	mockAccounts.AssertExpectations(t)
}

func TestAcceptWithoutAccountCreation(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	mockAccounts := new(MockAccountWriter)
	service := newTestApplicationService(mockRepo, mockAccounts)

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Name:   "Maria Silva",
		Email:  "a12345@alunos.ipca.pt",
		Status: models.ApplicationStatusPending,
	}, nil)
	mockRepo.On("TransitionStatus", 7, models.ApplicationStatusPending, models.ApplicationStatusAccepted).
		Return(true, nil).Once()

	tempPassword, err := service.Accept(7, false, "admin@ipca.pt")

	assert.NoError(t, err)
	assert.Empty(t, tempPassword)
	mockAccounts.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestAcceptNonPendingApplication(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	service := newTestApplicationService(mockRepo, new(MockAccountWriter))

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Status: models.ApplicationStatusAccepted,
	}, nil)

	_, err := service.Accept(7, false, "admin@ipca.pt")

	var invalid *custom_error.InvalidStateTransitionError
	assert.ErrorAs(t, err, &invalid)
	mockRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptExistingAccountIsNotAnError(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	mockAccounts := new(MockAccountWriter)
	service := newTestApplicationService(mockRepo, mockAccounts)

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Name:   "Maria Silva",
		Email:  "a12345@alunos.ipca.pt",
		Status: models.ApplicationStatusPending,
	}, nil)
	mockRepo.On("TransitionStatus", 7, models.ApplicationStatusPending, models.ApplicationStatusAccepted).
		Return(true, nil).Once()
	mockAccounts.On("PersistUser", mock.Anything, mock.Anything).
		Return(custom_error.WrapDBError("account for a12345@alunos.ipca.pt", "23505")).Once()

	tempPassword, err := service.Accept(7, true, "admin@ipca.pt")

	// The applicant keeps their existing credentials; the acceptance stands.
	assert.NoError(t, err)
	assert.Empty(t, tempPassword)
}

func TestRejectPendingApplication(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	service := newTestApplicationService(mockRepo, new(MockAccountWriter))

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Name:   "Maria Silva",
		Status: models.ApplicationStatusPending,
	}, nil)
	mockRepo.On("TransitionStatus", 7, models.ApplicationStatusPending, models.ApplicationStatusRejected).
		Return(true, nil).Once()

	err := service.Reject(7, "admin@ipca.pt")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRejectNonPendingApplication(t *testing.T) {
	mockRepo := new(MockApplicationRepository)
	service := newTestApplicationService(mockRepo, new(MockAccountWriter))

	mockRepo.On("GetApplication", 7).Return(&models.Application{
		ID:     7,
		Status: models.ApplicationStatusRejected,
	}, nil)

	err := service.Reject(7, "admin@ipca.pt")

	var invalid *custom_error.InvalidStateTransitionError
	assert.ErrorAs(t, err, &invalid)
}
