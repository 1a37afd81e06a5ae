package identity

import (
	"errors"
	"testing"

	"sasocial/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockApplicationsReader struct {
	mock.Mock
}

func (m *MockApplicationsReader) GetApplications() ([]models.Application, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func newTestResolver(apps ApplicationsReader) *Resolver {
	return &Resolver{
		apps:        apps,
		log:         zap.NewNop(),
		adminUserID: "1",
		adminEmail:  "admin@ipca.pt",
	}
}

func TestResolveAdminByUserID(t *testing.T) {
	resolver := newTestResolver(new(MockApplicationsReader))

	role := resolver.Resolve("1", "whoever@alunos.ipca.pt")

	assert.Equal(t, RoleAdministrator, role)
}

func TestResolveAdminByEmail(t *testing.T) {
	resolver := newTestResolver(new(MockApplicationsReader))

	assert.Equal(t, RoleAdministrator, resolver.Resolve("42", "admin@ipca.pt"))
	assert.Equal(t, RoleAdministrator, resolver.Resolve("42", "ADMIN@IPCA.PT"))
}

func TestResolveEmptyEmailIsAdministrator(t *testing.T) {
	resolver := newTestResolver(new(MockApplicationsReader))

	assert.Equal(t, RoleAdministrator, resolver.Resolve("42", "   "))
}

func TestResolveBeneficiaryByDomain(t *testing.T) {
	resolver := newTestResolver(new(MockApplicationsReader))

	assert.Equal(t, RoleBeneficiary, resolver.Resolve("42", "a12345@alunos.ipca.pt"))
	assert.Equal(t, RoleBeneficiary, resolver.Resolve("42", "docente@ipca.pt"))
	assert.Equal(t, RoleBeneficiary, resolver.Resolve("42", "someone@gmail.com"))
}

func TestResolveFallbackScanFindsAcceptedApplication(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{
		{Email: "maria@outlook.com", Status: models.ApplicationStatusAccepted},
	}, nil)

	resolver := newTestResolver(mockApps)

	assert.Equal(t, RoleBeneficiary, resolver.Resolve("42", "Maria@Outlook.com"))
}

func TestResolveFallbackScanLegacyApprovedStatus(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{
		{Email: "joao@outlook.com", Status: models.ApplicationStatusApproved},
	}, nil)

	resolver := newTestResolver(mockApps)

	assert.Equal(t, RoleBeneficiary, resolver.Resolve("42", "joao@outlook.com"))
}

func TestResolveFallbackScanPendingApplicationDoesNotQualify(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{
		{Email: "rui@outlook.com", Status: models.ApplicationStatusPending},
	}, nil)

	resolver := newTestResolver(mockApps)

	assert.Equal(t, RoleAdministrator, resolver.Resolve("42", "rui@outlook.com"))
}

func TestResolveStoreErrorIsSwallowed(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return(nil, errors.New("connection refused"))

	resolver := newTestResolver(mockApps)

	// Login must never block on the applications store; a failed scan
	// classifies as administrator.
	assert.Equal(t, RoleAdministrator, resolver.Resolve("42", "maria@outlook.com"))
}

func TestProfileAdminHasNoProfile(t *testing.T) {
	resolver := newTestResolver(new(MockApplicationsReader))

	profile, err := resolver.Profile("1", "a12345@alunos.ipca.pt")

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfilePrefersApplicationAndCoercesStatus(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{
		{
			ID:        7,
			Name:      "Maria Silva",
			Email:     "a12345@alunos.ipca.pt",
			Status:    models.ApplicationStatusPending,
			WantsFood: true,
		},
	}, nil)

	resolver := newTestResolver(mockApps)

	profile, err := resolver.Profile("42", "a12345@alunos.ipca.pt")

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.True(t, profile.HasApplication)
	assert.Equal(t, 7, profile.ApplicationID)
	assert.Equal(t, models.ApplicationStatusAccepted, profile.Status)
	assert.True(t, profile.WantsFood)
	assert.False(t, profile.WantsHygiene)
}

func TestProfileSynthesizedForAllowlistedDomain(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{}, nil)

	resolver := newTestResolver(mockApps)

	profile, err := resolver.Profile("42", "someone@gmail.com")

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.False(t, profile.HasApplication)
	assert.True(t, profile.WantsFood)
	assert.True(t, profile.WantsHygiene)
	assert.True(t, profile.WantsCleaning)
	assert.True(t, profile.WantsOther)
}

func TestProfileUnknownDomainWithoutApplication(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return([]models.Application{}, nil)

	resolver := newTestResolver(mockApps)

	profile, err := resolver.Profile("42", "maria@outlook.com")

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileStoreErrorPropagates(t *testing.T) {
	mockApps := new(MockApplicationsReader)
	mockApps.On("GetApplications").Return(nil, errors.New("connection refused"))

	resolver := newTestResolver(mockApps)

	_, err := resolver.Profile("42", "maria@outlook.com")

	assert.Error(t, err)
}
