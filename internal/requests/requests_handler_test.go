package requests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newHandlerForTest(repo *MockRequestRepository, stockLedger *MockLedger) *RequestsHandler {
	entries := new(MockEntryWriter)
	entries.On("InsertEntry", mock.Anything).Return(nil).Maybe()

	return &RequestsHandler{
		Service: NewService(
			&stubTxRunner{},
			repo,
			new(MockItemReader),
			stockLedger,
			changelog.NewChangeLog(entries, zap.NewNop()),
		),
	}
}

func adminContext(w *httptest.ResponseRecorder, method, path string, body []byte) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Set("userID", "1")
	c.Set("email", "admin@ipca.pt")
	c.Set("role", "admin")
	return c
}

func TestApproveRequestConflictOnDoubleApproval(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	handler := newHandlerForTest(mockRepo, new(MockLedger))

	approved := pendingRequest(5)
	approved.Status = models.RequestStatusApproved
	mockRepo.On("GetRequest", 5).Return(approved, nil)

	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/requests/5/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.ApproveRequest(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.RequestStatusApproved, body["status"])
}

func TestApproveRequestInsufficientStockConflict(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedger)
	handler := newHandlerForTest(mockRepo, mockLedger)

	mockRepo.On("GetRequest", 5).Return(pendingRequest(5), nil)
	mockRepo.On("MarkApproved", mock.Anything, 5, "admin@ipca.pt", mock.Anything).Return(true, nil)
	mockLedger.On("Decrement", mock.Anything, 10, 2).
		Return(0, 0, &custom_error.InsufficientStockError{Product: "Arroz", Requested: 2, Available: 0})

	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/requests/5/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.ApproveRequest(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveRequestNotFound(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	handler := newHandlerForTest(mockRepo, new(MockLedger))

	mockRepo.On("GetRequest", 99).Return(nil, &custom_error.NotFoundError{Resource: "request", ID: "99"})

	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/requests/99/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.ApproveRequest(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveRequestBadID(t *testing.T) {
	handler := newHandlerForTest(new(MockRequestRepository), new(MockLedger))

	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/requests/abc/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.ApproveRequest(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectRequestHappyPath(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	handler := newHandlerForTest(mockRepo, new(MockLedger))

	mockRepo.On("GetRequest", 5).Return(pendingRequest(5), nil)
	mockRepo.On("MarkRejected", 5, "admin@ipca.pt", mock.AnythingOfType("time.Time")).Return(true, nil)

	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/requests/5/reject", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.RejectRequest(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetOwnRequestsFiltersByTokenEmail(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	handler := newHandlerForTest(mockRepo, new(MockLedger))

	mockRepo.On("GetRequests").Return([]models.Request{
		{ID: 1, BeneficiaryEmail: "a12345@alunos.ipca.pt", Status: models.RequestStatusPending},
		{ID: 2, BeneficiaryEmail: "other@gmail.com", Status: models.RequestStatusPending},
	}, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/requests/beneficiary", nil)
	c.Set("userID", "42")
	c.Set("email", "a12345@alunos.ipca.pt")
	c.Set("role", "beneficiario")

	handler.GetOwnRequests(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var reqs []models.Request
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	assert.Len(t, reqs, 1)
	assert.Equal(t, 1, reqs[0].ID)
}
