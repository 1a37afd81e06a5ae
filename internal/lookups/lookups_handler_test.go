package lookups

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sasocial/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockLabelReader struct {
	mock.Mock
}

func (m *MockLabelReader) GetLabels(table string) ([]models.Label, error) {
	args := m.Called(table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Label), args.Error(1)
}

func lookupContext(w *httptest.ResponseRecorder, table string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/lookups/"+table, nil)
	c.Params = gin.Params{{Key: "table", Value: table}}
	return c
}

func TestGetLabelsReturnsDictionary(t *testing.T) {
	mockRepo := new(MockLabelReader)
	handler := &LookupsHandler{Repository: mockRepo, log: zap.NewNop()}

	mockRepo.On("GetLabels", "good_types").Return([]models.Label{
		{ID: 1, Name: "Alimentos"},
		{ID: 2, Name: "Higiene Pessoal"},
	}, nil)

	w := httptest.NewRecorder()
	handler.GetLabels(lookupContext(w, "good-types"))

	assert.Equal(t, http.StatusOK, w.Code)

	var labels []models.Label
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &labels))
	assert.Len(t, labels, 2)
	assert.Equal(t, "Alimentos", labels[0].Name)
}

func TestGetLabelsReadFailureDegradesToEmptyList(t *testing.T) {
	mockRepo := new(MockLabelReader)
	handler := &LookupsHandler{Repository: mockRepo, log: zap.NewNop()}

	mockRepo.On("GetLabels", "delivery_status").Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	handler.GetLabels(lookupContext(w, "delivery-status"))

	// Forms stay usable with free-text input when a label table is
	// unreadable: the caller sees an empty dictionary, never an error.
	assert.Equal(t, http.StatusOK, w.Code)

	var labels []models.Label
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &labels))
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestGetLabelsUnknownTable(t *testing.T) {
	mockRepo := new(MockLabelReader)
	handler := &LookupsHandler{Repository: mockRepo, log: zap.NewNop()}

	w := httptest.NewRecorder()
	handler.GetLabels(lookupContext(w, "users"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertNotCalled(t, "GetLabels", mock.Anything)
}
