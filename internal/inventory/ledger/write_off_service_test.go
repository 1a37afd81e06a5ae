package ledger

import (
	"testing"

	"sasocial/internal/changelog"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type stubTxRunner struct {
	tx *goqu.TxDatabase
}

func (s *stubTxRunner) Transaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(s.tx)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Decrement(tx *goqu.TxDatabase, productID, quantity int) (int, int, error) {
	args := m.Called(tx, productID, quantity)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockLedger) InsertDelivery(tx *goqu.TxDatabase, d models.Delivery) error {
	args := m.Called(tx, d)
	return args.Error(0)
}

type MockItemReader struct {
	mock.Mock
}

func (m *MockItemReader) GetItem(id int) (*models.InventoryItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

type MockEntryWriter struct {
	mock.Mock
}

func (m *MockEntryWriter) InsertEntry(entry models.ChangeLogEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func newTestWriteOffService(items *MockItemReader, stockLedger *MockLedger) (*WriteOffService, *goqu.TxDatabase) {
	entries := new(MockEntryWriter)
	entries.On("InsertEntry", mock.Anything).Return(nil).Maybe()

	tx := new(goqu.TxDatabase)
	service := NewWriteOffService(
		&stubTxRunner{tx: tx},
		stockLedger,
		items,
		changelog.NewChangeLog(entries, zap.NewNop()),
	)
	return service, tx
}

func TestManualWriteOffRequiresPositiveQuantity(t *testing.T) {
	service, _ := newTestWriteOffService(new(MockItemReader), new(MockLedger))

	_, err := service.ManualWriteOff(10, WriteOffRequest{Quantity: 0}, "admin@ipca.pt")

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestManualWriteOffRecordsPendingDelivery(t *testing.T) {
	mockItems := new(MockItemReader)
	mockLedger := new(MockLedger)
	service, tx := newTestWriteOffService(mockItems, mockLedger)

	mockItems.On("GetItem", 10).Return(&models.InventoryItem{ID: 10, Name: "Arroz", Category: "Alimentos", Quantity: 8}, nil)
	mockLedger.On("Decrement", tx, 10, 3).Return(8, 5, nil).Once()
	mockLedger.On("InsertDelivery", tx, mock.MatchedBy(func(d models.Delivery) bool {
		return d.ProductID == 10 &&
			d.StockBefore == 8 && d.StockAfter == 5 &&
			d.DeliveryStatus == models.DeliveryStatusPending
	})).Return(nil).Once()

	delivery, err := service.ManualWriteOff(10, WriteOffRequest{
		Quantity:        3,
		BeneficiaryName: "Maria Silva",
	}, "admin@ipca.pt")

	assert.NoError(t, err)
	assert.Equal(t, 8, delivery.StockBefore)
	assert.Equal(t, 5, delivery.StockAfter)
	assert.Equal(t, models.DeliveryStatusPending, delivery.DeliveryStatus)
	mockLedger.AssertExpectations(t)
}

func TestManualWriteOffInsufficientStock(t *testing.T) {
	mockItems := new(MockItemReader)
	mockLedger := new(MockLedger)
	service, tx := newTestWriteOffService(mockItems, mockLedger)

	mockItems.On("GetItem", 10).Return(&models.InventoryItem{ID: 10, Name: "Arroz", Quantity: 1}, nil)
	mockLedger.On("Decrement", tx, 10, 3).
		Return(0, 0, &custom_error.InsufficientStockError{Product: "Arroz", Requested: 3, Available: 1}).Once()

	_, err := service.ManualWriteOff(10, WriteOffRequest{Quantity: 3}, "admin@ipca.pt")

	var insufficient *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	mockLedger.AssertNotCalled(t, "InsertDelivery", mock.Anything, mock.Anything)
}

func TestManualWriteOffUnknownItem(t *testing.T) {
	mockItems := new(MockItemReader)
	service, _ := newTestWriteOffService(mockItems, new(MockLedger))

	mockItems.On("GetItem", 99).Return(nil, &custom_error.NotFoundError{Resource: "inventory item", ID: "99"})

	_, err := service.ManualWriteOff(99, WriteOffRequest{Quantity: 1}, "admin@ipca.pt")

	var notFound *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
