package jobs

import (
	"context"
	"errors"
	"testing"

	"koperasimart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBarangRepository mocks the BarangRepository interface for testing
type MockBarangRepository struct {
	mock.Mock
}

func (m *MockBarangRepository) Create(ctx context.Context, barang *models.Barang) error {
	args := m.Called(ctx, barang)
	return args.Error(0)
}

func (m *MockBarangRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Barang, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Barang), args.Error(1)
}

func (m *MockBarangRepository) GetByKode(ctx context.Context, tenantID uuid.UUID, kode string) (*models.Barang, error) {
	args := m.Called(ctx, tenantID, kode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Barang), args.Error(1)
}

func (m *MockBarangRepository) Update(ctx context.Context, barang *models.Barang) error {
	args := m.Called(ctx, barang)
	return args.Error(0)
}

func (m *MockBarangRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockBarangRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Barang), args.Error(1)
}

func (m *MockBarangRepository) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Barang), args.Error(1)
}

func (m *MockBarangRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockBarangRepository) KodeExists(ctx context.Context, tenantID uuid.UUID, kode string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, kode, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockAuditLogger mocks the AuditLogger interface for testing
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogActivity(ctx context.Context, tenantID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, clientIP string, oldValues, newValues models.JSONB) error {
	args := m.Called(ctx, tenantID, tableName, recordID, action, changedBy, clientIP, oldValues, newValues)
	return args.Error(0)
}

type StockAlertServiceTestSuite struct {

	suite.Suite
	mockBarangRepo *MockBarangRepository
	mockAudit      *MockAuditLogger
	service        *StockAlertService
	tenantID       uuid.UUID
}

func (suite *StockAlertServiceTestSuite) SetupTest() {
	suite.mockBarangRepo = &MockBarangRepository{}
	suite.mockAudit = &MockAuditLogger{}
	suite.service = NewStockAlertService(suite.mockBarangRepo, suite.mockAudit)
	suite.tenantID = uuid.New()
}

func (suite *StockAlertServiceTestSuite) TearDownTest() {
	suite.mockBarangRepo.AssertExpectations(suite.T())
}

func TestStockAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockAlertServiceTestSuite))
}

func lowStockBarang(tenantID uuid.UUID, kode, nama string, stok, stokMinimum int) *models.Barang {
	return &models.Barang{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Kode:        kode,
		Nama:        nama,
		Stok:        stok,
		StokMinimum: stokMinimum,
		Status:      models.StatusAktif,
	}
}

func (suite *StockAlertServiceTestSuite) TestCheckLowStock_MapsRowsToAlerts() {
	ctx := context.Background()

	items := []*models.Barang{
		lowStockBarang(suite.tenantID, "BRG-001", "Beras Premium", 2, 10),
		lowStockBarang(suite.tenantID, "BRG-002", "Gula Pasir", 5, 5),
	}
	suite.mockBarangRepo.On("ListLowStock", ctx, suite.tenantID).Return(items, nil).Once()

	alerts, err := suite.service.CheckLowStock(ctx, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), alerts, 2)

	assert.Equal(suite.T(), suite.tenantID, alerts[0].TenantID)
	assert.Equal(suite.T(), items[0].ID, alerts[0].BarangID)
	assert.Equal(suite.T(), "BRG-001", alerts[0].Kode)
	assert.Equal(suite.T(), "Beras Premium", alerts[0].Nama)
	assert.Equal(suite.T(), 2, alerts[0].Stok)
	assert.Equal(suite.T(), 10, alerts[0].StokMinimum)
}

func (suite *StockAlertServiceTestSuite) TestCheckLowStock_NoAlerts() {
	ctx := context.Background()

	suite.mockBarangRepo.On("ListLowStock", ctx, suite.tenantID).Return([]*models.Barang{}, nil).Once()

	alerts, err := suite.service.CheckLowStock(ctx, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), alerts, 0)
}

func (suite *StockAlertServiceTestSuite) TestCheckLowStock_RepositoryError() {
	ctx := context.Background()

	suite.mockBarangRepo.On("ListLowStock", ctx, suite.tenantID).Return(nil, errors.New("database connection failed")).Once()

	alerts, err := suite.service.CheckLowStock(ctx, suite.tenantID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), alerts)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *StockAlertServiceTestSuite) TestCheckAndLogAcrossAllTenants() {
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	suite.mockBarangRepo.On("ListTenantIDs", ctx).Return([]uuid.UUID{tenantA, tenantB}, nil).Once()
	suite.mockBarangRepo.On("ListLowStock", ctx, tenantA).Return([]*models.Barang{
		lowStockBarang(tenantA, "BRG-010", "Minyak Goreng", 1, 8),
	}, nil).Once()
	suite.mockBarangRepo.On("ListLowStock", ctx, tenantB).Return([]*models.Barang{}, nil).Once()
	suite.mockAudit.On("LogActivity", ctx, tenantA, "barang", mock.AnythingOfType("string"), models.ActionAlert,
		(*uuid.UUID)(nil), "", models.JSONB(nil), mock.MatchedBy(func(summary models.JSONB) bool {
			return summary["alert_count"] == 1
		})).Return(nil).Once()

	err := suite.service.CheckAndLogLowStockAcrossAllTenants(ctx)
	assert.NoError(suite.T(), err)
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *StockAlertServiceTestSuite) TestCheckAndLogAcrossAllTenants_SkipsFailingTenant() {
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	suite.mockBarangRepo.On("ListTenantIDs", ctx).Return([]uuid.UUID{tenantA, tenantB}, nil).Once()
	suite.mockBarangRepo.On("ListLowStock", ctx, tenantA).Return(nil, errors.New("connection lost")).Once()
	suite.mockBarangRepo.On("ListLowStock", ctx, tenantB).Return([]*models.Barang{}, nil).Once()

	err := suite.service.CheckAndLogLowStockAcrossAllTenants(ctx)
	assert.NoError(suite.T(), err)
}

func (suite *StockAlertServiceTestSuite) TestScheduledLowStockCheck_TenantListError() {
	ctx := context.Background()

	suite.mockBarangRepo.On("ListTenantIDs", ctx).Return(nil, errors.New("database down")).Once()

	err := suite.service.ScheduledLowStockCheck(ctx)
	assert.Error(suite.T(), err)
}

func TestLogLowStockAlerts_DoesNotPanic(t *testing.T) {
	service := &StockAlertService{}

	service.LogLowStockAlerts([]StockAlert{})
	service.LogLowStockAlerts([]StockAlert{
		{TenantID: uuid.New(), Kode: "BRG-001", Nama: "Beras Premium", Stok: 2, StokMinimum: 10},
		{TenantID: uuid.New(), Kode: "BRG-002", Nama: "Gula Pasir", Stok: 0, StokMinimum: 5},
	})
}
