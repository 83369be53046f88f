package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"koperasimart/internal/models"
	"koperasimart/internal/query"
	"koperasimart/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

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

type MockKategoriRepository struct {
	mock.Mock
}

func (m *MockKategoriRepository) Create(ctx context.Context, kategori *models.Kategori) error {
	args := m.Called(ctx, kategori)
	return args.Error(0)
}

func (m *MockKategoriRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Kategori, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Kategori), args.Error(1)
}

func (m *MockKategoriRepository) Update(ctx context.Context, kategori *models.Kategori) error {
	args := m.Called(ctx, kategori)
	return args.Error(0)
}

func (m *MockKategoriRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockKategoriRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Kategori, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Kategori), args.Error(1)
}

func (m *MockKategoriRepository) InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

type MockSatuanRepository struct {
	mock.Mock
}

func (m *MockSatuanRepository) Create(ctx context.Context, satuan *models.Satuan) error {
	args := m.Called(ctx, satuan)
	return args.Error(0)
}

func (m *MockSatuanRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Satuan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Satuan), args.Error(1)
}

func (m *MockSatuanRepository) Update(ctx context.Context, satuan *models.Satuan) error {
	args := m.Called(ctx, satuan)
	return args.Error(0)
}

func (m *MockSatuanRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSatuanRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Satuan, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Satuan), args.Error(1)
}

func (m *MockSatuanRepository) InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetBarang(ctx context.Context, tenantID, barangID uuid.UUID) (*models.Barang, error) {
	args := m.Called(ctx, tenantID, barangID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Barang), args.Error(1)
}

func (m *MockCacheService) SetBarang(ctx context.Context, tenantID uuid.UUID, barang *models.Barang, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, barang, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBarang(ctx context.Context, tenantID, barangID uuid.UUID) error {
	args := m.Called(ctx, tenantID, barangID)
	return args.Error(0)
}

func (m *MockCacheService) GetBarangSnapshot(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Barang), args.Error(1)
}

func (m *MockCacheService) SetBarangSnapshot(ctx context.Context, tenantID uuid.UUID, items []*models.Barang, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, items, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBarangSnapshot(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) GetKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) (*models.Kategori, error) {
	args := m.Called(ctx, tenantID, kategoriID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Kategori), args.Error(1)
}

func (m *MockCacheService) SetKategori(ctx context.Context, tenantID uuid.UUID, kategori *models.Kategori, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, kategori, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteKategori(ctx context.Context, tenantID, kategoriID uuid.UUID) error {
	args := m.Called(ctx, tenantID, kategoriID)
	return args.Error(0)
}

func (m *MockCacheService) GetSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) (*models.Satuan, error) {
	args := m.Called(ctx, tenantID, satuanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Satuan), args.Error(1)
}

func (m *MockCacheService) SetSatuan(ctx context.Context, tenantID uuid.UUID, satuan *models.Satuan, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, satuan, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSatuan(ctx context.Context, tenantID, satuanID uuid.UUID) error {
	args := m.Called(ctx, tenantID, satuanID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockAuditLogsService struct {
	mock.Mock
}

func (m *MockAuditLogsService) LogActivity(ctx context.Context, tenantID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, clientIP string, oldValues, newValues models.JSONB) error {
	args := m.Called(ctx, tenantID, tableName, recordID, action, changedBy, clientIP, oldValues, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) GetAuditLog(ctx context.Context, tenantID, auditLogID uuid.UUID) (*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, auditLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) GetEntityHistory(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, tableName, recordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) GetActions(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuditLogsService) LogEntityCreate(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, clientIP string, newValues models.JSONB) error {
	args := m.Called(ctx, tenantID, tableName, recordID, changedBy, clientIP, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) LogEntityUpdate(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, clientIP string, oldValues, newValues models.JSONB) error {
	args := m.Called(ctx, tenantID, tableName, recordID, changedBy, clientIP, oldValues, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) LogEntityDelete(ctx context.Context, tenantID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, clientIP string, oldValues models.JSONB) error {
	args := m.Called(ctx, tenantID, tableName, recordID, changedBy, clientIP, oldValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) ValidateAuditFilters(filters *models.AuditLogFilters) error {
	args := m.Called(filters)
	return args.Error(0)
}

type BarangServiceTestSuite struct {
	suite.Suite
	mockBarangRepo   *MockBarangRepository
	mockKategoriRepo *MockKategoriRepository
	mockSatuanRepo   *MockSatuanRepository
	mockCache        *MockCacheService
	mockAudit        *MockAuditLogsService
	service          BarangService
	tenantID         uuid.UUID
	kategoriID       uuid.UUID
	satuanID         uuid.UUID
	ctx              context.Context
}

func (suite *BarangServiceTestSuite) SetupTest() {
	suite.mockBarangRepo = &MockBarangRepository{}
	suite.mockKategoriRepo = &MockKategoriRepository{}
	suite.mockSatuanRepo = &MockSatuanRepository{}
	suite.mockCache = &MockCacheService{}
	suite.mockAudit = &MockAuditLogsService{}
	validator := validation.NewEngine(validation.EngineConfig{})
	suite.service = NewBarangService(suite.mockBarangRepo, suite.mockKategoriRepo, suite.mockSatuanRepo, validator, suite.mockCache, suite.mockAudit)
	suite.tenantID = uuid.New()
	suite.kategoriID = uuid.New()
	suite.satuanID = uuid.New()
	suite.ctx = context.Background()
}

func TestBarangServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BarangServiceTestSuite))
}

func float64Ptr(f float64) *float64 { return &f }

func (suite *BarangServiceTestSuite) validInput() *models.BarangInput {
	kode := "BRG-001"
	nama := "Beras Premium"
	kategori := suite.kategoriID.String()
	satuan := suite.satuanID.String()
	return &models.BarangInput{
		Kode:        &kode,
		Nama:        &nama,
		KategoriID:  &kategori,
		SatuanID:    &satuan,
		HargaBeli:   float64Ptr(10000),
		HargaJual:   float64Ptr(12000),
		Stok:        float64Ptr(100),
		StokMinimum: float64Ptr(10),
	}
}

func (suite *BarangServiceTestSuite) storedBarang(kode, nama string, hargaJual float64, stok int, status string) *models.Barang {
	return &models.Barang{
		ID:          uuid.New(),
		TenantID:    suite.tenantID,
		Kode:        kode,
		Nama:        nama,
		KategoriID:  &suite.kategoriID,
		SatuanID:    &suite.satuanID,
		HargaBeli:   hargaJual * 0.8,
		HargaJual:   hargaJual,
		Stok:        stok,
		StokMinimum: 5,
		Status:      status,
	}
}

func (suite *BarangServiceTestSuite) TestCreate_Success() {
	input := suite.validInput()

	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{}, nil).Once()
	suite.mockKategoriRepo.On("GetByID", suite.ctx, suite.tenantID, suite.kategoriID).Return(&models.Kategori{ID: suite.kategoriID}, nil).Once()
	suite.mockSatuanRepo.On("GetByID", suite.ctx, suite.tenantID, suite.satuanID).Return(&models.Satuan{ID: suite.satuanID}, nil).Once()
	suite.mockBarangRepo.On("Create", suite.ctx, mock.MatchedBy(func(b *models.Barang) bool {
		return b.TenantID == suite.tenantID && b.Kode == "BRG-001" && b.Status == models.StatusAktif
	})).Return(nil).Once()
	suite.mockCache.On("DeleteBarangSnapshot", suite.ctx, suite.tenantID).Return(nil).Once()
	suite.mockAudit.On("LogActivity", suite.ctx, suite.tenantID, "barang", mock.AnythingOfType("string"),
		models.ActionInsert, (*uuid.UUID)(nil), "", models.JSONB(nil), mock.Anything).Return(nil).Once()

	barang, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.IsValid)
	assert.NotNil(suite.T(), barang)
	assert.Equal(suite.T(), "Beras Premium", barang.Nama)
	suite.mockBarangRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *BarangServiceTestSuite) TestCreate_ValidationFailure() {
	nama := "B"
	input := &models.BarangInput{Nama: &nama}

	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{}, nil).Once()

	barang, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.IsValid)
	assert.Nil(suite.T(), barang)
	suite.mockBarangRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *BarangServiceTestSuite) TestCreate_DuplicateKode() {
	input := suite.validInput()

	existing := suite.storedBarang("BRG-001", "Beras Lama", 11000, 50, models.StatusAktif)
	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{existing}, nil).Once()

	barang, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.IsValid)
	assert.Nil(suite.T(), barang)
	assert.Contains(suite.T(), result.Errors[0], "sudah digunakan")
	suite.mockBarangRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *BarangServiceTestSuite) TestCreate_UnknownKategori() {
	input := suite.validInput()

	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{}, nil).Once()
	suite.mockKategoriRepo.On("GetByID", suite.ctx, suite.tenantID, suite.kategoriID).Return(nil, errors.New("not found")).Once()
	suite.mockSatuanRepo.On("GetByID", suite.ctx, suite.tenantID, suite.satuanID).Return(&models.Satuan{ID: suite.satuanID}, nil).Once()

	barang, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.IsValid)
	assert.Nil(suite.T(), barang)
	assert.Contains(suite.T(), result.Errors, "Kategori tidak ditemukan")
	suite.mockBarangRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *BarangServiceTestSuite) TestGetByID_CacheHit() {
	cached := suite.storedBarang("BRG-007", "Gula Pasir", 14000, 30, models.StatusAktif)

	suite.mockCache.On("GetBarang", suite.ctx, suite.tenantID, cached.ID).Return(cached, nil).Once()

	barang, err := suite.service.GetByID(suite.ctx, suite.tenantID, cached.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached.ID, barang.ID)
	suite.mockBarangRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *BarangServiceTestSuite) TestGetByID_CacheMissFallsThrough() {
	stored := suite.storedBarang("BRG-008", "Minyak Goreng", 18000, 12, models.StatusAktif)

	suite.mockCache.On("GetBarang", suite.ctx, suite.tenantID, stored.ID).Return(nil, nil).Once()
	suite.mockBarangRepo.On("GetByID", suite.ctx, suite.tenantID, stored.ID).Return(stored, nil).Once()
	suite.mockCache.On("SetBarang", suite.ctx, suite.tenantID, stored, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	barang, err := suite.service.GetByID(suite.ctx, suite.tenantID, stored.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored.ID, barang.ID)
	suite.mockBarangRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *BarangServiceTestSuite) TestDelete_Success() {
	stored := suite.storedBarang("BRG-009", "Tepung Terigu", 9000, 40, models.StatusAktif)

	suite.mockBarangRepo.On("GetByID", suite.ctx, suite.tenantID, stored.ID).Return(stored, nil).Once()
	suite.mockBarangRepo.On("Delete", suite.ctx, suite.tenantID, stored.ID).Return(nil).Once()
	suite.mockCache.On("DeleteBarang", suite.ctx, suite.tenantID, stored.ID).Return(nil).Once()
	suite.mockCache.On("DeleteBarangSnapshot", suite.ctx, suite.tenantID).Return(nil).Once()
	suite.mockAudit.On("LogActivity", suite.ctx, suite.tenantID, "barang", stored.ID.String(),
		models.ActionDelete, (*uuid.UUID)(nil), "", mock.Anything, models.JSONB(nil)).Return(nil).Once()

	err := suite.service.Delete(suite.ctx, suite.tenantID, stored.ID)

	assert.NoError(suite.T(), err)
	suite.mockBarangRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *BarangServiceTestSuite) TestQuery_SearchFilterSortPaginate() {
	items := []*models.Barang{
		suite.storedBarang("BRG-001", "Beras Premium", 12000, 100, models.StatusAktif),
		suite.storedBarang("BRG-002", "Beras Medium", 10000, 50, models.StatusAktif),
		suite.storedBarang("BRG-003", "Gula Pasir", 14000, 30, models.StatusAktif),
		suite.storedBarang("BRG-004", "Beras Ketan", 15000, 20, models.StatusNonaktif),
	}
	suite.mockCache.On("GetBarangSnapshot", suite.ctx, suite.tenantID).Return(items, nil).Once()

	result, err := suite.service.Query(suite.ctx, suite.tenantID, query.QueryParams{
		Search:    "beras",
		Filters:   map[string]any{"status": models.StatusAktif},
		SortBy:    "harga_jual",
		SortOrder: "desc",
		Page:      1,
		Limit:     10,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.Pagination.TotalItems)
	assert.Equal(suite.T(), "Beras Premium", result.Data[0]["nama"])
	assert.Equal(suite.T(), "Beras Medium", result.Data[1]["nama"])
	suite.mockBarangRepo.AssertNotCalled(suite.T(), "List")
}

func (suite *BarangServiceTestSuite) TestQuery_EqualSizeTenantsGetOwnResults() {
	tenantB := uuid.New()
	itemsA := []*models.Barang{
		suite.storedBarang("A-001", "Beras Premium", 12000, 100, models.StatusAktif),
	}
	itemB := suite.storedBarang("B-001", "Gula Pasir", 14000, 30, models.StatusAktif)
	itemB.TenantID = tenantB
	itemsB := []*models.Barang{itemB}

	suite.mockCache.On("GetBarangSnapshot", suite.ctx, suite.tenantID).Return(itemsA, nil).Once()
	suite.mockCache.On("GetBarangSnapshot", suite.ctx, tenantB).Return(itemsB, nil).Once()

	params := query.QueryParams{Page: 1, Limit: 10}

	resultA, err := suite.service.Query(suite.ctx, suite.tenantID, params)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "A-001", resultA.Data[0]["kode"])

	resultB, err := suite.service.Query(suite.ctx, tenantB, params)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "B-001", resultB.Data[0]["kode"])
}

func (suite *BarangServiceTestSuite) TestQuery_SnapshotMissLoadsFromRepo() {
	items := []*models.Barang{
		suite.storedBarang("BRG-001", "Beras Premium", 12000, 100, models.StatusAktif),
	}
	suite.mockCache.On("GetBarangSnapshot", suite.ctx, suite.tenantID).Return(nil, nil).Once()
	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return(items, nil).Once()
	suite.mockCache.On("SetBarangSnapshot", suite.ctx, suite.tenantID, items, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	result, err := suite.service.Query(suite.ctx, suite.tenantID, query.QueryParams{Page: 1, Limit: 10})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Pagination.TotalItems)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *BarangServiceTestSuite) TestValidate_WarnsOnThinMargin() {
	input := suite.validInput()
	input.HargaBeli = float64Ptr(10000)
	input.HargaJual = float64Ptr(10500)

	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{}, nil).Once()

	result, err := suite.service.Validate(suite.ctx, suite.tenantID, input, false, nil)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.IsValid)
	assert.NotEmpty(suite.T(), result.Warnings)
}

func (suite *BarangServiceTestSuite) TestValidate_ExcludeIDSkipsOwnKode() {
	existing := suite.storedBarang("BRG-001", "Beras Premium", 12000, 100, models.StatusAktif)
	input := suite.validInput()

	suite.mockBarangRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Barang{existing}, nil).Once()

	result, err := suite.service.Validate(suite.ctx, suite.tenantID, input, true, &existing.ID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.IsValid)
}
