package services

import (
	"context"
	"testing"

	"koperasimart/internal/models"
	"koperasimart/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type KategoriServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockKategoriRepository
	mockCache *MockCacheService
	mockAudit *MockAuditLogsService
	service   KategoriService
	tenantID  uuid.UUID
	ctx       context.Context
}

func (suite *KategoriServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockKategoriRepository{}
	suite.mockCache = &MockCacheService{}
	suite.mockAudit = &MockAuditLogsService{}
	validator := validation.NewEngine(validation.EngineConfig{})
	suite.service = NewKategoriService(suite.mockRepo, validator, suite.mockCache, suite.mockAudit)
	suite.tenantID = uuid.New()
	suite.ctx = context.Background()
}

func TestKategoriServiceTestSuite(t *testing.T) {
	suite.Run(t, new(KategoriServiceTestSuite))
}

func (suite *KategoriServiceTestSuite) TestCreate_Success() {
	nama := "  Sembako  "
	input := &models.KategoriInput{Nama: &nama}

	suite.mockRepo.On("Create", suite.ctx, mock.MatchedBy(func(k *models.Kategori) bool {
		return k.TenantID == suite.tenantID && k.Nama == "Sembako"
	})).Return(nil).Once()
	suite.mockAudit.On("LogActivity", suite.ctx, suite.tenantID, "kategori", mock.AnythingOfType("string"),
		models.ActionInsert, (*uuid.UUID)(nil), "", models.JSONB(nil), mock.Anything).Return(nil).Once()

	kategori, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.IsValid)
	assert.Equal(suite.T(), "Sembako", kategori.Nama)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *KategoriServiceTestSuite) TestCreate_MissingNama() {
	input := &models.KategoriInput{}

	kategori, result, err := suite.service.Create(suite.ctx, suite.tenantID, input)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.IsValid)
	assert.Nil(suite.T(), kategori)
	suite.mockRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *KategoriServiceTestSuite) TestUpdate_Success() {
	existing := &models.Kategori{ID: uuid.New(), TenantID: suite.tenantID, Nama: "Sembako", Deskripsi: "Bahan pokok"}
	nama := "Sembako Harian"
	input := &models.KategoriInput{Nama: &nama}

	suite.mockRepo.On("GetByID", suite.ctx, suite.tenantID, existing.ID).Return(existing, nil).Once()
	suite.mockRepo.On("Update", suite.ctx, mock.MatchedBy(func(k *models.Kategori) bool {
		return k.ID == existing.ID && k.Nama == "Sembako Harian" && k.Deskripsi == "Bahan pokok"
	})).Return(nil).Once()
	suite.mockCache.On("DeleteKategori", suite.ctx, suite.tenantID, existing.ID).Return(nil).Once()
	suite.mockAudit.On("LogActivity", suite.ctx, suite.tenantID, "kategori", existing.ID.String(),
		models.ActionUpdate, (*uuid.UUID)(nil), "", mock.Anything, mock.Anything).Return(nil).Once()

	updated, result, err := suite.service.Update(suite.ctx, suite.tenantID, existing.ID, input)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.IsValid)
	assert.Equal(suite.T(), "Sembako Harian", updated.Nama)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *KategoriServiceTestSuite) TestDelete_BlockedWhenInUse() {
	existing := &models.Kategori{ID: uuid.New(), TenantID: suite.tenantID, Nama: "Sembako"}

	suite.mockRepo.On("GetByID", suite.ctx, suite.tenantID, existing.ID).Return(existing, nil).Once()
	suite.mockRepo.On("InUse", suite.ctx, suite.tenantID, existing.ID).Return(true, nil).Once()

	err := suite.service.Delete(suite.ctx, suite.tenantID, existing.ID)

	assert.ErrorIs(suite.T(), err, ErrInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "Delete")
}

func (suite *KategoriServiceTestSuite) TestDelete_Success() {
	existing := &models.Kategori{ID: uuid.New(), TenantID: suite.tenantID, Nama: "Sembako"}

	suite.mockRepo.On("GetByID", suite.ctx, suite.tenantID, existing.ID).Return(existing, nil).Once()
	suite.mockRepo.On("InUse", suite.ctx, suite.tenantID, existing.ID).Return(false, nil).Once()
	suite.mockRepo.On("Delete", suite.ctx, suite.tenantID, existing.ID).Return(nil).Once()
	suite.mockCache.On("DeleteKategori", suite.ctx, suite.tenantID, existing.ID).Return(nil).Once()
	suite.mockAudit.On("LogActivity", suite.ctx, suite.tenantID, "kategori", existing.ID.String(),
		models.ActionDelete, (*uuid.UUID)(nil), "", mock.Anything, models.JSONB(nil)).Return(nil).Once()

	err := suite.service.Delete(suite.ctx, suite.tenantID, existing.ID)

	assert.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *KategoriServiceTestSuite) TestGetByID_CacheHit() {
	cached := &models.Kategori{ID: uuid.New(), TenantID: suite.tenantID, Nama: "Minuman"}

	suite.mockCache.On("GetKategori", suite.ctx, suite.tenantID, cached.ID).Return(cached, nil).Once()

	kategori, err := suite.service.GetByID(suite.ctx, suite.tenantID, cached.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Minuman", kategori.Nama)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetByID")
}
