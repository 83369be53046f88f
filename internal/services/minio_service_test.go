package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockMinioServiceForMinioTest struct {
	mock.Mock
}

func (m *MockMinioServiceForMinioTest) UploadFile(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockMinioServiceForMinioTest) GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioServiceForMinioTest) DeleteFile(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockMinioServiceForMinioTest) EnsureBucketExists(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

type MinioServiceTestSuite struct {
	suite.Suite
	service     MinioService
	mockService *MockMinioServiceForMinioTest
}

func (suite *MinioServiceTestSuite) SetupTest() {
	suite.mockService = &MockMinioServiceForMinioTest{}
	suite.service = suite.mockService
}

func (suite *MinioServiceTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func TestMinioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MinioServiceTestSuite))
}

func (suite *MinioServiceTestSuite) TestUploadFile_Success() {
	ctx := context.Background()
	data := []byte("kode,nama\nBRG-001,Beras Premium\n")
	reader := bytes.NewReader(data)
	size := int64(len(data))

	suite.mockService.On("UploadFile", ctx, "exports", "barang-export.csv", reader, size, "text/csv").Return(nil).Once()

	err := suite.service.UploadFile(ctx, "exports", "barang-export.csv", reader, size, "text/csv")
	assert.NoError(suite.T(), err)
}

func (suite *MinioServiceTestSuite) TestUploadFile_MissingBucket() {
	ctx := context.Background()
	data := []byte("content")
	reader := bytes.NewReader(data)
	size := int64(len(data))

	suite.mockService.On("UploadFile", ctx, "nonexistent-bucket", "barang-export.csv", reader, size, "text/csv").
		Return(errors.New("NoSuchBucket: The specified bucket does not exist")).Once()

	err := suite.service.UploadFile(ctx, "nonexistent-bucket", "barang-export.csv", reader, size, "text/csv")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "NoSuchBucket")
}

func (suite *MinioServiceTestSuite) TestGetPresignedURL_Success() {
	ctx := context.Background()
	expiry := 1 * time.Hour
	expectedURL := "https://minio.example.com/exports/barang-export.xlsx?sig=mock"

	suite.mockService.On("GetPresignedURL", ctx, "exports", "barang-export.xlsx", expiry).Return(expectedURL, nil).Once()

	url, err := suite.service.GetPresignedURL(ctx, "exports", "barang-export.xlsx", expiry)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expectedURL, url)
}

func (suite *MinioServiceTestSuite) TestGetPresignedURL_InvalidBucket() {
	ctx := context.Background()
	expiry := 1 * time.Hour

	suite.mockService.On("GetPresignedURL", ctx, "invalid-bucket", "export.csv", expiry).Return("", errors.New("NoSuchBucket")).Once()

	url, err := suite.service.GetPresignedURL(ctx, "invalid-bucket", "export.csv", expiry)
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), url)
}

func (suite *MinioServiceTestSuite) TestDeleteFile_Success() {
	ctx := context.Background()

	suite.mockService.On("DeleteFile", ctx, "exports", "stale-export.csv").Return(nil).Once()

	err := suite.service.DeleteFile(ctx, "exports", "stale-export.csv")
	assert.NoError(suite.T(), err)
}

func (suite *MinioServiceTestSuite) TestDeleteFile_ObjectNotFound() {
	ctx := context.Background()

	suite.mockService.On("DeleteFile", ctx, "exports", "missing.csv").Return(errors.New("NoSuchKey")).Once()

	err := suite.service.DeleteFile(ctx, "exports", "missing.csv")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "NoSuchKey")
}

func (suite *MinioServiceTestSuite) TestTenantObjectsStayNamespaced() {
	ctx := context.Background()
	expiry := 1 * time.Hour

	url1 := "https://minio.example.com/exports/tenant-a/export.csv"
	url2 := "https://minio.example.com/exports/tenant-b/export.csv"
	suite.mockService.On("GetPresignedURL", ctx, "exports", "tenant-a/export.csv", expiry).Return(url1, nil).Once()
	suite.mockService.On("GetPresignedURL", ctx, "exports", "tenant-b/export.csv", expiry).Return(url2, nil).Once()

	gotURL1, err := suite.service.GetPresignedURL(ctx, "exports", "tenant-a/export.csv", expiry)
	assert.NoError(suite.T(), err)
	gotURL2, err := suite.service.GetPresignedURL(ctx, "exports", "tenant-b/export.csv", expiry)
	assert.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), gotURL1, gotURL2)
	assert.Contains(suite.T(), gotURL1, "tenant-a")
	assert.Contains(suite.T(), gotURL2, "tenant-b")
}

func (suite *MinioServiceTestSuite) TestEnsureBucketExists() {
	ctx := context.Background()

	suite.mockService.On("EnsureBucketExists", ctx, "exports").Return(nil).Once()

	err := suite.service.EnsureBucketExists(ctx, "exports")
	assert.NoError(suite.T(), err)
}

func (suite *MinioServiceTestSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := []byte("content")
	reader := bytes.NewReader(data)
	size := int64(len(data))

	suite.mockService.On("UploadFile", ctx, "exports", "cancelled.csv", reader, size, "text/csv").
		Return(errors.New("context canceled")).Once()

	err := suite.service.UploadFile(ctx, "exports", "cancelled.csv", reader, size, "text/csv")
	assert.Error(suite.T(), err)
}
