package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"koperasimart/internal/caching"
	"koperasimart/internal/common"
	"koperasimart/internal/models"
	"koperasimart/internal/repositories"
	"koperasimart/internal/validation"

	"github.com/google/uuid"
)

// ErrInUse is returned when deleting a kategori or satuan that barang rows
// still reference.
var ErrInUse = errors.New("entity is still referenced by barang")

type KategoriService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input *models.KategoriInput) (*models.Kategori, validation.ValidationResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Kategori, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input *models.KategoriInput) (*models.Kategori, validation.ValidationResult, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Kategori, error)
}

type kategoriService struct {
	kategoriRepo repositories.KategoriRepository
	validator    *validation.Engine
	cacheService caching.CacheService
	auditService AuditLogsService
}

func NewKategoriService(kategoriRepo repositories.KategoriRepository, validator *validation.Engine, cacheService caching.CacheService, auditService AuditLogsService) KategoriService {
	return &kategoriService{
		kategoriRepo: kategoriRepo,
		validator:    validator,
		cacheService: cacheService,
		auditService: auditService,
	}
}

func (s *kategoriService) Create(ctx context.Context, tenantID uuid.UUID, input *models.KategoriInput) (*models.Kategori, validation.ValidationResult, error) {
	result := s.validator.ValidateKategori(input, false)
	if !result.IsValid {
		return nil, result, nil
	}

	kategori := &models.Kategori{
		ID:       uuid.New(),
		TenantID: tenantID,
		Nama:     strings.TrimSpace(*input.Nama),
	}
	if input.Deskripsi != nil {
		kategori.Deskripsi = strings.TrimSpace(*input.Deskripsi)
	}

	if err := s.kategoriRepo.Create(ctx, kategori); err != nil {
		return nil, result, err
	}

	s.logAudit(ctx, tenantID, kategori.ID, models.ActionInsert, nil, models.JSONB{"nama": kategori.Nama, "deskripsi": kategori.Deskripsi})
	return kategori, result, nil
}

func (s *kategoriService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Kategori, error) {
	if cached, err := s.cacheService.GetKategori(ctx, tenantID, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: cache error for kategori %s: %v", id.String(), err)
	}

	kategori, err := s.kategoriRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetKategori(ctx, tenantID, kategori, 15*time.Minute); cacheErr != nil {
		log.Printf("WARN: failed to cache kategori %s: %v", id.String(), cacheErr)
	}

	return kategori, nil
}

func (s *kategoriService) Update(ctx context.Context, tenantID, id uuid.UUID, input *models.KategoriInput) (*models.Kategori, validation.ValidationResult, error) {
	existing, err := s.kategoriRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, validation.NewValidationResult(), err
	}

	result := s.validator.ValidateKategori(input, true)
	if !result.IsValid {
		return nil, result, nil
	}

	oldValues := models.JSONB{"nama": existing.Nama, "deskripsi": existing.Deskripsi}
	updated := *existing
	if input.Nama != nil {
		updated.Nama = strings.TrimSpace(*input.Nama)
	}
	if input.Deskripsi != nil {
		updated.Deskripsi = strings.TrimSpace(*input.Deskripsi)
	}

	if err := s.kategoriRepo.Update(ctx, &updated); err != nil {
		return nil, result, err
	}

	if cacheErr := s.cacheService.DeleteKategori(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for kategori %s: %v", id.String(), cacheErr)
	}
	s.logAudit(ctx, tenantID, id, models.ActionUpdate, oldValues, models.JSONB{"nama": updated.Nama, "deskripsi": updated.Deskripsi})

	return &updated, result, nil
}

func (s *kategoriService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	existing, err := s.kategoriRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	inUse, err := s.kategoriRepo.InUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}

	if err := s.kategoriRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteKategori(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for kategori %s: %v", id.String(), cacheErr)
	}
	s.logAudit(ctx, tenantID, id, models.ActionDelete, models.JSONB{"nama": existing.Nama, "deskripsi": existing.Deskripsi}, nil)

	return nil
}

func (s *kategoriService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Kategori, error) {
	return s.kategoriRepo.List(ctx, tenantID)
}

func (s *kategoriService) logAudit(ctx context.Context, tenantID, recordID uuid.UUID, action string, oldValues, newValues models.JSONB) {
	var changedBy *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		changedBy = &userID
	}
	clientIP, _ := common.GetClientIPFromContext(ctx)

	if err := s.auditService.LogActivity(ctx, tenantID, "kategori", recordID.String(), action, changedBy, clientIP, oldValues, newValues); err != nil {
		log.Printf("WARN: failed to write audit log for kategori %s: %v", recordID.String(), err)
	}
}
