package services

import (
	"context"
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

type SatuanService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input *models.SatuanInput) (*models.Satuan, validation.ValidationResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Satuan, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input *models.SatuanInput) (*models.Satuan, validation.ValidationResult, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Satuan, error)
}

type satuanService struct {
	satuanRepo   repositories.SatuanRepository
	validator    *validation.Engine
	cacheService caching.CacheService
	auditService AuditLogsService
}

func NewSatuanService(satuanRepo repositories.SatuanRepository, validator *validation.Engine, cacheService caching.CacheService, auditService AuditLogsService) SatuanService {
	return &satuanService{
		satuanRepo:   satuanRepo,
		validator:    validator,
		cacheService: cacheService,
		auditService: auditService,
	}
}

func (s *satuanService) Create(ctx context.Context, tenantID uuid.UUID, input *models.SatuanInput) (*models.Satuan, validation.ValidationResult, error) {
	result := s.validator.ValidateSatuan(input, false)
	if !result.IsValid {
		return nil, result, nil
	}

	satuan := &models.Satuan{
		ID:       uuid.New(),
		TenantID: tenantID,
		Nama:     strings.TrimSpace(*input.Nama),
	}
	if input.Deskripsi != nil {
		satuan.Deskripsi = strings.TrimSpace(*input.Deskripsi)
	}

	if err := s.satuanRepo.Create(ctx, satuan); err != nil {
		return nil, result, err
	}

	s.logAudit(ctx, tenantID, satuan.ID, models.ActionInsert, nil, models.JSONB{"nama": satuan.Nama, "deskripsi": satuan.Deskripsi})
	return satuan, result, nil
}

func (s *satuanService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Satuan, error) {
	if cached, err := s.cacheService.GetSatuan(ctx, tenantID, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: cache error for satuan %s: %v", id.String(), err)
	}

	satuan, err := s.satuanRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetSatuan(ctx, tenantID, satuan, 15*time.Minute); cacheErr != nil {
		log.Printf("WARN: failed to cache satuan %s: %v", id.String(), cacheErr)
	}

	return satuan, nil
}

func (s *satuanService) Update(ctx context.Context, tenantID, id uuid.UUID, input *models.SatuanInput) (*models.Satuan, validation.ValidationResult, error) {
	existing, err := s.satuanRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, validation.NewValidationResult(), err
	}

	result := s.validator.ValidateSatuan(input, true)
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

	if err := s.satuanRepo.Update(ctx, &updated); err != nil {
		return nil, result, err
	}

	if cacheErr := s.cacheService.DeleteSatuan(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for satuan %s: %v", id.String(), cacheErr)
	}
	s.logAudit(ctx, tenantID, id, models.ActionUpdate, oldValues, models.JSONB{"nama": updated.Nama, "deskripsi": updated.Deskripsi})

	return &updated, result, nil
}

func (s *satuanService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	existing, err := s.satuanRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	inUse, err := s.satuanRepo.InUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}

	if err := s.satuanRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteSatuan(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for satuan %s: %v", id.String(), cacheErr)
	}
	s.logAudit(ctx, tenantID, id, models.ActionDelete, models.JSONB{"nama": existing.Nama, "deskripsi": existing.Deskripsi}, nil)

	return nil
}

func (s *satuanService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Satuan, error) {
	return s.satuanRepo.List(ctx, tenantID)
}

func (s *satuanService) logAudit(ctx context.Context, tenantID, recordID uuid.UUID, action string, oldValues, newValues models.JSONB) {
	var changedBy *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		changedBy = &userID
	}
	clientIP, _ := common.GetClientIPFromContext(ctx)

	if err := s.auditService.LogActivity(ctx, tenantID, "satuan", recordID.String(), action, changedBy, clientIP, oldValues, newValues); err != nil {
		log.Printf("WARN: failed to write audit log for satuan %s: %v", recordID.String(), err)
	}
}
