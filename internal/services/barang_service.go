package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"koperasimart/internal/caching"
	"koperasimart/internal/common"
	"koperasimart/internal/models"
	"koperasimart/internal/query"
	"koperasimart/internal/repositories"
	"koperasimart/internal/validation"

	"github.com/google/uuid"
)

const barangCacheTTL = 15 * time.Minute

type BarangService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput) (*models.Barang, validation.ValidationResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Barang, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input *models.BarangInput) (*models.Barang, validation.ValidationResult, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Query runs search, filters, sorting, and pagination over the tenant's
	// barang snapshot.
	Query(ctx context.Context, tenantID uuid.UUID, params query.QueryParams) (query.QueryResult, error)
	FilterOptions(ctx context.Context, tenantID uuid.UUID, name string) ([]query.FilterOption, error)

	// Validate runs the full validation pipeline without persisting, so the
	// admin UI can validate while the user types.
	Validate(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput, isUpdate bool, excludeID *uuid.UUID) (validation.ValidationResult, error)
}

type barangService struct {
	barangRepo   repositories.BarangRepository
	kategoriRepo repositories.KategoriRepository
	satuanRepo   repositories.SatuanRepository
	validator    *validation.Engine
	cacheService caching.CacheService
	auditService AuditLogsService

	// One builder per tenant: builder result caches are keyed by parameters
	// and data length only, so sharing one across tenants would let equal-size
	// snapshots serve each other's cached results. Builders are not safe for
	// concurrent use either, so every query execution takes the lock.
	mu       sync.Mutex
	builders map[uuid.UUID]*query.Builder
}

func NewBarangService(barangRepo repositories.BarangRepository, kategoriRepo repositories.KategoriRepository, satuanRepo repositories.SatuanRepository, validator *validation.Engine, cacheService caching.CacheService, auditService AuditLogsService) BarangService {
	return &barangService{
		barangRepo:   barangRepo,
		kategoriRepo: kategoriRepo,
		satuanRepo:   satuanRepo,
		validator:    validator,
		cacheService: cacheService,
		auditService: auditService,
		builders:     make(map[uuid.UUID]*query.Builder),
	}
}

func (s *barangService) Create(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput) (*models.Barang, validation.ValidationResult, error) {
	result, err := s.validate(ctx, tenantID, input, false, nil)
	if err != nil {
		return nil, result, err
	}
	if !result.IsValid {
		return nil, result, nil
	}

	kategoriID, satuanID := s.resolveReferences(ctx, tenantID, input, &result)
	if !result.IsValid {
		return nil, result, nil
	}

	barang := &models.Barang{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Kode:        strings.TrimSpace(*input.Kode),
		Nama:        strings.TrimSpace(*input.Nama),
		KategoriID:  kategoriID,
		SatuanID:    satuanID,
		Status:      models.StatusAktif,
		Deskripsi:   input.Deskripsi,
	}
	if input.HargaBeli != nil {
		barang.HargaBeli = *input.HargaBeli
	}
	if input.HargaJual != nil {
		barang.HargaJual = *input.HargaJual
	}
	if input.Stok != nil {
		barang.Stok = int(*input.Stok)
	}
	if input.StokMinimum != nil {
		barang.StokMinimum = int(*input.StokMinimum)
	}
	if input.Status != nil && *input.Status == models.StatusNonaktif {
		barang.Status = models.StatusNonaktif
	}

	if err := s.barangRepo.Create(ctx, barang); err != nil {
		return nil, result, err
	}

	s.invalidateSnapshot(ctx, tenantID)
	s.logAudit(ctx, tenantID, barang.ID, models.ActionInsert, nil, models.JSONB(barang.ToRecord()))

	return barang, result, nil
}

func (s *barangService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Barang, error) {
	if cached, err := s.cacheService.GetBarang(ctx, tenantID, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: cache error for barang %s: %v", id.String(), err)
	}

	barang, err := s.barangRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetBarang(ctx, tenantID, barang, barangCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache barang %s: %v", id.String(), cacheErr)
	}

	return barang, nil
}

func (s *barangService) Update(ctx context.Context, tenantID, id uuid.UUID, input *models.BarangInput) (*models.Barang, validation.ValidationResult, error) {
	existing, err := s.barangRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, validation.NewValidationResult(), err
	}

	result, err := s.validate(ctx, tenantID, input, true, &id)
	if err != nil {
		return nil, result, err
	}
	if !result.IsValid {
		return nil, result, nil
	}

	oldValues := existing.ToRecord()
	updated := *existing

	if input.Kode != nil {
		updated.Kode = strings.TrimSpace(*input.Kode)
	}
	if input.Nama != nil {
		updated.Nama = strings.TrimSpace(*input.Nama)
	}
	if input.HargaBeli != nil {
		updated.HargaBeli = *input.HargaBeli
	}
	if input.HargaJual != nil {
		updated.HargaJual = *input.HargaJual
	}
	if input.Stok != nil {
		updated.Stok = int(*input.Stok)
	}
	if input.StokMinimum != nil {
		updated.StokMinimum = int(*input.StokMinimum)
	}
	if input.Status != nil {
		if *input.Status != models.StatusAktif && *input.Status != models.StatusNonaktif {
			result.AddError("Status barang tidak valid")
			return nil, result, nil
		}
		updated.Status = *input.Status
	}
	if input.Deskripsi != nil {
		updated.Deskripsi = input.Deskripsi
	}
	if input.KategoriID != nil || input.SatuanID != nil {
		kategoriID, satuanID := s.resolveReferences(ctx, tenantID, input, &result)
		if !result.IsValid {
			return nil, result, nil
		}
		if input.KategoriID != nil {
			updated.KategoriID = kategoriID
		}
		if input.SatuanID != nil {
			updated.SatuanID = satuanID
		}
	}

	if err := s.barangRepo.Update(ctx, &updated); err != nil {
		return nil, result, err
	}

	if cacheErr := s.cacheService.DeleteBarang(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for barang %s: %v", id.String(), cacheErr)
	}
	s.invalidateSnapshot(ctx, tenantID)
	s.logAudit(ctx, tenantID, id, models.ActionUpdate, models.JSONB(oldValues), models.JSONB(updated.ToRecord()))

	return &updated, result, nil
}

func (s *barangService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	existing, err := s.barangRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.barangRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteBarang(ctx, tenantID, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for barang %s: %v", id.String(), cacheErr)
	}
	s.invalidateSnapshot(ctx, tenantID)
	s.logAudit(ctx, tenantID, id, models.ActionDelete, models.JSONB(existing.ToRecord()), nil)

	return nil
}

func (s *barangService) Query(ctx context.Context, tenantID uuid.UUID, params query.QueryParams) (query.QueryResult, error) {
	records, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return query.QueryResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builderFor(tenantID).Execute(records, params), nil
}

func (s *barangService) FilterOptions(ctx context.Context, tenantID uuid.UUID, name string) ([]query.FilterOption, error) {
	records, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builderFor(tenantID).Filters().GetFilterOptions(name, records), nil
}

func (s *barangService) Validate(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput, isUpdate bool, excludeID *uuid.UUID) (validation.ValidationResult, error) {
	return s.validate(ctx, tenantID, input, isUpdate, excludeID)
}

// validate runs field validation followed by business rules against the
// tenant's current dataset. Both layers accumulate into one result.
func (s *barangService) validate(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput, isUpdate bool, excludeID *uuid.UUID) (validation.ValidationResult, error) {
	result := s.validator.ValidateBarang(input, isUpdate)

	existing, err := s.barangRepo.List(ctx, tenantID)
	if err != nil {
		return result, fmt.Errorf("failed to load barang for business rules: %w", err)
	}

	ruleSet := existing
	if excludeID != nil {
		ruleSet = make([]*models.Barang, 0, len(existing))
		for _, b := range existing {
			if b.ID != *excludeID {
				ruleSet = append(ruleSet, b)
			}
		}
	}

	result.Merge(s.validator.ValidateBarangBusinessRules(input, ruleSet))
	return result, nil
}

// resolveReferences parses and verifies kategori/satuan references. Errors
// are reported through the validation result, not as transport errors.
func (s *barangService) resolveReferences(ctx context.Context, tenantID uuid.UUID, input *models.BarangInput, result *validation.ValidationResult) (kategoriID, satuanID *uuid.UUID) {
	if input.KategoriID != nil && strings.TrimSpace(*input.KategoriID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*input.KategoriID))
		if err != nil {
			result.AddError("Kategori tidak valid")
		} else if _, err := s.kategoriRepo.GetByID(ctx, tenantID, id); err != nil {
			result.AddError("Kategori tidak ditemukan")
		} else {
			kategoriID = &id
		}
	}
	if input.SatuanID != nil && strings.TrimSpace(*input.SatuanID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*input.SatuanID))
		if err != nil {
			result.AddError("Satuan tidak valid")
		} else if _, err := s.satuanRepo.GetByID(ctx, tenantID, id); err != nil {
			result.AddError("Satuan tidak ditemukan")
		} else {
			satuanID = &id
		}
	}
	return kategoriID, satuanID
}

// loadSnapshot returns the tenant's barang list as query-engine records,
// reading through the Redis snapshot cache.
func (s *barangService) loadSnapshot(ctx context.Context, tenantID uuid.UUID) ([]query.Record, error) {
	items, err := s.cacheService.GetBarangSnapshot(ctx, tenantID)
	if err != nil {
		log.Printf("WARN: snapshot cache error for tenant %s: %v", tenantID.String(), err)
	}
	if items == nil {
		items, err = s.barangRepo.List(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if cacheErr := s.cacheService.SetBarangSnapshot(ctx, tenantID, items, barangCacheTTL); cacheErr != nil {
			log.Printf("WARN: failed to cache barang snapshot for tenant %s: %v", tenantID.String(), cacheErr)
		}
	}

	records := make([]query.Record, 0, len(items))
	for _, b := range items {
		records = append(records, b.ToRecord())
	}
	return records, nil
}

// builderFor returns the tenant's query builder, creating it on first use.
// Callers must hold s.mu.
func (s *barangService) builderFor(tenantID uuid.UUID) *query.Builder {
	b, ok := s.builders[tenantID]
	if !ok {
		b = query.NewBuilder(nil, nil)
		s.builders[tenantID] = b
	}
	return b
}

func (s *barangService) invalidateSnapshot(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cacheService.DeleteBarangSnapshot(ctx, tenantID); err != nil {
		log.Printf("WARN: failed to drop barang snapshot for tenant %s: %v", tenantID.String(), err)
	}
	s.mu.Lock()
	if b, ok := s.builders[tenantID]; ok {
		b.InvalidateCache()
	}
	s.mu.Unlock()
}

// logAudit records a change with the actor taken from the request context.
// Audit failures are logged, never surfaced to the caller.
func (s *barangService) logAudit(ctx context.Context, tenantID, recordID uuid.UUID, action string, oldValues, newValues models.JSONB) {
	var changedBy *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		changedBy = &userID
	}
	clientIP, _ := common.GetClientIPFromContext(ctx)

	if err := s.auditService.LogActivity(ctx, tenantID, "barang", recordID.String(), action, changedBy, clientIP, oldValues, newValues); err != nil {
		log.Printf("WARN: failed to write audit log for barang %s: %v", recordID.String(), err)
	}
}
