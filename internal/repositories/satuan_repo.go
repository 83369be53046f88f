package repositories

import (
	"context"

	"koperasimart/internal/models"

	"github.com/google/uuid"
)

type SatuanRepository interface {
	Create(ctx context.Context, satuan *models.Satuan) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Satuan, error)
	Update(ctx context.Context, satuan *models.Satuan) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Satuan, error)
	InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

type satuanRepo struct {
	db DB
}

func NewSatuanRepo(db DB) SatuanRepository {
	return &satuanRepo{db: db}
}

func (r *satuanRepo) Create(ctx context.Context, satuan *models.Satuan) error {
	query := `
		INSERT INTO satuan (id, tenant_id, nama, deskripsi, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, satuan.ID, satuan.TenantID, satuan.Nama, satuan.Deskripsi)
	return err
}

func (r *satuanRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Satuan, error) {
	satuan := &models.Satuan{}
	query := `
		SELECT id, tenant_id, nama, deskripsi, created_at, updated_at
		FROM satuan
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&satuan.ID, &satuan.TenantID, &satuan.Nama, &satuan.Deskripsi, &satuan.CreatedAt, &satuan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return satuan, nil
}

func (r *satuanRepo) Update(ctx context.Context, satuan *models.Satuan) error {
	query := `
		UPDATE satuan
		SET nama = $1, deskripsi = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, satuan.Nama, satuan.Deskripsi, satuan.TenantID, satuan.ID)
	return err
}

func (r *satuanRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM satuan WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *satuanRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Satuan, error) {
	query := `
		SELECT id, tenant_id, nama, deskripsi, created_at, updated_at
		FROM satuan
		WHERE tenant_id = $1
		ORDER BY nama
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Satuan
	for rows.Next() {
		satuan := &models.Satuan{}
		if err := rows.Scan(&satuan.ID, &satuan.TenantID, &satuan.Nama, &satuan.Deskripsi, &satuan.CreatedAt, &satuan.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, satuan)
	}
	return items, nil
}

// InUse reports whether any barang still references the unit.
func (r *satuanRepo) InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var inUse bool
	query := `SELECT EXISTS(SELECT 1 FROM barang WHERE tenant_id = $1 AND satuan_id = $2)`
	if err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&inUse); err != nil {
		return false, err
	}
	return inUse, nil
}
