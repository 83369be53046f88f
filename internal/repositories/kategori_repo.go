package repositories

import (
	"context"

	"koperasimart/internal/models"

	"github.com/google/uuid"
)

type KategoriRepository interface {
	Create(ctx context.Context, kategori *models.Kategori) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Kategori, error)
	Update(ctx context.Context, kategori *models.Kategori) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Kategori, error)
	InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

type kategoriRepo struct {
	db DB
}

func NewKategoriRepo(db DB) KategoriRepository {
	return &kategoriRepo{db: db}
}

func (r *kategoriRepo) Create(ctx context.Context, kategori *models.Kategori) error {
	query := `
		INSERT INTO kategori (id, tenant_id, nama, deskripsi, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, kategori.ID, kategori.TenantID, kategori.Nama, kategori.Deskripsi)
	return err
}

func (r *kategoriRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Kategori, error) {
	kategori := &models.Kategori{}
	query := `
		SELECT id, tenant_id, nama, deskripsi, created_at, updated_at
		FROM kategori
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&kategori.ID, &kategori.TenantID, &kategori.Nama, &kategori.Deskripsi, &kategori.CreatedAt, &kategori.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return kategori, nil
}

func (r *kategoriRepo) Update(ctx context.Context, kategori *models.Kategori) error {
	query := `
		UPDATE kategori
		SET nama = $1, deskripsi = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, kategori.Nama, kategori.Deskripsi, kategori.TenantID, kategori.ID)
	return err
}

func (r *kategoriRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM kategori WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *kategoriRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Kategori, error) {
	query := `
		SELECT id, tenant_id, nama, deskripsi, created_at, updated_at
		FROM kategori
		WHERE tenant_id = $1
		ORDER BY nama
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Kategori
	for rows.Next() {
		kategori := &models.Kategori{}
		if err := rows.Scan(&kategori.ID, &kategori.TenantID, &kategori.Nama, &kategori.Deskripsi, &kategori.CreatedAt, &kategori.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, kategori)
	}
	return items, nil
}

// InUse reports whether any barang still references the category. Deletion
// is refused while references exist.
func (r *kategoriRepo) InUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var inUse bool
	query := `SELECT EXISTS(SELECT 1 FROM barang WHERE tenant_id = $1 AND kategori_id = $2)`
	if err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&inUse); err != nil {
		return false, err
	}
	return inUse, nil
}
