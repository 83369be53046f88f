package repositories

import (
	"context"

	"koperasimart/internal/models"

	"github.com/google/uuid"
)

type BarangRepository interface {
	Create(ctx context.Context, barang *models.Barang) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Barang, error)
	GetByKode(ctx context.Context, tenantID uuid.UUID, kode string) (*models.Barang, error)
	Update(ctx context.Context, barang *models.Barang) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error)
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
	KodeExists(ctx context.Context, tenantID uuid.UUID, kode string, excludeID *uuid.UUID) (bool, error)
}

type barangRepo struct {
	db DB
}

func NewBarangRepo(db DB) BarangRepository {
	return &barangRepo{db: db}
}

const barangColumns = `id, tenant_id, kode, nama, kategori_id, satuan_id, harga_beli, harga_jual, stok, stok_minimum, status, deskripsi, created_at, updated_at`

func (r *barangRepo) Create(ctx context.Context, barang *models.Barang) error {
	query := `
		INSERT INTO barang (id, tenant_id, kode, nama, kategori_id, satuan_id, harga_beli, harga_jual, stok, stok_minimum, status, deskripsi, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, barang.ID, barang.TenantID, barang.Kode, barang.Nama, barang.KategoriID, barang.SatuanID, barang.HargaBeli, barang.HargaJual, barang.Stok, barang.StokMinimum, barang.Status, barang.Deskripsi)
	return err
}

func (r *barangRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Barang, error) {
	barang := &models.Barang{}
	query := `
		SELECT ` + barangColumns + `
		FROM barang
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&barang.ID, &barang.TenantID, &barang.Kode, &barang.Nama, &barang.KategoriID, &barang.SatuanID, &barang.HargaBeli, &barang.HargaJual, &barang.Stok, &barang.StokMinimum, &barang.Status, &barang.Deskripsi, &barang.CreatedAt, &barang.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return barang, nil
}

func (r *barangRepo) GetByKode(ctx context.Context, tenantID uuid.UUID, kode string) (*models.Barang, error) {
	barang := &models.Barang{}
	query := `
		SELECT ` + barangColumns + `
		FROM barang
		WHERE tenant_id = $1 AND LOWER(kode) = LOWER($2)
	`
	err := r.db.QueryRow(ctx, query, tenantID, kode).Scan(&barang.ID, &barang.TenantID, &barang.Kode, &barang.Nama, &barang.KategoriID, &barang.SatuanID, &barang.HargaBeli, &barang.HargaJual, &barang.Stok, &barang.StokMinimum, &barang.Status, &barang.Deskripsi, &barang.CreatedAt, &barang.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return barang, nil
}

func (r *barangRepo) Update(ctx context.Context, barang *models.Barang) error {
	query := `
		UPDATE barang
		SET kode = $1, nama = $2, kategori_id = $3, satuan_id = $4, harga_beli = $5, harga_jual = $6, stok = $7, stok_minimum = $8, status = $9, deskripsi = $10, updated_at = NOW()
		WHERE tenant_id = $11 AND id = $12
	`
	_, err := r.db.Exec(ctx, query, barang.Kode, barang.Nama, barang.KategoriID, barang.SatuanID, barang.HargaBeli, barang.HargaJual, barang.Stok, barang.StokMinimum, barang.Status, barang.Deskripsi, barang.TenantID, barang.ID)
	return err
}

func (r *barangRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM barang WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

// List returns the full tenant snapshot. Search, filtering, sorting, and
// pagination happen in the query engine, not in SQL.
func (r *barangRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	query := `
		SELECT ` + barangColumns + `
		FROM barang
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Barang
	for rows.Next() {
		barang := &models.Barang{}
		if err := rows.Scan(&barang.ID, &barang.TenantID, &barang.Kode, &barang.Nama, &barang.KategoriID, &barang.SatuanID, &barang.HargaBeli, &barang.HargaJual, &barang.Stok, &barang.StokMinimum, &barang.Status, &barang.Deskripsi, &barang.CreatedAt, &barang.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, barang)
	}
	return items, nil
}

func (r *barangRepo) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Barang, error) {
	query := `
		SELECT ` + barangColumns + `
		FROM barang
		WHERE tenant_id = $1 AND status = 'aktif' AND stok <= stok_minimum
		ORDER BY stok ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Barang
	for rows.Next() {
		barang := &models.Barang{}
		if err := rows.Scan(&barang.ID, &barang.TenantID, &barang.Kode, &barang.Nama, &barang.KategoriID, &barang.SatuanID, &barang.HargaBeli, &barang.HargaJual, &barang.Stok, &barang.StokMinimum, &barang.Status, &barang.Deskripsi, &barang.CreatedAt, &barang.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, barang)
	}
	return items, nil
}

// ListTenantIDs enumerates tenants with at least one barang row, used by
// scheduled jobs that sweep every tenant.
func (r *barangRepo) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT tenant_id FROM barang`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *barangRepo) KodeExists(ctx context.Context, tenantID uuid.UUID, kode string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	if excludeID != nil {
		query := `SELECT EXISTS(SELECT 1 FROM barang WHERE tenant_id = $1 AND LOWER(kode) = LOWER($2) AND id <> $3)`
		if err := r.db.QueryRow(ctx, query, tenantID, kode, *excludeID).Scan(&exists); err != nil {
			return false, err
		}
		return exists, nil
	}
	query := `SELECT EXISTS(SELECT 1 FROM barang WHERE tenant_id = $1 AND LOWER(kode) = LOWER($2))`
	if err := r.db.QueryRow(ctx, query, tenantID, kode).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
