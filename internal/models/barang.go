package models

import (
	"time"

	"github.com/google/uuid"
)

// Barang status values
const (
	StatusAktif    = "aktif"
	StatusNonaktif = "nonaktif"
)

type Barang struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Kode        string     `json:"kode" db:"kode"`
	Nama        string     `json:"nama" db:"nama"`
	KategoriID  *uuid.UUID `json:"kategori_id" db:"kategori_id"`
	SatuanID    *uuid.UUID `json:"satuan_id" db:"satuan_id"`
	HargaBeli   float64    `json:"harga_beli" db:"harga_beli"`
	HargaJual   float64    `json:"harga_jual" db:"harga_jual"`
	Stok        int        `json:"stok" db:"stok"`
	StokMinimum int        `json:"stok_minimum" db:"stok_minimum"`
	Status      string     `json:"status" db:"status"`
	Deskripsi   *string    `json:"deskripsi" db:"deskripsi"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ToRecord converts a barang row into the flat field map the query engine
// operates on. Reference fields are emitted as strings so filter values
// coming from HTTP query parameters compare directly.
func (b *Barang) ToRecord() map[string]any {
	rec := map[string]any{
		"id":           b.ID.String(),
		"kode":         b.Kode,
		"nama":         b.Nama,
		"harga_beli":   b.HargaBeli,
		"harga_jual":   b.HargaJual,
		"stok":         b.Stok,
		"stok_minimum": b.StokMinimum,
		"status":       b.Status,
		"created_at":   b.CreatedAt.Format(time.RFC3339),
		"updated_at":   b.UpdatedAt.Format(time.RFC3339),
	}
	if b.KategoriID != nil {
		rec["kategori_id"] = b.KategoriID.String()
	}
	if b.SatuanID != nil {
		rec["satuan_id"] = b.SatuanID.String()
	}
	if b.Deskripsi != nil {
		rec["deskripsi"] = *b.Deskripsi
	}
	return rec
}

// BarangInput is a partial create/update payload for barang validation.
// A nil pointer means the field was absent from the payload, which matters
// for update-mode validation where absent fields are skipped.
type BarangInput struct {
	Kode        *string  `json:"kode,omitempty"`
	Nama        *string  `json:"nama,omitempty"`
	KategoriID  *string  `json:"kategori_id,omitempty"`
	SatuanID    *string  `json:"satuan_id,omitempty"`
	HargaBeli   *float64 `json:"harga_beli,omitempty"`
	HargaJual   *float64 `json:"harga_jual,omitempty"`
	Stok        *float64 `json:"stok,omitempty"`
	StokMinimum *float64 `json:"stok_minimum,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Deskripsi   *string  `json:"deskripsi,omitempty"`
}
