package models

import (
	"time"

	"github.com/google/uuid"
)

type Kategori struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Nama      string    `json:"nama" db:"nama"`
	Deskripsi string    `json:"deskripsi" db:"deskripsi"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// KategoriInput is a partial create/update payload for kategori validation.
type KategoriInput struct {
	Nama      *string `json:"nama,omitempty"`
	Deskripsi *string `json:"deskripsi,omitempty"`
}
