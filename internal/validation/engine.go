package validation

import (
	"math"
	"regexp"
	"strings"

	"koperasimart/internal/models"
)

// maxAmount is the upper bound shared by prices and stock counts.
const maxAmount = float64(999999999)

// DefaultMinProfitMargin is the profit margin percentage below which the
// business-rule layer warns.
const DefaultMinProfitMargin = 10.0

var kodePattern = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)

// BusinessRuleValidator is an optional collaborator that replaces the
// engine's built-in business-rule checks when injected.
type BusinessRuleValidator interface {
	ValidateBarangBusinessRules(data *models.BarangInput, existing []*models.Barang) ValidationResult
}

// Engine validates master-data payloads for barang, kategori, and satuan.
// All methods are deterministic: identical input yields identical message
// lists, in field-declaration order.
type Engine struct {
	minProfitMargin float64
	businessRules   BusinessRuleValidator
}

// EngineConfig carries the tunable validation thresholds.
type EngineConfig struct {
	MinProfitMargin float64
}

func NewEngine(cfg EngineConfig) *Engine {
	margin := cfg.MinProfitMargin
	if margin <= 0 {
		margin = DefaultMinProfitMargin
	}
	return &Engine{minProfitMargin: margin}
}

// SetBusinessRuleValidator injects the business-rule collaborator. Passing
// nil restores the built-in fallback.
func (e *Engine) SetBusinessRuleValidator(v BusinessRuleValidator) {
	e.businessRules = v
}

// ValidateBarang validates an item payload. In create mode every field is
// checked; in update mode only fields present in the payload are checked.
// An empty required field produces only the required message, never the
// length or pattern messages.
func (e *Engine) ValidateBarang(data *models.BarangInput, isUpdate bool) ValidationResult {
	result := NewValidationResult()
	if data == nil {
		result.AddError("Data barang wajib diisi")
		return result
	}

	// Kode
	if !isUpdate || data.Kode != nil {
		kode := ""
		if data.Kode != nil {
			kode = *data.Kode
		}
		if strings.TrimSpace(kode) == "" {
			result.AddError("Kode barang wajib diisi")
		} else {
			if res := ValidateStringLength(kode, 2, 20, "Kode barang"); !res.IsValid {
				result.AddError(res.Error)
			}
			if res := ValidatePattern(kode, kodePattern, "Kode barang", "hanya boleh berisi huruf, angka, dan tanda hubung"); !res.IsValid {
				result.AddError(res.Error)
			}
		}
	}

	// Nama
	if !isUpdate || data.Nama != nil {
		nama := ""
		if data.Nama != nil {
			nama = *data.Nama
		}
		if strings.TrimSpace(nama) == "" {
			result.AddError("Nama barang wajib diisi")
		} else if res := ValidateStringLength(nama, 2, 100, "Nama barang"); !res.IsValid {
			result.AddError(res.Error)
		}
	}

	// Harga beli: both checks are independent; a present field is checked
	// regardless of update mode.
	if data.HargaBeli != nil {
		v := *data.HargaBeli
		if math.IsNaN(v) || v < 0 {
			result.AddError("Harga beli harus berupa angka positif")
		}
		if v > maxAmount {
			result.AddError("Harga beli tidak boleh lebih dari " + FormatNumber(maxAmount))
		}
	}

	// Harga jual
	if data.HargaJual != nil {
		v := *data.HargaJual
		if math.IsNaN(v) || v < 0 {
			result.AddError("Harga jual harus berupa angka positif")
		}
		if v > maxAmount {
			result.AddError("Harga jual tidak boleh lebih dari " + FormatNumber(maxAmount))
		}
	}

	// Selling below buying price is advisory, not blocking.
	if data.HargaBeli != nil && data.HargaJual != nil &&
		!math.IsNaN(*data.HargaBeli) && !math.IsNaN(*data.HargaJual) &&
		*data.HargaJual < *data.HargaBeli {
		result.AddWarning("Harga jual lebih rendah dari harga beli")
	}

	// Stok
	if data.Stok != nil {
		v := *data.Stok
		if math.IsNaN(v) || v < 0 {
			result.AddError("Stok harus berupa angka positif atau nol")
		}
		if v > maxAmount {
			result.AddError("Stok tidak boleh lebih dari " + FormatNumber(maxAmount))
		}
	}

	// Stok minimum has no upper bound check.
	// TODO: confirm with product whether stok minimum should share the stok
	// upper bound; existing behavior is preserved until then.
	if data.StokMinimum != nil {
		v := *data.StokMinimum
		if math.IsNaN(v) || v < 0 {
			result.AddError("Stok minimum harus berupa angka positif atau nol")
		}
	}

	// Stock at or below the minimum is a warning only when there is stock
	// left; zero stock is a distinct state reported by the business rules.
	if data.Stok != nil && data.StokMinimum != nil &&
		!math.IsNaN(*data.Stok) && !math.IsNaN(*data.StokMinimum) &&
		*data.Stok > 0 && *data.Stok <= *data.StokMinimum {
		result.AddWarning("Stok berada pada atau di bawah stok minimum")
	}

	// Kategori
	if !isUpdate || data.KategoriID != nil {
		if data.KategoriID == nil || strings.TrimSpace(*data.KategoriID) == "" {
			result.AddError("Kategori wajib dipilih")
		}
	}

	// Satuan
	if !isUpdate || data.SatuanID != nil {
		if data.SatuanID == nil || strings.TrimSpace(*data.SatuanID) == "" {
			result.AddError("Satuan wajib dipilih")
		}
	}

	return result
}

// ValidateKategori validates a category payload.
func (e *Engine) ValidateKategori(data *models.KategoriInput, isUpdate bool) ValidationResult {
	result := NewValidationResult()
	if data == nil {
		result.AddError("Data kategori wajib diisi")
		return result
	}

	if !isUpdate || data.Nama != nil {
		nama := ""
		if data.Nama != nil {
			nama = *data.Nama
		}
		if strings.TrimSpace(nama) == "" {
			result.AddError("Nama kategori wajib diisi")
		} else if res := ValidateStringLength(nama, 2, 50, "Nama kategori"); !res.IsValid {
			result.AddError(res.Error)
		}
	}

	if data.Deskripsi != nil {
		if res := ValidateStringLength(*data.Deskripsi, 0, 200, "Deskripsi kategori"); !res.IsValid {
			result.AddError(res.Error)
		}
	}

	return result
}

// ValidateSatuan validates a unit payload.
func (e *Engine) ValidateSatuan(data *models.SatuanInput, isUpdate bool) ValidationResult {
	result := NewValidationResult()
	if data == nil {
		result.AddError("Data satuan wajib diisi")
		return result
	}

	if !isUpdate || data.Nama != nil {
		nama := ""
		if data.Nama != nil {
			nama = *data.Nama
		}
		if strings.TrimSpace(nama) == "" {
			result.AddError("Nama satuan wajib diisi")
		} else if res := ValidateStringLength(nama, 1, 20, "Nama satuan"); !res.IsValid {
			result.AddError(res.Error)
		}
	}

	if data.Deskripsi != nil {
		if res := ValidateStringLength(*data.Deskripsi, 0, 100, "Deskripsi satuan"); !res.IsValid {
			result.AddError(res.Error)
		}
	}

	return result
}
