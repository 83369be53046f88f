package validation

import (
	"fmt"
	"math"
	"strings"

	"koperasimart/internal/models"
)

// ValidateBarangBusinessRules runs the pluggable business-rule layer.
// When a collaborator has been injected it fully replaces the built-in
// checks; otherwise the fallback below applies. The stock warnings here
// deliberately overlap the field-level warnings in ValidateBarang: callers
// choose which layer(s) to surface.
func (e *Engine) ValidateBarangBusinessRules(data *models.BarangInput, existing []*models.Barang) ValidationResult {
	if e.businessRules != nil {
		return e.businessRules.ValidateBarangBusinessRules(data, existing)
	}
	return e.defaultBusinessRules(data, existing)
}

func (e *Engine) defaultBusinessRules(data *models.BarangInput, existing []*models.Barang) ValidationResult {
	result := NewValidationResult()
	if data == nil {
		return result
	}

	// Duplicate kode against the current dataset.
	if data.Kode != nil {
		kode := strings.TrimSpace(*data.Kode)
		if kode != "" {
			for _, b := range existing {
				if strings.EqualFold(b.Kode, kode) {
					result.AddError(fmt.Sprintf("Kode barang %s sudah digunakan", kode))
					break
				}
			}
		}
	}

	// Profit margin below the configured minimum.
	if data.HargaBeli != nil && data.HargaJual != nil &&
		!math.IsNaN(*data.HargaBeli) && !math.IsNaN(*data.HargaJual) &&
		*data.HargaBeli > 0 {
		margin := (*data.HargaJual - *data.HargaBeli) / *data.HargaBeli * 100
		if margin < e.minProfitMargin {
			result.AddWarning(fmt.Sprintf("Margin keuntungan %.1f%% di bawah batas minimum %.1f%%", margin, e.minProfitMargin))
		}
	}

	// Stock state advisories.
	if data.Stok != nil && !math.IsNaN(*data.Stok) {
		switch {
		case *data.Stok == 0:
			result.AddWarning("Barang sedang habis")
		case data.StokMinimum != nil && !math.IsNaN(*data.StokMinimum) && *data.Stok <= *data.StokMinimum:
			result.AddWarning("Stok berada pada batas minimum")
		}
	}

	return result
}
