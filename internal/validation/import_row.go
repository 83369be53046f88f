package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"koperasimart/internal/models"
)

// Grouped amounts never lead with a bare zero: "1.000" is one thousand but
// "0.125" is a decimal fraction.
var (
	dotGrouped   = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)
	commaGrouped = regexp.MustCompile(`^[1-9]\d{0,2}(,\d{3})+$`)
)

// importColumnAliases maps both machine keys and the human-readable column
// headers of the import template onto canonical field names.
var importColumnAliases = map[string]string{
	"kode":         "kode",
	"kode barang":  "kode",
	"nama":         "nama",
	"nama barang":  "nama",
	"kategori":     "kategori_id",
	"kategori_id":  "kategori_id",
	"satuan":       "satuan_id",
	"satuan_id":    "satuan_id",
	"harga_beli":   "harga_beli",
	"harga beli":   "harga_beli",
	"harga_jual":   "harga_jual",
	"harga jual":   "harga_jual",
	"stok":         "stok",
	"stok_minimum": "stok_minimum",
	"stok minimum": "stok_minimum",
	"deskripsi":    "deskripsi",
}

// ValidateImportRow maps one loosely-keyed import row onto the canonical
// barang payload, validates it in create mode, and prefixes every message
// with a 1-based row label for batch reporting. The returned input carries
// kategori/satuan as the raw cell values; the import service resolves them
// to identifiers.
func (e *Engine) ValidateImportRow(row map[string]string, rowIndex int) (*models.BarangInput, ValidationResult) {
	input := &models.BarangInput{}

	for key, raw := range row {
		canonical, ok := importColumnAliases[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch canonical {
		case "kode":
			input.Kode = strPtr(value)
		case "nama":
			input.Nama = strPtr(value)
		case "kategori_id":
			input.KategoriID = strPtr(value)
		case "satuan_id":
			input.SatuanID = strPtr(value)
		case "harga_beli":
			input.HargaBeli = numPtr(parseAmount(value))
		case "harga_jual":
			input.HargaJual = numPtr(parseAmount(value))
		case "stok":
			input.Stok = numPtr(parseAmount(value))
		case "stok_minimum":
			input.StokMinimum = numPtr(parseAmount(value))
		case "deskripsi":
			input.Deskripsi = strPtr(value)
		}
	}

	result := e.ValidateBarang(input, false)

	label := fmt.Sprintf("Baris %d: ", rowIndex+1)
	prefixed := NewValidationResult()
	prefixed.IsValid = result.IsValid
	for _, msg := range result.Errors {
		prefixed.Errors = append(prefixed.Errors, label+msg)
	}
	for _, msg := range result.Warnings {
		prefixed.Warnings = append(prefixed.Warnings, label+msg)
	}
	return input, prefixed
}

// parseAmount parses amounts tolerantly: currency prefixes, spaces, and
// thousand separators in either Indonesian (1.000.000,50) or English
// (1,000,000.50) style. A lone separator is grouping only when the whole
// value has the strict grouped shape, so "0.125" stays a fraction while
// "1.000" is a thousand. Unparseable values become NaN so the validator
// reports them through its normal numeric messages.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimPrefix(s, "rp")
	s = strings.ReplaceAll(s, " ", "")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The later separator is the decimal mark, the other is grouping.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if commaGrouped.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if dotGrouped.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func strPtr(s string) *string { return &s }

func numPtr(f float64) *float64 { return &f }
