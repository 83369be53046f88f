package validation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.False(t, ValidateRequired(nil, "Kode").IsValid)
	assert.False(t, ValidateRequired("   ", "Kode").IsValid)
	assert.False(t, ValidateRequired([]string{}, "Kode").IsValid)
	assert.True(t, ValidateRequired("ABC", "Kode").IsValid)
	assert.True(t, ValidateRequired(0, "Stok").IsValid)
	assert.True(t, ValidateRequired([]string{"a"}, "Kode").IsValid)

	res := ValidateRequired(nil, "Kode barang")
	assert.Equal(t, "Kode barang wajib diisi", res.Error)
}

func TestValidateStringLength(t *testing.T) {
	assert.False(t, ValidateStringLength(123, 2, 20, "Kode").IsValid)
	assert.Equal(t, "Kode harus berupa teks", ValidateStringLength(123, 2, 20, "Kode").Error)

	assert.Equal(t, "Kode minimal 2 karakter", ValidateStringLength("A", 2, 20, "Kode").Error)
	assert.Equal(t, "Kode maksimal 3 karakter", ValidateStringLength("ABCD", 2, 3, "Kode").Error)

	// Trimmed length is what counts.
	assert.False(t, ValidateStringLength("  A  ", 2, 20, "Kode").IsValid)
	assert.True(t, ValidateStringLength("AB", 2, 20, "Kode").IsValid)
	assert.True(t, ValidateStringLength("AB", 2, 2, "Kode").IsValid)
}

func TestValidateNumberRange(t *testing.T) {
	assert.Equal(t, "Harga harus berupa angka", ValidateNumberRange("abc", 0, 100, "Harga").Error)
	assert.Equal(t, "Harga tidak boleh kurang dari 0", ValidateNumberRange(-1, 0, 100, "Harga").Error)
	assert.True(t, ValidateNumberRange(0, 0, 100, "Harga").IsValid)
	assert.True(t, ValidateNumberRange(100, 0, 100, "Harga").IsValid)
	assert.True(t, ValidateNumberRange("50", 0, 100, "Harga").IsValid)

	// Bounds are formatted with Indonesian digit grouping.
	res := ValidateNumberRange(2000000000, 0, 999999999, "Harga")
	assert.Equal(t, "Harga tidak boleh lebih dari 999.999.999", res.Error)
}

func TestValidatePositiveNumber(t *testing.T) {
	assert.False(t, ValidatePositiveNumber("x", "Harga", false).IsValid)
	assert.False(t, ValidatePositiveNumber(0, "Harga", false).IsValid)
	assert.True(t, ValidatePositiveNumber(0, "Stok", true).IsValid)
	assert.False(t, ValidatePositiveNumber(-1, "Stok", true).IsValid)
	assert.Equal(t, "Stok harus berupa angka positif atau nol", ValidatePositiveNumber(-1, "Stok", true).Error)
}

func TestValidatePattern(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	assert.True(t, ValidatePattern("BRG-001", pattern, "Kode", "hanya boleh berisi huruf, angka, dan tanda hubung").IsValid)

	res := ValidatePattern("BRG 001", pattern, "Kode", "hanya boleh berisi huruf, angka, dan tanda hubung")
	assert.False(t, res.IsValid)
	assert.Equal(t, "Kode hanya boleh berisi huruf, angka, dan tanda hubung", res.Error)

	assert.False(t, ValidatePattern(42, pattern, "Kode", "x").IsValid)
}

func TestValidateObject_OrderAndShortCircuit(t *testing.T) {
	schema := NewSchema().
		Field("kode", FieldRule{Label: "Kode", Required: true, Type: "string", MinLength: 2, MaxLength: 20}).
		Field("nama", FieldRule{Label: "Nama", Required: true, Type: "string", MinLength: 2, MaxLength: 100})

	result := ValidateObject(map[string]any{}, schema)
	assert.False(t, result.IsValid)
	// Required short-circuits the length checks per field, and errors come
	// out in declaration order.
	assert.Equal(t, []string{"Kode wajib diisi", "Nama wajib diisi"}, result.Errors)

	result = ValidateObject(map[string]any{"kode": "A", "nama": "Beras"}, schema)
	assert.Equal(t, []string{"Kode minimal 2 karakter"}, result.Errors)
}

func TestValidateObject_OptionalFieldSkipped(t *testing.T) {
	schema := NewSchema().
		Field("deskripsi", FieldRule{Label: "Deskripsi", Type: "string", MaxLength: 5})

	result := ValidateObject(map[string]any{}, schema)
	assert.True(t, result.IsValid)

	result = ValidateObject(map[string]any{"deskripsi": "panjang sekali"}, schema)
	assert.False(t, result.IsValid)
}

func TestValidateObject_CustomValidator(t *testing.T) {
	schema := NewSchema().
		Field("stok", FieldRule{
			Label: "Stok",
			Custom: func(value any, fieldName string, obj map[string]any) ([]string, []string) {
				n, _ := ToNumber(value)
				if n == 0 {
					return nil, []string{fieldName + " sedang habis"}
				}
				return nil, nil
			},
		})

	result := ValidateObject(map[string]any{"stok": 0}, schema)
	assert.True(t, result.IsValid)
	assert.Equal(t, []string{"Stok sedang habis"}, result.Warnings)
}

func TestToNumber(t *testing.T) {
	n, ok := ToNumber("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, n)

	_, ok = ToNumber("abc")
	assert.False(t, ok)

	_, ok = ToNumber(nil)
	assert.False(t, ok)

	n, ok = ToNumber(7)
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)
}
