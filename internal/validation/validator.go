package validation

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Result is the outcome of a single-field check.
type Result struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// ValidationResult is the outcome of validating a whole payload.
// IsValid is true iff Errors is empty; Warnings never affect IsValid.
// This shape is serialized verbatim by the report/export layer, so the
// field names must stay stable.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult returns a passing result with non-nil message slices
// so JSON output is always [] rather than null.
func NewValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

// AddError appends a blocking message and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning appends an advisory message. Warnings never flip IsValid.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge folds another result into this one, preserving message order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.IsValid {
		r.IsValid = false
	}
}

func valid() Result { return Result{IsValid: true} }

func invalid(msg string) Result { return Result{IsValid: false, Error: msg} }

// idPrinter formats numeric bounds with Indonesian digit grouping
// (999999999 -> "999.999.999") for user-facing messages.
var idPrinter = message.NewPrinter(language.Indonesian)

// FormatNumber renders a bound the way the UI displays amounts.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return idPrinter.Sprintf("%d", int64(n))
	}
	return idPrinter.Sprintf("%v", n)
}

// ToNumber coerces a raw field value into a float64. Numeric strings are
// accepted; NaN and non-numeric values are rejected.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ValidateRequired fails on nil, all-whitespace strings, and empty slices.
func ValidateRequired(value any, fieldName string) Result {
	if value == nil {
		return invalid(fieldName + " wajib diisi")
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return invalid(fieldName + " wajib diisi")
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice && rv.Len() == 0 {
			return invalid(fieldName + " wajib diisi")
		}
	}
	return valid()
}

// ValidateStringLength compares the trimmed length against [min, max]
// inclusive. Non-string values fail with a type message.
func ValidateStringLength(value any, min, max int, fieldName string) Result {
	s, ok := value.(string)
	if !ok {
		return invalid(fieldName + " harus berupa teks")
	}
	length := len([]rune(strings.TrimSpace(s)))
	if length < min {
		return invalid(fmt.Sprintf("%s minimal %d karakter", fieldName, min))
	}
	if length > max {
		return invalid(fmt.Sprintf("%s maksimal %d karakter", fieldName, max))
	}
	return valid()
}

// ValidateNumberRange coerces the value numerically and checks it against
// [min, max] inclusive, with distinct messages per failure mode.
func ValidateNumberRange(value any, min, max float64, fieldName string) Result {
	n, ok := ToNumber(value)
	if !ok {
		return invalid(fieldName + " harus berupa angka")
	}
	if n < min {
		return invalid(fmt.Sprintf("%s tidak boleh kurang dari %s", fieldName, FormatNumber(min)))
	}
	if n > max {
		return invalid(fmt.Sprintf("%s tidak boleh lebih dari %s", fieldName, FormatNumber(max)))
	}
	return valid()
}

// ValidatePositiveNumber fails on non-numeric values and on values below
// zero (or below 0.01 when zero is not allowed).
func ValidatePositiveNumber(value any, fieldName string, allowZero bool) Result {
	n, ok := ToNumber(value)
	if !ok {
		return invalid(fieldName + " harus berupa angka")
	}
	floor := 0.01
	if allowZero {
		floor = 0
	}
	if n < floor {
		if allowZero {
			return invalid(fieldName + " harus berupa angka positif atau nol")
		}
		return invalid(fieldName + " harus berupa angka positif")
	}
	return valid()
}

// ValidatePattern fails when the value is not a string or does not match.
// The description completes the message ("Kode barang hanya boleh ...").
func ValidatePattern(value any, pattern *regexp.Regexp, fieldName, description string) Result {
	s, ok := value.(string)
	if !ok {
		return invalid(fieldName + " harus berupa teks")
	}
	if !pattern.MatchString(s) {
		return invalid(fieldName + " " + description)
	}
	return valid()
}
