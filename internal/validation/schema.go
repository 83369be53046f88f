package validation

import "regexp"

// CustomValidator receives the field value, its display name, and the whole
// payload, and may contribute both errors and warnings.
type CustomValidator func(value any, fieldName string, obj map[string]any) (errors []string, warnings []string)

// FieldRule describes the checks applied to one field. Checks run in a
// fixed order: type, length, range, pattern, custom.
type FieldRule struct {
	Label              string
	Required           bool
	Type               string // "string" or "number"; empty skips the type check
	MinLength          int
	MaxLength          int
	Min                *float64
	Max                *float64
	Pattern            *regexp.Regexp
	PatternDescription string
	Custom             CustomValidator
}

type schemaField struct {
	name string
	rule FieldRule
}

// Schema is an ordered field->rule mapping. Declaration order drives the
// order of produced messages, which downstream consumers rely on.
type Schema struct {
	fields []schemaField
}

func NewSchema() *Schema {
	return &Schema{}
}

// Field appends a rule. Returns the schema for chaining.
func (s *Schema) Field(name string, rule FieldRule) *Schema {
	s.fields = append(s.fields, schemaField{name: name, rule: rule})
	return s
}

// ValidateObject applies the schema to a payload in declaration order.
// A missing required field short-circuits the remaining checks for that
// field only; all other rule failures accumulate.
func ValidateObject(obj map[string]any, schema *Schema) ValidationResult {
	result := NewValidationResult()

	for _, f := range schema.fields {
		label := f.rule.Label
		if label == "" {
			label = f.name
		}
		value, present := obj[f.name]

		if f.rule.Required {
			if res := ValidateRequired(value, label); !res.IsValid {
				result.AddError(res.Error)
				continue
			}
		} else if !present || value == nil {
			continue
		}

		switch f.rule.Type {
		case "string":
			if f.rule.MinLength > 0 || f.rule.MaxLength > 0 {
				max := f.rule.MaxLength
				if max == 0 {
					max = int(^uint(0) >> 1)
				}
				if res := ValidateStringLength(value, f.rule.MinLength, max, label); !res.IsValid {
					result.AddError(res.Error)
				}
			}
		case "number":
			if f.rule.Min != nil || f.rule.Max != nil {
				min := 0.0
				if f.rule.Min != nil {
					min = *f.rule.Min
				}
				max := maxAmount
				if f.rule.Max != nil {
					max = *f.rule.Max
				}
				if res := ValidateNumberRange(value, min, max, label); !res.IsValid {
					result.AddError(res.Error)
				}
			}
		}

		if f.rule.Pattern != nil {
			if res := ValidatePattern(value, f.rule.Pattern, label, f.rule.PatternDescription); !res.IsValid {
				result.AddError(res.Error)
			}
		}

		if f.rule.Custom != nil {
			errs, warns := f.rule.Custom(value, label, obj)
			for _, e := range errs {
				result.AddError(e)
			}
			for _, w := range warns {
				result.AddWarning(w)
			}
		}
	}

	return result
}
