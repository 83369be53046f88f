package query

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// FilterType describes how a filter's value is entered and displayed.
type FilterType string

const (
	FilterTypeSelect    FilterType = "select"
	FilterTypeRange     FilterType = "range"
	FilterTypeBoolean   FilterType = "boolean"
	FilterTypeDateRange FilterType = "date_range"
)

// CustomFilterFunc fully replaces operator-based evaluation for a filter.
type CustomFilterFunc func(rec Record, filterValue any) bool

// FilterOption is one enumerated choice for a select filter.
type FilterOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// FilterDefinition declares one filterable dimension.
type FilterDefinition struct {
	Name         string           `json:"name"`
	Field        string           `json:"field"`
	Type         FilterType       `json:"type"`
	Label        string           `json:"label"`
	Multiple     bool             `json:"multiple"`
	Operator     Operator         `json:"operator"`
	Options      []FilterOption   `json:"options,omitempty"`
	CustomFilter CustomFilterFunc `json:"-"`
	Validate     func(any) bool   `json:"-"`
}

// FilterSummary is one human-readable entry per active filter, consumed
// verbatim by the report/export layer.
type FilterSummary struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Value   any    `json:"value"`
	Display string `json:"display"`
}

// FilterConfig round-trips the filter state. Importing replaces the active
// set and merges (upserts) definitions.
type FilterConfig struct {
	ActiveFilters     map[string]any              `json:"activeFilters"`
	FilterDefinitions map[string]FilterDefinition `json:"filterDefinitions"`
}

// FilterManager holds a filter-definition registry, the active filter set,
// and a result cache keyed by filter state. Instances are not safe for
// concurrent use; create one per independent filter context.
type FilterManager struct {
	definitions map[string]FilterDefinition
	order       []string
	active      map[string]any
	cache       map[string][]Record
}

// NewFilterManager creates a manager pre-populated with the built-in
// master-data filters.
func NewFilterManager() *FilterManager {
	m := &FilterManager{
		definitions: make(map[string]FilterDefinition),
		active:      make(map[string]any),
		cache:       make(map[string][]Record),
	}
	m.registerDefaults()
	return m
}

func (m *FilterManager) registerDefaults() {
	m.DefineFilter("kategori", FilterDefinition{
		Field:    "kategori_id",
		Type:     FilterTypeSelect,
		Label:    "Kategori",
		Operator: OpEquals,
	})
	m.DefineFilter("satuan", FilterDefinition{
		Field:    "satuan_id",
		Type:     FilterTypeSelect,
		Label:    "Satuan",
		Operator: OpEquals,
	})
	m.DefineFilter("status", FilterDefinition{
		Field:    "status",
		Type:     FilterTypeSelect,
		Label:    "Status",
		Operator: OpEquals,
		Options: []FilterOption{
			{Value: "aktif", Label: "Aktif"},
			{Value: "nonaktif", Label: "Nonaktif"},
		},
	})
	m.DefineFilter("stok_level", FilterDefinition{
		Field:    "stok",
		Type:     FilterTypeSelect,
		Label:    "Level Stok",
		Operator: OpCustom,
		Options: []FilterOption{
			{Value: "tersedia", Label: "Tersedia"},
			{Value: "menipis", Label: "Menipis"},
			{Value: "habis", Label: "Habis"},
		},
		CustomFilter: stockLevelFilter,
		Validate: func(v any) bool {
			s := coerceString(v)
			return s == "tersedia" || s == "menipis" || s == "habis"
		},
	})
	m.DefineFilter("stok_rendah", FilterDefinition{
		Field:        "stok",
		Type:         FilterTypeBoolean,
		Label:        "Stok Rendah",
		Operator:     OpCustom,
		CustomFilter: lowStockFilter,
	})
	m.DefineFilter("harga", FilterDefinition{
		Field:    "harga_jual",
		Type:     FilterTypeRange,
		Label:    "Harga Jual",
		Operator: OpBetween,
		Validate: validRange,
	})
	m.DefineFilter("tanggal_dibuat", FilterDefinition{
		Field:    "created_at",
		Type:     FilterTypeDateRange,
		Label:    "Tanggal Dibuat",
		Operator: OpBetween,
	})
}

// stockLevelFilter buckets a record by its stock position relative to the
// minimum: habis (none), menipis (at or below minimum), tersedia (above).
func stockLevelFilter(rec Record, filterValue any) bool {
	stok, ok := coerceNumber(ResolveField(rec, "stok"))
	if !ok {
		return false
	}
	min, _ := coerceNumber(ResolveField(rec, "stok_minimum"))
	switch coerceString(filterValue) {
	case "habis":
		return stok == 0
	case "menipis":
		return stok > 0 && stok <= min
	case "tersedia":
		return stok > min
	default:
		return false
	}
}

// lowStockFilter keeps records at or below their minimum stock when the
// filter value is truthy; a falsy value keeps the rest.
func lowStockFilter(rec Record, filterValue any) bool {
	stok, okStok := coerceNumber(ResolveField(rec, "stok"))
	min, okMin := coerceNumber(ResolveField(rec, "stok_minimum"))
	if !okStok || !okMin {
		return false
	}
	if coerceBool(filterValue) {
		return stok <= min
	}
	return stok > min
}

func validRange(v any) bool {
	min, max, ok := rangeBounds(v)
	if !ok {
		return false
	}
	if min == nil || max == nil {
		return true
	}
	lo, okLo := coerceNumber(min)
	hi, okHi := coerceNumber(max)
	if !okLo || !okHi {
		return false
	}
	return lo <= hi
}

// DefineFilter upserts a definition. Existing active values are not
// retroactively re-validated against the new definition.
func (m *FilterManager) DefineFilter(name string, def FilterDefinition) {
	def.Name = name
	if _, exists := m.definitions[name]; !exists {
		m.order = append(m.order, name)
	}
	m.definitions[name] = def
}

// Definition returns a filter definition by name.
func (m *FilterManager) Definition(name string) (FilterDefinition, bool) {
	def, ok := m.definitions[name]
	return def, ok
}

// SetFilter activates a filter value. Unknown names and values rejected by
// the definition's validator are logged and ignored so a bad input never
// corrupts the active set. Nil or empty-string values remove the filter.
func (m *FilterManager) SetFilter(name string, value any) {
	def, ok := m.definitions[name]
	if !ok {
		log.Printf("WARN: filter %q tidak terdaftar, diabaikan", name)
		return
	}
	if isEmptyFilterValue(value) {
		m.RemoveFilter(name)
		return
	}
	if def.Validate != nil && !def.Validate(value) {
		log.Printf("WARN: nilai filter %q ditolak oleh validasi, diabaikan", name)
		return
	}
	m.active[name] = value
	m.invalidateCache()
}

// RemoveFilter deactivates one filter.
func (m *FilterManager) RemoveFilter(name string) {
	if _, ok := m.active[name]; !ok {
		return
	}
	delete(m.active, name)
	m.invalidateCache()
}

// ClearAllFilters deactivates everything.
func (m *FilterManager) ClearAllFilters() {
	if len(m.active) == 0 {
		return
	}
	m.active = make(map[string]any)
	m.invalidateCache()
}

// ActiveFilters returns a copy of the active filter set.
func (m *FilterManager) ActiveFilters() map[string]any {
	out := make(map[string]any, len(m.active))
	for k, v := range m.active {
		out[k] = v
	}
	return out
}

// HasActiveFilters reports whether any filter is currently applied.
func (m *FilterManager) HasActiveFilters() bool {
	return len(m.active) > 0
}

func (m *FilterManager) invalidateCache() {
	m.cache = make(map[string][]Record)
}

// ApplyFilters narrows data to records matching the conjunction of all
// active filters. The result only depends on the active set, never on the
// order filters were activated in.
func (m *FilterManager) ApplyFilters(data []Record) []Record {
	if len(data) == 0 || len(m.active) == 0 {
		return data
	}

	key := m.cacheKey(len(data))
	if cached, ok := m.cache[key]; ok {
		return cached
	}

	result := data
	for _, name := range m.sortedActiveNames() {
		def := m.definitions[name]
		result = m.applyFilter(result, def, m.active[name])
	}

	m.cache[key] = result
	return result
}

func (m *FilterManager) sortedActiveNames() []string {
	names := make([]string, 0, len(m.active))
	for name := range m.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *FilterManager) cacheKey(dataLen int) string {
	var sb strings.Builder
	for _, name := range m.sortedActiveNames() {
		encoded, err := json.Marshal(m.active[name])
		if err != nil {
			encoded = []byte(coerceString(m.active[name]))
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.Write(encoded)
		sb.WriteByte('|')
	}
	fmt.Fprintf(&sb, "len=%d", dataLen)
	return sb.String()
}

// applyFilter evaluates one filter over the data. A custom filter bypasses
// operator dispatch entirely.
func (m *FilterManager) applyFilter(data []Record, def FilterDefinition, value any) []Record {
	out := make([]Record, 0, len(data))
	asDate := def.Type == FilterTypeDateRange
	for _, rec := range data {
		var matched bool
		if def.CustomFilter != nil {
			matched = def.CustomFilter(rec, value)
		} else {
			matched = Match(def.Operator, ResolveField(rec, def.Field), value, asDate)
		}
		if matched {
			out = append(out, rec)
		}
	}
	return out
}

// GetFilterOptions returns the predefined options, or derives a sorted,
// deduplicated list from the distinct field values in data.
func (m *FilterManager) GetFilterOptions(name string, data []Record) []FilterOption {
	def, ok := m.definitions[name]
	if !ok {
		return nil
	}
	if len(def.Options) > 0 {
		return def.Options
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, rec := range data {
		v := ResolveField(rec, def.Field)
		if v == nil {
			continue
		}
		s := coerceString(v)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, s)
	}
	sort.Strings(values)

	options := make([]FilterOption, 0, len(values))
	for _, v := range values {
		options = append(options, FilterOption{Value: v, Label: v})
	}
	return options
}

// GetFilterSummary returns one display entry per active filter, in
// definition order.
func (m *FilterManager) GetFilterSummary() []FilterSummary {
	summary := make([]FilterSummary, 0, len(m.active))
	for _, name := range m.order {
		value, ok := m.active[name]
		if !ok {
			continue
		}
		def := m.definitions[name]
		summary = append(summary, FilterSummary{
			Name:    name,
			Label:   def.Label,
			Value:   value,
			Display: displayValue(def, value),
		})
	}
	return summary
}

func displayValue(def FilterDefinition, value any) string {
	switch def.Type {
	case FilterTypeRange:
		min, max, _ := rangeBounds(value)
		return fmt.Sprintf("%s - %s", boundDisplay(min), boundDisplay(max))
	case FilterTypeDateRange:
		min, max, _ := rangeBounds(value)
		return fmt.Sprintf("%s s/d %s", dateDisplay(min), dateDisplay(max))
	case FilterTypeBoolean:
		if coerceBool(value) {
			return "Ya"
		}
		return "Tidak"
	}
	if arr := toSliceIfSlice(value); arr != nil {
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = coerceString(v)
		}
		return strings.Join(parts, ", ")
	}
	return coerceString(value)
}

func boundDisplay(v any) string {
	if v == nil {
		return "-"
	}
	return coerceString(v)
}

func dateDisplay(v any) string {
	if v == nil {
		return "-"
	}
	if t, ok := coerceTime(v); ok {
		return t.Format("02/01/2006")
	}
	return coerceString(v)
}

// toSliceIfSlice returns nil for non-slice values, unlike toSlice which
// wraps scalars.
func toSliceIfSlice(v any) []any {
	if _, ok := v.(string); ok {
		return nil
	}
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

// ExportConfig snapshots the active filters and definitions.
func (m *FilterManager) ExportConfig() FilterConfig {
	cfg := FilterConfig{
		ActiveFilters:     m.ActiveFilters(),
		FilterDefinitions: make(map[string]FilterDefinition, len(m.definitions)),
	}
	for name, def := range m.definitions {
		cfg.FilterDefinitions[name] = def
	}
	return cfg
}

// ImportConfig replaces the active filter set and merges definitions.
func (m *FilterManager) ImportConfig(cfg FilterConfig) {
	for name, def := range cfg.FilterDefinitions {
		m.DefineFilter(name, def)
	}
	m.active = make(map[string]any)
	for name, value := range cfg.ActiveFilters {
		m.SetFilter(name, value)
	}
	m.invalidateCache()
}

func isEmptyFilterValue(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}
