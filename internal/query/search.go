package query

import "strings"

// SearchEngine performs free-text containment search across configured
// dot-path fields.
type SearchEngine struct {
	fields []string
}

// NewSearchEngine configures which record fields participate in search.
func NewSearchEngine(fields ...string) *SearchEngine {
	if len(fields) == 0 {
		fields = []string{"kode", "nama", "deskripsi"}
	}
	return &SearchEngine{fields: fields}
}

// Search returns the records whose configured fields contain term,
// case-insensitively. An empty term returns data unchanged.
func (s *SearchEngine) Search(data []Record, term string) []Record {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" || len(data) == 0 {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		for _, field := range s.fields {
			v := ResolveField(rec, field)
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(coerceString(v)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
