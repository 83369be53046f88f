package query

import (
	"encoding/json"
	"fmt"
)

// DefaultPageSize is used when a query does not specify a limit.
const DefaultPageSize = 10

// QueryParams describes one query execution: free text search, filter
// values keyed by filter name, sorting, and 1-based pagination.
type QueryParams struct {
	Search    string         `json:"search,omitempty"`
	Filters   map[string]any `json:"filters,omitempty"`
	SortBy    string         `json:"sortBy,omitempty"`
	SortOrder string         `json:"sortOrder,omitempty"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
}

// Pagination is the page metadata echoed with every result, valid even for
// out-of-range pages.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// QueryResult is the result envelope: one page of records, pagination
// metadata, and the normalized parameters that produced it.
type QueryResult struct {
	Data       []Record    `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Params     QueryParams `json:"params"`
}

// Builder composes search, filtering, sorting, and pagination into a single
// execution with its own result cache. Like FilterManager, a Builder is
// meant to be used from one logical flow at a time.
type Builder struct {
	search  *SearchEngine
	filters *FilterManager
	cache   map[string]QueryResult
}

// NewBuilder wires a search engine and filter manager together.
func NewBuilder(search *SearchEngine, filters *FilterManager) *Builder {
	if search == nil {
		search = NewSearchEngine()
	}
	if filters == nil {
		filters = NewFilterManager()
	}
	return &Builder{
		search:  search,
		filters: filters,
		cache:   make(map[string]QueryResult),
	}
}

// Filters exposes the underlying filter manager, e.g. for summaries.
func (b *Builder) Filters() *FilterManager {
	return b.filters
}

// InvalidateCache drops all cached query results. Callers invoke this when
// the underlying dataset changes.
func (b *Builder) InvalidateCache() {
	b.cache = make(map[string]QueryResult)
}

// Execute runs search, then filters, then sort, then pagination over an
// in-memory snapshot. Results are cached by the full parameter set plus the
// input length.
func (b *Builder) Execute(data []Record, params QueryParams) QueryResult {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultPageSize
	}

	key := b.cacheKey(len(data), params)
	if cached, ok := b.cache[key]; ok {
		return cached
	}

	rows := b.search.Search(data, params.Search)

	b.filters.ClearAllFilters()
	for name, value := range params.Filters {
		b.filters.SetFilter(name, value)
	}
	rows = b.filters.ApplyFilters(rows)

	rows = SortRecords(rows, params.SortBy, params.SortOrder)

	total := len(rows)
	totalPages := (total + params.Limit - 1) / params.Limit

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	var page []Record
	switch {
	case start >= total:
		page = []Record{}
	case end > total:
		page = rows[start:total]
	default:
		page = rows[start:end]
	}

	result := QueryResult{
		Data: page,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			TotalItems: total,
			TotalPages: totalPages,
			HasNext:    params.Page < totalPages,
			HasPrev:    params.Page > 1,
		},
		Params: params,
	}

	b.cache[key] = result
	return result
}

func (b *Builder) cacheKey(dataLen int, params QueryParams) string {
	encoded, err := json.Marshal(params.Filters)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", params.Filters))
	}
	return fmt.Sprintf("%d|%s|%s|%s|%s|%d|%d",
		dataLen, params.Search, encoded, params.SortBy, params.SortOrder, params.Page, params.Limit)
}
