package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"koperasimart/internal/common"
	"koperasimart/internal/middleware"
	"koperasimart/internal/models"
	"koperasimart/internal/query"
	"koperasimart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BarangHandlers handles HTTP requests for barang master data
type BarangHandlers struct {
	barangService services.BarangService
}

// NewBarangHandlers creates a new barang handlers instance
func NewBarangHandlers(barangService services.BarangService) *BarangHandlers {
	return &BarangHandlers{
		barangService: barangService,
	}
}

// CreateBarang handles POST /barang
func (h *BarangHandlers) CreateBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var input models.BarangInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	barang, result, err := h.barangService.Create(ctx, tenantID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !result.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"message":    "Validasi gagal",
			"validation": result,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Barang berhasil dibuat",
		"barang":     barang,
		"validation": result,
	})
}

// GetBarangByID handles GET /barang/:id
func (h *BarangHandlers) GetBarangByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	barangID, err := common.ValidateUUID(c.Param("id"), "barang ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	barang, err := h.barangService.GetByID(ctx, tenantID, barangID)
	if err != nil {
		return common.SendNotFoundError(c, "Barang")
	}

	return c.JSON(http.StatusOK, barang)
}

// UpdateBarang handles PUT /barang/:id
func (h *BarangHandlers) UpdateBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	barangID, err := common.ValidateUUID(c.Param("id"), "barang ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input models.BarangInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	barang, result, err := h.barangService.Update(ctx, tenantID, barangID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !result.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"message":    "Validasi gagal",
			"validation": result,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Barang berhasil diperbarui",
		"barang":     barang,
		"validation": result,
	})
}

// DeleteBarang handles DELETE /barang/:id
func (h *BarangHandlers) DeleteBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	barangID, err := common.ValidateUUID(c.Param("id"), "barang ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.barangService.Delete(ctx, tenantID, barangID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Barang berhasil dihapus",
	})
}

// QueryBarang handles GET /barang. Search, filters, sorting, and pagination
// all run server-side over the tenant's snapshot.
func (h *BarangHandlers) QueryBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	params, err := parseQueryParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.barangService.Query(ctx, tenantID, params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// QueryBarangPost handles POST /barang/query for filter payloads too rich
// for query strings, e.g. range and date filters.
func (h *BarangHandlers) QueryBarangPost(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var params query.QueryParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.barangService.Query(ctx, tenantID, params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// GetFilterOptions handles GET /barang/filter-options/:name
func (h *BarangHandlers) GetFilterOptions(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	name := c.Param("name")
	if strings.TrimSpace(name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Filter name is required")
	}

	options, err := h.barangService.FilterOptions(ctx, tenantID, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"filter":  name,
		"options": options,
	})
}

// ValidateBarang handles POST /barang/validate. The UI calls this while the
// user types; nothing is persisted.
func (h *BarangHandlers) ValidateBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var req struct {
		models.BarangInput
		IsUpdate  bool    `json:"is_update"`
		ExcludeID *string `json:"exclude_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var excludeID *uuid.UUID
	if req.ExcludeID != nil && strings.TrimSpace(*req.ExcludeID) != "" {
		id, err := common.ValidateUUID(*req.ExcludeID, "exclude_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		excludeID = &id
	}

	result, err := h.barangService.Validate(ctx, tenantID, &req.BarangInput, req.IsUpdate, excludeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// parseQueryParams maps a GET query string onto QueryParams. Scalar filters
// arrive as filter[name]=value, structured filters as a JSON filters param.
func parseQueryParams(c echo.Context) (query.QueryParams, error) {
	params := query.QueryParams{
		Search:    common.SanitizeSearchQuery(c.QueryParam("search")),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Filters:   map[string]any{},
	}

	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil {
			params.Page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil {
			params.Limit = l
		}
	}

	if encoded := c.QueryParam("filters"); encoded != "" {
		if err := json.Unmarshal([]byte(encoded), &params.Filters); err != nil {
			return params, echo.NewHTTPError(http.StatusBadRequest, "Invalid filters parameter")
		}
	}
	for name, values := range c.QueryParams() {
		if !strings.HasPrefix(name, "filter[") || !strings.HasSuffix(name, "]") {
			continue
		}
		key := name[len("filter[") : len(name)-1]
		if key == "" || len(values) == 0 {
			continue
		}
		params.Filters[key] = values[0]
	}

	return params, nil
}
