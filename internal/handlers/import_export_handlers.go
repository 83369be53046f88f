package handlers

import (
	"fmt"
	"net/http"

	"koperasimart/internal/config"
	"koperasimart/internal/middleware"
	"koperasimart/internal/services"

	"github.com/labstack/echo/v4"
)

// ImportExportHandlers handles bulk import and export of barang
type ImportExportHandlers struct {
	importExportService services.ImportExportService
	maxFileSize         int64
}

// NewImportExportHandlers creates a new import/export handlers instance
func NewImportExportHandlers(importExportService services.ImportExportService, importCfg config.ImportConfig) *ImportExportHandlers {
	return &ImportExportHandlers{
		importExportService: importExportService,
		maxFileSize:         int64(importCfg.MaxFileSizeMB) * 1024 * 1024,
	}
}

// ImportBarang handles POST /barang/import with a multipart CSV or XLSX file
func (h *ImportExportHandlers) ImportBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Import file is required")
	}
	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("File size exceeds maximum limit of %dMB", h.maxFileSize/(1024*1024)))
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open import file")
	}
	defer src.Close()

	result, err := h.importExportService.ImportBarang(ctx, tenantID, file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := http.StatusOK
	if result.Imported > 0 && result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}

// ExportBarang handles GET /barang/export. Query parameters mirror the
// barang query endpoint so the export matches what the user sees.
func (h *ImportExportHandlers) ExportBarang(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	params, err := parseQueryParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.importExportService.ExportBarang(ctx, tenantID, format, params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}
