package handlers

import (
	"errors"
	"net/http"

	"koperasimart/internal/common"
	"koperasimart/internal/middleware"
	"koperasimart/internal/models"
	"koperasimart/internal/services"

	"github.com/labstack/echo/v4"
)

// KategoriHandlers handles HTTP requests for kategori master data
type KategoriHandlers struct {
	kategoriService services.KategoriService
}

// NewKategoriHandlers creates a new kategori handlers instance
func NewKategoriHandlers(kategoriService services.KategoriService) *KategoriHandlers {
	return &KategoriHandlers{
		kategoriService: kategoriService,
	}
}

// CreateKategori handles POST /kategori
func (h *KategoriHandlers) CreateKategori(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var input models.KategoriInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	kategori, result, err := h.kategoriService.Create(ctx, tenantID, &input)
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
		"message":  "Kategori berhasil dibuat",
		"kategori": kategori,
	})
}

// ListKategori handles GET /kategori
func (h *KategoriHandlers) ListKategori(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	list, err := h.kategoriService.List(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"kategori": list,
		"count":    len(list),
	})
}

// GetKategoriByID handles GET /kategori/:id
func (h *KategoriHandlers) GetKategoriByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	kategoriID, err := common.ValidateUUID(c.Param("id"), "kategori ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	kategori, err := h.kategoriService.GetByID(ctx, tenantID, kategoriID)
	if err != nil {
		return common.SendNotFoundError(c, "Kategori")
	}

	return c.JSON(http.StatusOK, kategori)
}

// UpdateKategori handles PUT /kategori/:id
func (h *KategoriHandlers) UpdateKategori(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	kategoriID, err := common.ValidateUUID(c.Param("id"), "kategori ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input models.KategoriInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	kategori, result, err := h.kategoriService.Update(ctx, tenantID, kategoriID, &input)
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
		"message":  "Kategori berhasil diperbarui",
		"kategori": kategori,
	})
}

// DeleteKategori handles DELETE /kategori/:id
func (h *KategoriHandlers) DeleteKategori(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	kategoriID, err := common.ValidateUUID(c.Param("id"), "kategori ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.kategoriService.Delete(ctx, tenantID, kategoriID); err != nil {
		if errors.Is(err, services.ErrInUse) {
			return common.SendConflictError(c, "Kategori masih digunakan oleh barang")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Kategori berhasil dihapus",
	})
}
