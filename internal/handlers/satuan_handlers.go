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

// SatuanHandlers handles HTTP requests for satuan master data
type SatuanHandlers struct {
	satuanService services.SatuanService
}

// NewSatuanHandlers creates a new satuan handlers instance
func NewSatuanHandlers(satuanService services.SatuanService) *SatuanHandlers {
	return &SatuanHandlers{
		satuanService: satuanService,
	}
}

// CreateSatuan handles POST /satuan
func (h *SatuanHandlers) CreateSatuan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var input models.SatuanInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	satuan, result, err := h.satuanService.Create(ctx, tenantID, &input)
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
		"message": "Satuan berhasil dibuat",
		"satuan":  satuan,
	})
}

// ListSatuan handles GET /satuan
func (h *SatuanHandlers) ListSatuan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	list, err := h.satuanService.List(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"satuan": list,
		"count":  len(list),
	})
}

// GetSatuanByID handles GET /satuan/:id
func (h *SatuanHandlers) GetSatuanByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	satuanID, err := common.ValidateUUID(c.Param("id"), "satuan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	satuan, err := h.satuanService.GetByID(ctx, tenantID, satuanID)
	if err != nil {
		return common.SendNotFoundError(c, "Satuan")
	}

	return c.JSON(http.StatusOK, satuan)
}

// UpdateSatuan handles PUT /satuan/:id
func (h *SatuanHandlers) UpdateSatuan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	satuanID, err := common.ValidateUUID(c.Param("id"), "satuan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input models.SatuanInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	satuan, result, err := h.satuanService.Update(ctx, tenantID, satuanID, &input)
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
		"message": "Satuan berhasil diperbarui",
		"satuan":  satuan,
	})
}

// DeleteSatuan handles DELETE /satuan/:id
func (h *SatuanHandlers) DeleteSatuan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	satuanID, err := common.ValidateUUID(c.Param("id"), "satuan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.satuanService.Delete(ctx, tenantID, satuanID); err != nil {
		if errors.Is(err, services.ErrInUse) {
			return common.SendConflictError(c, "Satuan masih digunakan oleh barang")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Satuan berhasil dihapus",
	})
}
