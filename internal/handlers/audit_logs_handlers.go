package handlers

import (
	"net/http"
	"strconv"
	"time"

	"koperasimart/internal/common"
	"koperasimart/internal/middleware"
	"koperasimart/internal/models"
	"koperasimart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{
		auditLogsService: auditLogsService,
	}
}

// ListAuditLogs retrieves audit logs with filtering and pagination
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	filters := &models.AuditLogFilters{}
	if table := c.QueryParam("table"); table != "" {
		filters.TableName = &table
	}
	if recordID := c.QueryParam("record_id"); recordID != "" {
		filters.RecordID = &recordID
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if userID := c.QueryParam("user_id"); userID != "" {
		if uid, err := uuid.Parse(userID); err == nil {
			filters.ChangedBy = &uid
		}
	}
	if startDate := c.QueryParam("start_date"); startDate != "" {
		if sd, err := time.Parse(time.RFC3339, startDate); err == nil {
			filters.StartDate = &sd
		}
	}
	if endDate := c.QueryParam("end_date"); endDate != "" {
		if ed, err := time.Parse(time.RFC3339, endDate); err == nil {
			filters.EndDate = &ed
		}
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		if err := common.ValidateDateRange(*filters.StartDate, *filters.EndDate); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	filters.Limit = limit
	filters.Offset = offset

	if err := h.auditLogsService.ValidateAuditFilters(filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	logs, err := h.auditLogsService.ListAuditLogs(ctx, tenantID, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve audit logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   logs,
		"total":  len(logs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

// GetAuditLog retrieves a specific audit log entry
func (h *AuditLogsHandlers) GetAuditLog(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	auditLogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid audit log ID")
	}

	log, err := h.auditLogsService.GetAuditLog(ctx, tenantID, auditLogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Audit log not found")
	}

	return c.JSON(http.StatusOK, log)
}

// GetEntityHistory retrieves audit history for a specific entity
func (h *AuditLogsHandlers) GetEntityHistory(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	tableName := c.Param("table")
	recordID := c.Param("record_id")
	if tableName == "" || recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Table name and record ID are required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.auditLogsService.GetEntityHistory(ctx, tenantID, tableName, recordID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve entity history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":      logs,
		"total":     len(logs),
		"limit":     limit,
		"offset":    offset,
		"table":     tableName,
		"record_id": recordID,
	})
}

// GetActions returns distinct actions that have been logged
func (h *AuditLogsHandlers) GetActions(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	actions, err := h.auditLogsService.GetActions(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve actions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"actions": actions,
		"count":   len(actions),
	})
}
