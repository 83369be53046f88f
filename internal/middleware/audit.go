package middleware

import (
	"context"
	"strings"
	"time"

	"koperasimart/internal/common"
	"koperasimart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditMiddleware provides automatic audit logging for HTTP requests
type AuditMiddleware struct {
	auditService services.AuditLogsService
}

// NewAuditMiddleware creates a new audit middleware instance
func NewAuditMiddleware(auditService services.AuditLogsService) *AuditMiddleware {
	return &AuditMiddleware{
		auditService: auditService,
	}
}

// ClientIP copies the resolved client address into the request context so
// the service layer can stamp it onto audit entries.
func ClientIP() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), common.ClientIPKey, c.RealIP())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// AuditRequest logs mutating requests and failed requests after the handler
// runs. Reads are skipped; the per-entity audit trail is written by the
// service layer, this captures the HTTP surface.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			ctx := c.Request().Context()
			tenantID, ok := GetTenantIDFromContext(ctx)
			if !ok {
				return err
			}

			method := c.Request().Method
			path := c.Path()
			if !m.shouldLog(method, path, err) {
				return err
			}

			var userPtr *uuid.UUID
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				userPtr = &userID
			}

			data := map[string]interface{}{
				"method":     method,
				"path":       path,
				"user_agent": c.Request().UserAgent(),
				"timestamp":  time.Now().Format(time.RFC3339),
			}
			if err != nil {
				data["error"] = err.Error()
			}

			action := method + " " + path
			if logErr := m.auditService.LogActivity(ctx, tenantID, "http_requests", path, action, userPtr, c.RealIP(), nil, data); logErr != nil {
				c.Logger().Errorf("Failed to log audit activity: %v", logErr)
			}

			return err
		}
	}
}

// shouldLog keeps the request audit trail down to writes and failures.
func (m *AuditMiddleware) shouldLog(method, path string, reqErr error) bool {
	if reqErr != nil {
		return true
	}
	if method == "POST" || method == "PUT" || method == "PATCH" || method == "DELETE" {
		return !m.shouldSkip(path)
	}
	return false
}

func (m *AuditMiddleware) shouldSkip(path string) bool {
	skipPrefixes := []string{"/health", "/metrics"}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
