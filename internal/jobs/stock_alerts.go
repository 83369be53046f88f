package jobs

import (
	"context"
	"log"

	"koperasimart/internal/models"
	"koperasimart/internal/repositories"

	"github.com/google/uuid"
)

// AuditLogger is the slice of the audit service the alert sweep needs.
type AuditLogger interface {
	LogActivity(ctx context.Context, tenantID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, clientIP string, oldValues, newValues models.JSONB) error
}

// StockAlertService sweeps barang master data for rows at or under their
// configured minimum stock.
type StockAlertService struct {
	barangRepo repositories.BarangRepository
	auditSvc   AuditLogger
}

type StockAlert struct {
	TenantID    uuid.UUID
	BarangID    uuid.UUID
	Kode        string
	Nama        string
	Stok        int
	StokMinimum int
}

func NewStockAlertService(barangRepo repositories.BarangRepository, auditSvc AuditLogger) *StockAlertService {
	return &StockAlertService{
		barangRepo: barangRepo,
		auditSvc:   auditSvc,
	}
}

// CheckLowStock returns an alert per active barang whose stok is at or
// below its stok_minimum.
func (a *StockAlertService) CheckLowStock(ctx context.Context, tenantID uuid.UUID) ([]StockAlert, error) {
	items, err := a.barangRepo.ListLowStock(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to list low stock barang for tenant %s: %v", tenantID.String(), err)
		return nil, err
	}

	var alerts []StockAlert
	for _, b := range items {
		alerts = append(alerts, StockAlert{
			TenantID:    b.TenantID,
			BarangID:    b.ID,
			Kode:        b.Kode,
			Nama:        b.Nama,
			Stok:        b.Stok,
			StokMinimum: b.StokMinimum,
		})
	}
	return alerts, nil
}

func (a *StockAlertService) LogLowStockAlerts(alerts []StockAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("Low stock alerts for tenant %s:", alerts[0].TenantID.String())
	for _, alert := range alerts {
		log.Printf("- Barang '%s' (%s) has %d units (minimum: %d)",
			alert.Nama,
			alert.Kode,
			alert.Stok,
			alert.StokMinimum)
	}
}

// CheckAndLogLowStockAcrossAllTenants sweeps every tenant that has barang
// rows. Tenants whose check fails are logged and skipped.
func (a *StockAlertService) CheckAndLogLowStockAcrossAllTenants(ctx context.Context) error {
	tenantIDs, err := a.barangRepo.ListTenantIDs(ctx)
	if err != nil {
		log.Printf("Failed to list tenants for stock alerts: %v", err)
		return err
	}

	for _, tenantID := range tenantIDs {
		alerts, err := a.CheckLowStock(ctx, tenantID)
		if err != nil {
			continue
		}
		a.LogLowStockAlerts(alerts)
		a.auditLowStockAlerts(ctx, tenantID, alerts)
	}
	return nil
}

// auditLowStockAlerts writes one ALERT entry per sweep so the audit trail
// shows when a tenant dropped below minimum stock.
func (a *StockAlertService) auditLowStockAlerts(ctx context.Context, tenantID uuid.UUID, alerts []StockAlert) {
	if a.auditSvc == nil || len(alerts) == 0 {
		return
	}

	items := make([]interface{}, 0, len(alerts))
	for _, alert := range alerts {
		items = append(items, models.JSONB{
			"kode":         alert.Kode,
			"nama":         alert.Nama,
			"stok":         alert.Stok,
			"stok_minimum": alert.StokMinimum,
		})
	}

	summary := models.JSONB{
		"alert_count": len(alerts),
		"items":       items,
	}
	if err := a.auditSvc.LogActivity(ctx, tenantID, "barang", uuid.New().String(), models.ActionAlert, nil, "", nil, summary); err != nil {
		log.Printf("WARN: failed to write low stock audit entry for tenant %s: %v", tenantID.String(), err)
	}
}

// ScheduledLowStockCheck is the entry point wired into the job scheduler.
func (a *StockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	log.Println("Starting scheduled low stock check")

	if err := a.CheckAndLogLowStockAcrossAllTenants(ctx); err != nil {
		log.Printf("Scheduled low stock check failed: %v", err)
		return err
	}

	log.Println("Scheduled low stock check completed successfully")
	return nil
}
