package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"koperasimart/internal/common"
	"koperasimart/internal/config"
	"koperasimart/internal/models"
	"koperasimart/internal/query"
	"koperasimart/internal/repositories"
	"koperasimart/internal/validation"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Barang"

// exportColumns is the export header row. The column labels double as import
// template headers, so a downloaded export re-imports cleanly.
var exportColumns = []string{
	"Kode", "Nama", "Kategori", "Satuan",
	"Harga Beli", "Harga Jual", "Stok", "Stok Minimum", "Status", "Deskripsi",
}

// ImportResult summarizes one import batch. Row errors keep their 1-based
// row label so the UI can point at the offending spreadsheet line.
type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Imported  int      `json:"imported"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ExportResult points at the generated file in object storage. Filters echoes
// the active-filter summary so the envelope reports what the file contains.
type ExportResult struct {
	ObjectName string                `json:"object_name"`
	URL        string                `json:"url"`
	RowCount   int                   `json:"row_count"`
	Format     string                `json:"format"`
	Filters    []query.FilterSummary `json:"filters"`
}

type ImportExportService interface {
	// ImportBarang reads a CSV or XLSX file and creates one barang per valid
	// row. Invalid rows are reported and skipped, valid rows still land.
	ImportBarang(ctx context.Context, tenantID uuid.UUID, filename string, reader io.Reader) (*ImportResult, error)

	// ExportBarang writes the tenant's barang matching the query parameters
	// to a CSV or XLSX file in object storage and returns a presigned URL.
	ExportBarang(ctx context.Context, tenantID uuid.UUID, format string, params query.QueryParams) (*ExportResult, error)
}

type importExportService struct {
	barangService BarangService
	kategoriRepo  repositories.KategoriRepository
	satuanRepo    repositories.SatuanRepository
	validator     *validation.Engine
	minioService  MinioService
	auditService  AuditLogsService
	exportCfg     config.ExportConfig
	importCfg     config.ImportConfig
}

func NewImportExportService(barangService BarangService, kategoriRepo repositories.KategoriRepository, satuanRepo repositories.SatuanRepository, validator *validation.Engine, minioService MinioService, auditService AuditLogsService, exportCfg config.ExportConfig, importCfg config.ImportConfig) ImportExportService {
	return &importExportService{
		barangService: barangService,
		kategoriRepo:  kategoriRepo,
		satuanRepo:    satuanRepo,
		validator:     validator,
		minioService:  minioService,
		auditService:  auditService,
		exportCfg:     exportCfg,
		importCfg:     importCfg,
	}
}

func (s *importExportService) ImportBarang(ctx context.Context, tenantID uuid.UUID, filename string, reader io.Reader) (*ImportResult, error) {
	rows, err := s.parseFile(filename, reader)
	if err != nil {
		return nil, err
	}
	if s.importCfg.MaxRows > 0 && len(rows) > s.importCfg.MaxRows {
		return nil, fmt.Errorf("import file has %d rows, maximum is %d", len(rows), s.importCfg.MaxRows)
	}

	kategoriByName, err := s.kategoriLookup(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	satuanByName, err := s.satuanLookup(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{TotalRows: len(rows)}

	for i, row := range rows {
		input, rowResult := s.validator.ValidateImportRow(row, i)
		label := fmt.Sprintf("Baris %d: ", i+1)

		s.resolveLookup(input.KategoriID, kategoriByName, &rowResult, label+"Kategori tidak ditemukan")
		s.resolveLookup(input.SatuanID, satuanByName, &rowResult, label+"Satuan tidak ditemukan")

		result.Warnings = append(result.Warnings, rowResult.Warnings...)
		if !rowResult.IsValid {
			result.Failed++
			result.Errors = append(result.Errors, rowResult.Errors...)
			continue
		}

		_, createResult, err := s.barangService.Create(ctx, tenantID, input)
		if err != nil {
			return result, fmt.Errorf("failed to import row %d: %w", i+1, err)
		}
		if !createResult.IsValid {
			result.Failed++
			for _, msg := range createResult.Errors {
				result.Errors = append(result.Errors, label+msg)
			}
			continue
		}
		for _, msg := range createResult.Warnings {
			result.Warnings = append(result.Warnings, label+msg)
		}
		result.Imported++
	}

	s.logBatch(ctx, tenantID, models.ActionImport, models.JSONB{
		"filename":   filename,
		"total_rows": result.TotalRows,
		"imported":   result.Imported,
		"failed":     result.Failed,
	})

	return result, nil
}

func (s *importExportService) ExportBarang(ctx context.Context, tenantID uuid.UUID, format string, params query.QueryParams) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "xlsx" {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	// Two-pass query: fetch the filtered total first, then pull every
	// matching row in one page so exports ignore UI pagination.
	params.Page = 1
	params.Limit = 1
	probe, err := s.barangService.Query(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}
	records := []query.Record{}
	if probe.Pagination.TotalItems > 0 {
		params.Limit = probe.Pagination.TotalItems
		full, err := s.barangService.Query(ctx, tenantID, params)
		if err != nil {
			return nil, err
		}
		records = full.Data
	}

	kategoriNames, err := s.kategoriNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	satuanNames, err := s.satuanNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv"
		if err := writeCSV(&buf, records, kategoriNames, satuanNames); err != nil {
			return nil, fmt.Errorf("failed to build CSV export: %w", err)
		}
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		if err := writeXLSX(&buf, records, kategoriNames, satuanNames); err != nil {
			return nil, fmt.Errorf("failed to build XLSX export: %w", err)
		}
	}

	objectName := fmt.Sprintf("%s/barang-%s.%s", tenantID.String(), time.Now().Format("20060102-150405"), format)
	if err := s.minioService.UploadFile(ctx, s.exportCfg.Bucket, objectName, &buf, int64(buf.Len()), contentType); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.minioService.GetPresignedURL(ctx, s.exportCfg.Bucket, objectName, time.Duration(s.exportCfg.URLExpiryHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export URL: %w", err)
	}

	filterSummary := summarizeFilters(params.Filters)
	filterDisplay := make([]interface{}, 0, len(filterSummary))
	for _, f := range filterSummary {
		filterDisplay = append(filterDisplay, models.JSONB{"label": f.Label, "display": f.Display})
	}

	s.logBatch(ctx, tenantID, models.ActionExport, models.JSONB{
		"object_name": objectName,
		"row_count":   len(records),
		"format":      format,
		"filters":     filterDisplay,
	})

	return &ExportResult{
		ObjectName: objectName,
		URL:        url,
		RowCount:   len(records),
		Format:     format,
		Filters:    filterSummary,
	}, nil
}

// summarizeFilters renders the query's filter map into display entries using
// a throwaway filter manager, so the export envelope and audit entry report
// the same labels the query engine applied.
func summarizeFilters(filters map[string]any) []query.FilterSummary {
	fm := query.NewFilterManager()
	for name, value := range filters {
		fm.SetFilter(name, value)
	}
	return fm.GetFilterSummary()
}

// parseFile turns a CSV or XLSX upload into header-keyed row maps. The first
// non-empty row is the header.
func (s *importExportService) parseFile(filename string, reader io.Reader) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(reader)
	case ".xlsx":
		return parseXLSX(reader)
	default:
		return nil, fmt.Errorf("unsupported import file %q, expected .csv or .xlsx", filename)
	}
}

func parseCSV(reader io.Reader) ([]map[string]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rowsToMaps(raw), nil
}

func parseXLSX(reader io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	return rowsToMaps(raw), nil
}

func rowsToMaps(raw [][]string) []map[string]string {
	var header []string
	var rows []map[string]string
	for _, cells := range raw {
		empty := true
		for _, c := range cells {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[strings.TrimSpace(name)] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// resolveLookup rewrites a kategori/satuan cell value in place: raw UUIDs
// pass through, names resolve via the tenant's lookup table, anything else
// fails the row.
func (s *importExportService) resolveLookup(field *string, byName map[string]uuid.UUID, result *validation.ValidationResult, notFoundMsg string) {
	if field == nil || strings.TrimSpace(*field) == "" {
		return
	}
	value := strings.TrimSpace(*field)
	if _, err := uuid.Parse(value); err == nil {
		return
	}
	id, ok := byName[strings.ToLower(value)]
	if !ok {
		result.AddError(notFoundMsg)
		return
	}
	*field = id.String()
}

func (s *importExportService) kategoriLookup(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	list, err := s.kategoriRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load kategori for import: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(list))
	for _, k := range list {
		byName[strings.ToLower(k.Nama)] = k.ID
	}
	return byName, nil
}

func (s *importExportService) satuanLookup(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	list, err := s.satuanRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load satuan for import: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(list))
	for _, st := range list {
		byName[strings.ToLower(st.Nama)] = st.ID
	}
	return byName, nil
}

func (s *importExportService) kategoriNames(ctx context.Context, tenantID uuid.UUID) (map[string]string, error) {
	list, err := s.kategoriRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load kategori for export: %w", err)
	}
	names := make(map[string]string, len(list))
	for _, k := range list {
		names[k.ID.String()] = k.Nama
	}
	return names, nil
}

func (s *importExportService) satuanNames(ctx context.Context, tenantID uuid.UUID) (map[string]string, error) {
	list, err := s.satuanRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load satuan for export: %w", err)
	}
	names := make(map[string]string, len(list))
	for _, st := range list {
		names[st.ID.String()] = st.Nama
	}
	return names, nil
}

func writeCSV(buf *bytes.Buffer, records []query.Record, kategoriNames, satuanNames map[string]string) error {
	w := csv.NewWriter(buf)
	if err := w.Write(exportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(exportRow(rec, kategoriNames, satuanNames)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(buf *bytes.Buffer, records []query.Record, kategoriNames, satuanNames map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		values := exportRow(rec, kategoriNames, satuanNames)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(buf)
}

func exportRow(rec query.Record, kategoriNames, satuanNames map[string]string) []string {
	kategori := recString(rec, "kategori_id")
	if name, ok := kategoriNames[kategori]; ok {
		kategori = name
	}
	satuan := recString(rec, "satuan_id")
	if name, ok := satuanNames[satuan]; ok {
		satuan = name
	}
	return []string{
		recString(rec, "kode"),
		recString(rec, "nama"),
		kategori,
		satuan,
		recNumber(rec, "harga_beli"),
		recNumber(rec, "harga_jual"),
		recNumber(rec, "stok"),
		recNumber(rec, "stok_minimum"),
		recString(rec, "status"),
		recString(rec, "deskripsi"),
	}
}

func recString(rec query.Record, field string) string {
	if v, ok := rec[field]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func recNumber(rec query.Record, field string) string {
	switch v := rec[field].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// logBatch records an import/export run in the audit trail. Batch runs get
// their own record id since they do not map to a single row.
func (s *importExportService) logBatch(ctx context.Context, tenantID uuid.UUID, action string, summary models.JSONB) {
	var changedBy *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		changedBy = &userID
	}
	clientIP, _ := common.GetClientIPFromContext(ctx)

	if err := s.auditService.LogActivity(ctx, tenantID, "barang", uuid.New().String(), action, changedBy, clientIP, nil, summary); err != nil {
		log.Printf("WARN: failed to write %s audit log: %v", action, err)
	}
}
