package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// BackupHeaders are the column titles of every backup format.
var BackupHeaders = []string{"Invoice Number", "Client", "Amount", "Date", "Status"}

// BackupService exports invoice records as CSV or XLSX
type BackupService interface {
	Records(ctx context.Context) ([]entity.BackupRecord, error)
	CSV(records []entity.BackupRecord) []byte
	XLSX(records []entity.BackupRecord) ([]byte, error)
	FileName(ext string) string
}

type backupServiceImpl struct {
	sessions SessionService
	now      func() time.Time
	logger   Logger
}

// NewBackupService creates a new BackupService. sessions may be nil when
// only the format conversions are used.
func NewBackupService(sessions SessionService, now func() time.Time, logger Logger) BackupService {
	if now == nil {
		now = time.Now
	}
	return &backupServiceImpl{sessions: sessions, now: now, logger: logger}
}

// Records collects one backup record per live session
func (s *backupServiceImpl) Records(ctx context.Context) ([]entity.BackupRecord, error) {
	if s.sessions == nil {
		return nil, nil
	}
	views, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	records := make([]entity.BackupRecord, 0, len(views))
	for _, v := range views {
		snap := v.Snapshot
		records = append(records, entity.BackupRecord{
			InvoiceNumber: snap.InvoiceNumber,
			ClientName:    snap.Input.ClientName,
			Total:         snap.Breakdown.Total.String(),
			Date:          snap.IssueDate(),
			Status:        string(v.PaymentStatus),
		})
	}
	return records, nil
}

// CSV writes the header and one row per record. Fields are joined by commas
// as they are; embedded commas and quotes are not escaped.
func (s *backupServiceImpl) CSV(records []entity.BackupRecord) []byte {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(BackupHeaders, ","))
	for _, r := range records {
		lines = append(lines, strings.Join(backupRow(r), ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

// XLSX writes the same columns as CSV to a single worksheet
func (s *backupServiceImpl) XLSX(records []entity.BackupRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range BackupHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for i, r := range records {
		for col, v := range backupRow(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("Failed to write workbook", "error", err)
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns invoices-backup-<date>.<ext>
func (s *backupServiceImpl) FileName(ext string) string {
	return fmt.Sprintf("invoices-backup-%s.%s", s.now().Format("2006-01-02"), ext)
}

func backupRow(r entity.BackupRecord) []string {
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.Format("2006-01-02")
	}
	return []string{r.InvoiceNumber, r.ClientName, r.Total, date, r.Status}
}
