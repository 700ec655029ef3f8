package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

// backup converts invoice records saved from GET /api/backup?format=json
// into the CSV or XLSX backup file. A bare JSON array is accepted too.

type sugarLogger struct {
	s *zap.SugaredLogger
}

func (l sugarLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l sugarLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

func main() {
	input := flag.String("in", "", "JSON file holding the records")
	format := flag.String("format", "csv", "csv or xlsx")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "info", OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *input == "" {
		logger.Fatal("Missing -in")
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		logger.Fatal("Failed to read records", zap.String("path", *input), zap.Error(err))
	}

	records, err := parseRecords(raw)
	if err != nil {
		logger.Fatal("Failed to parse records", zap.Error(err))
	}

	backup := service.NewBackupService(nil, nil, sugarLogger{s: logger.Sugar()})

	var data []byte
	switch *format {
	case "csv":
		data = backup.CSV(records)
	case "xlsx":
		data, err = backup.XLSX(records)
		if err != nil {
			logger.Fatal("Failed to build workbook", zap.Error(err))
		}
	default:
		logger.Fatal("Unknown format", zap.String("format", *format))
	}

	path := filepath.Join(*outDir, backup.FileName(*format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatal("Failed to write backup", zap.String("path", path), zap.Error(err))
	}

	logger.Info("Backup written", zap.String("path", path), zap.Int("records", len(records)))
}

func parseRecords(raw []byte) ([]entity.BackupRecord, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("{")) {
		var envelope struct {
			Data []entity.BackupRecord `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		return envelope.Data, nil
	}

	var records []entity.BackupRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
