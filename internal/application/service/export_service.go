package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
)

// ExportConfig controls capture and pagination
type ExportConfig struct {
	CaptureScale float64
	MarginMM     float64
	Archive      bool
	Now          func() time.Time
}

// ExportResult is a produced PDF.
type ExportResult struct {
	FileName    string `json:"file_name"`
	Pages       int    `json:"pages"`
	Size        int    `json:"size"`
	ArchivePath string `json:"archive_path,omitempty"`
	PDF         []byte `json:"-"`
}

// ExportService turns a session's surface into a paginated PDF
type ExportService interface {
	Export(ctx context.Context, sessionID string) (*ExportResult, error)
}

type exportServiceImpl struct {
	sessions  SessionService
	paginator port.Paginator
	inspector port.ArtifactInspector
	archive   port.FileStorage
	cfg       ExportConfig
	logger    Logger
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(
	sessions SessionService,
	paginator port.Paginator,
	inspector port.ArtifactInspector,
	archive port.FileStorage,
	cfg ExportConfig,
	logger Logger,
) ExportService {
	if cfg.CaptureScale <= 0 {
		cfg.CaptureScale = 2
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &exportServiceImpl{
		sessions:  sessions,
		paginator: paginator,
		inspector: inspector,
		archive:   archive,
		cfg:       cfg,
		logger:    logger,
	}
}

// Export runs one export for the session. The session is held for the whole
// export, so the surface shows the validated document until capture ends. A
// second call, or an edit, while one is running fails with ErrExportInProgress.
func (s *exportServiceImpl) Export(ctx context.Context, sessionID string) (*ExportResult, error) {
	target, release, err := s.sessions.BeginExport(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrExportInProgress) {
			s.logger.Info("Export rejected, already running", "session_id", sessionID)
		}
		return nil, err
	}
	defer release()

	if target.Snapshot == nil || target.Document == nil || target.Document.Empty {
		return nil, newExportError(ExportEmpty, "there is no invoice to export", nil)
	}
	if err := invoice.Validate(target.Snapshot); err != nil {
		return nil, err
	}
	surface := target.Surface
	if w, h := surface.Size(); w <= 0 || h <= 0 || !surface.HasContent() {
		return nil, newExportError(ExportEmpty, "the invoice preview has no visible content", nil)
	}

	img, err := s.capture(ctx, surface)
	if err != nil {
		s.logger.Error("Capture failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	number := target.Snapshot.InvoiceNumber
	pdf, err := s.paginator.Paginate(ctx, img, port.PageOptions{MarginMM: s.cfg.MarginMM, Title: number})
	if err != nil {
		s.logger.Error("Pagination failed", "session_id", sessionID, "error", err)
		return nil, newExportError(ExportUnknown, "the PDF could not be generated", err)
	}

	pages, err := s.inspector.PageCount(pdf)
	if err != nil || pages == 0 {
		if err == nil {
			err = errors.New("document has no pages")
		}
		s.logger.Error("Produced PDF is unreadable", "session_id", sessionID, "error", err)
		return nil, newExportError(ExportUnknown, "the generated PDF is unreadable", err)
	}

	result := &ExportResult{
		FileName: "invoice-" + number + ".pdf",
		Pages:    pages,
		Size:     len(pdf),
		PDF:      pdf,
	}

	if s.cfg.Archive && s.archive != nil {
		path := fmt.Sprintf("%s/%s", s.cfg.Now().Format("2006-01-02"), result.FileName)
		if err := s.archive.Save(ctx, path, pdf); err != nil {
			s.logger.Error("Failed to archive export", "session_id", sessionID, "path", path, "error", err)
		} else {
			result.ArchivePath = path
		}
	}

	s.logger.Info("Export completed",
		"session_id", sessionID,
		"invoice_number", number,
		"pages", pages,
		"size", len(pdf),
	)
	return result, nil
}

// capture switches the surface to its capture presentation, rasterizes it and
// restores the original presentation on every path.
func (s *exportServiceImpl) capture(ctx context.Context, surface port.Surface) (img image.Image, err error) {
	original := surface.Presentation()
	surface.SetPresentation(port.CapturePresentation)
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, newExportError(ExportUnknown, "the invoice could not be captured", fmt.Errorf("panic: %v", r))
		}
		surface.SetPresentation(original)
	}()

	img, err = surface.Capture(ctx, s.cfg.CaptureScale)
	if err != nil {
		if errors.Is(err, port.ErrCaptureRestricted) {
			return nil, newExportError(ExportSecurity, "an image in the invoice blocked the capture", err)
		}
		return nil, newExportError(ExportUnknown, "the invoice could not be captured", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, newExportError(ExportContent, "the captured invoice is empty", nil)
	}
	if IsBlank(img) {
		return nil, newExportError(ExportContent, "the captured invoice is blank", nil)
	}
	return img, nil
}

// IsBlank reports whether img has no drawn pixel. A pixel counts as drawn
// when it is not transparent (alpha > 10) and not near-white (some channel < 250).
func IsBlank(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a>>8 <= 10 {
				continue
			}
			if r>>8 < 250 || g>>8 < 250 || bl>>8 < 250 {
				return false
			}
		}
	}
	return true
}
