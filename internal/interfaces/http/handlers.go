package http

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
	"github.com/garyjia/invoice-studio/internal/infrastructure/storage"
	"github.com/garyjia/invoice-studio/internal/interfaces/http/event"
	"github.com/garyjia/invoice-studio/internal/render"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

// Version is reported by the health check
const Version = "1.0.0"

// colorSchemeHint is the client hint carrying the browser's color scheme
const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

var errBadRequest = errors.New("bad request")

// Handlers contains all HTTP request handlers
type Handlers struct {
	services       Services
	maxUploadBytes int64
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, maxUploadBytes int64, logger Logger) *Handlers {
	return &Handlers{
		services:       services,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ExportFailure is the data of a failed export response
type ExportFailure struct {
	Kind     service.ExportErrorKind `json:"kind"`
	Remedy   string                  `json:"remedy"`
	Fallback string                  `json:"fallback"`
	PrintURL string                  `json:"print_url"`
}

// FieldsRequest is the JSON body of a field update
type FieldsRequest struct {
	Edits []invoice.FieldEdit `json:"edits"`
}

// TemplateRequest selects a template
type TemplateRequest struct {
	TemplateID string `json:"template_id" form:"template_id"`
}

// RecipientRequest optionally overrides the invoice's client contact
type RecipientRequest struct {
	Phone string `json:"phone" form:"phone"`
	Email string `json:"email" form:"email"`
}

// StatusRequest fires a payment status trigger
type StatusRequest struct {
	Trigger workflow.Trigger `json:"trigger" form:"trigger" binding:"required"`
}

// ThemeRequest stores a theme preference
type ThemeRequest struct {
	Theme entity.ThemePreference `json:"theme" form:"theme" binding:"required"`
}

// formFields are the editor form inputs in the order they are applied.
var formFields = []invoice.Field{
	invoice.FieldBusinessName,
	invoice.FieldBusinessPhone,
	invoice.FieldBusinessEmail,
	invoice.FieldBusinessAddress,
	invoice.FieldClientName,
	invoice.FieldClientPhone,
	invoice.FieldClientEmail,
	invoice.FieldClientAddress,
	invoice.FieldServiceDescription,
	invoice.FieldAmount,
	invoice.FieldDiscount,
	invoice.FieldPaymentMethod,
	invoice.FieldDate,
	invoice.FieldDueDate,
	invoice.FieldNotes,
	invoice.FieldRecurring,
	invoice.FieldRecurringEnd,
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

// NewSessionPage handles GET / by starting a session and redirecting to its editor
func (h *Handlers) NewSessionPage(c *gin.Context) {
	view, err := h.services.Sessions.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/sessions/"+view.ID)
}

// EditorPage handles GET /sessions/:id
func (h *Handlers) EditorPage(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.services.Sessions.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	theme := entity.ThemeLight
	if state, err := h.services.Theme.Get(ctx, colorScheme(c)); err == nil {
		theme = state.Effective
	} else {
		h.logger.Error("Failed to load theme, using light", "error", err)
	}
	c.Header("Accept-CH", colorSchemeHint)

	h.html(c, http.StatusOK, render.Page(render.PageProps{
		SessionID:     view.ID,
		Input:         view.Snapshot.Input,
		Templates:     h.services.Templates.List(),
		TemplateID:    view.TemplateID,
		Theme:         theme,
		QuickServices: entity.QuickServices(),
		Document:      view.Document,
	}))
}

// PrintPage handles GET /sessions/:id/print, the export fallback
func (h *Handlers) PrintPage(c *gin.Context) {
	view, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, render.PrintPage(view.Document))
}

// InvoiceByNumber handles GET /invoice/:number, the link sent to clients
func (h *Handlers) InvoiceByNumber(c *gin.Context) {
	views, err := h.services.Sessions.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	number := c.Param("number")
	for _, v := range views {
		if v.Snapshot.InvoiceNumber == number {
			h.html(c, http.StatusOK, render.InvoicePage(v.Document))
			return
		}
	}
	h.fail(c, fmt.Errorf("%w: invoice %s", service.ErrSessionNotFound, number))
}

// ListTemplates handles GET /api/templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Templates.List()})
}

// ListQuickServices handles GET /api/quick-services
func (h *Handlers) ListQuickServices(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: entity.QuickServices()})
}

// CreateSession handles POST /api/sessions
func (h *Handlers) CreateSession(c *gin.Context) {
	view, err := h.services.Sessions.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: view})
}

// ListSessions handles GET /api/sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	views, err := h.services.Sessions.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: views})
}

// GetSession handles GET /api/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	view, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.services.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ApplyFields handles POST /api/sessions/:id/fields. JSON bodies carry a list
// of edits; form bodies carry the editor inputs, where an absent tax checkbox
// means tax is off.
func (h *Handlers) ApplyFields(c *gin.Context) {
	var edits []invoice.FieldEdit
	if c.ContentType() == gin.MIMEJSON {
		var req FieldsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		edits = req.Edits
	} else {
		if err := c.Request.ParseForm(); err != nil {
			h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		edits = formEdits(c.Request.PostForm)
	}

	view, err := h.services.Sessions.ApplyEdits(c.Request.Context(), c.Param("id"), edits...)
	h.respondView(c, view, err)
}

// SelectTemplate handles PUT /api/sessions/:id/template
func (h *Handlers) SelectTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	view, err := h.services.Sessions.SelectTemplate(c.Request.Context(), c.Param("id"), req.TemplateID)
	h.respondView(c, view, err)
}

// ApplyQuickService handles POST /api/sessions/:id/quick-services/:sid
func (h *Handlers) ApplyQuickService(c *gin.Context) {
	view, err := h.services.Sessions.ApplyQuickService(c.Request.Context(), c.Param("id"), c.Param("sid"))
	h.respondView(c, view, err)
}

// UploadAttachment handles POST /api/sessions/:id/attachments/:field with a
// multipart "file" part.
func (h *Handlers) UploadAttachment(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, fmt.Errorf("%w: file: %v", errBadRequest, err))
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		h.fail(c, fmt.Errorf("%w: %d bytes exceeds %d", entity.ErrAttachmentTooLarge, header.Size, h.maxUploadBytes))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}

	view, err := h.services.Sessions.SetAttachment(c.Request.Context(), c.Param("id"),
		invoice.Field(c.Param("field")), header.Filename, content)
	h.respondView(c, view, err)
}

// RemoveAttachment handles DELETE /api/sessions/:id/attachments/:field
func (h *Handlers) RemoveAttachment(c *gin.Context) {
	view, err := h.services.Sessions.SetAttachment(c.Request.Context(), c.Param("id"),
		invoice.Field(c.Param("field")), "", nil)
	h.respondView(c, view, err)
}

// Preview handles GET /api/sessions/:id/preview
func (h *Handlers) Preview(c *gin.Context) {
	view, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, render.Preview(view.Document))
}

// Document handles GET /api/sessions/:id/document
func (h *Handlers) Document(c *gin.Context) {
	view, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view.Document})
}

// Export handles /api/sessions/:id/export and streams the PDF as an attachment
func (h *Handlers) Export(c *gin.Context) {
	result, err := h.services.Export.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Header("X-Invoice-Pages", fmt.Sprint(result.Pages))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// SendSMS handles POST /api/sessions/:id/notifications/sms
func (h *Handlers) SendSMS(c *gin.Context) {
	req, err := bindRecipient(c)
	if err == nil && req.Phone != "" {
		err = utils.ValidatePhone(req.Phone)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	job, err := h.services.Notifications.SendSMS(c.Request.Context(), c.Param("id"), req.Phone)
	h.respondQueued(c, job, err)
}

// SendEmail handles POST /api/sessions/:id/notifications/email
func (h *Handlers) SendEmail(c *gin.Context) {
	req, err := bindRecipient(c)
	if err == nil && req.Email != "" {
		err = utils.ValidateEmail(req.Email)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	job, err := h.services.Notifications.SendEmail(c.Request.Context(), c.Param("id"), req.Email)
	h.respondQueued(c, job, err)
}

// InitiateMpesa handles POST /api/sessions/:id/payments/mpesa
func (h *Handlers) InitiateMpesa(c *gin.Context) {
	req, err := bindRecipient(c)
	if err == nil && req.Phone != "" {
		err = utils.ValidatePhone(req.Phone)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	state, err := h.services.Payments.InitiateMpesa(c.Request.Context(), c.Param("id"), req.Phone)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondState(c, state, event.TriggerOutboundQueued(entity.OutboundMpesa))
}

// UpdatePaymentStatus handles POST /api/sessions/:id/payments/status
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	state, err := h.services.Payments.UpdateStatus(c.Request.Context(), c.Param("id"), req.Trigger)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondState(c, state, event.TriggerPreviewUpdated)
}

// Backup handles GET /api/backup?format=csv|xlsx
func (h *Handlers) Backup(c *gin.Context) {
	records, err := h.services.Backup.Records(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	var (
		content     []byte
		contentType string
		ext         = strings.ToLower(c.DefaultQuery("format", "csv"))
	)
	switch ext {
	case "json":
		c.JSON(http.StatusOK, Response{Success: true, Data: records})
		return
	case "csv":
		content, contentType = h.services.Backup.CSV(records), "text/csv; charset=utf-8"
	case "xlsx":
		content, err = h.services.Backup.XLSX(records)
		if err != nil {
			h.fail(c, err)
			return
		}
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		h.fail(c, fmt.Errorf("%w: unknown backup format %q", errBadRequest, ext))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.services.Backup.FileName(ext)))
	c.Data(http.StatusOK, contentType, content)
}

// GetTheme handles GET /api/theme
func (h *Handlers) GetTheme(c *gin.Context) {
	state, err := h.services.Theme.Get(c.Request.Context(), colorScheme(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Accept-CH", colorSchemeHint)
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// SetTheme handles PUT /api/theme
func (h *Handlers) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	state, err := h.services.Theme.Set(c.Request.Context(), req.Theme, colorScheme(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Accept-CH", colorSchemeHint)
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// ListArchive handles GET /api/archive
func (h *Handlers) ListArchive(c *gin.Context) {
	if h.services.Archive == nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: []any{}})
		return
	}
	entries, err := h.services.Archive.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// ReadArchive handles GET /api/archive/*path
func (h *Handlers) ReadArchive(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if h.services.Archive == nil || path == "" {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "archive entry not found"})
		return
	}
	content, err := h.services.Archive.Read(c.Request.Context(), path)
	if err != nil {
		h.fail(c, err)
		return
	}
	name := path[strings.LastIndex(path, "/")+1:]
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", content)
}

// respondView answers an edit with the preview fragment for htmx requests and
// the session as JSON otherwise.
func (h *Handlers) respondView(c *gin.Context, view *service.SessionView, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if htmx.IsHTMX(c.Request) {
		err := htmx.NewResponse().
			AddTrigger(event.TriggerSetErrMessage(""), event.TriggerPreviewUpdated).
			RenderTempl(c.Request.Context(), c.Writer, render.Preview(view.Document))
		if err != nil {
			h.logger.Error("Failed to render preview", "session_id", view.ID, "error", err)
		}
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

func (h *Handlers) respondQueued(c *gin.Context, job *entity.Outbound, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if htmx.IsHTMX(c.Request) {
		h.writeHTMX(c, htmx.NewResponse().
			StatusCode(http.StatusAccepted).
			Reswap(htmx.SwapNone).
			AddTrigger(event.TriggerSetErrMessage(""), event.TriggerOutboundQueued(job.Kind)))
		return
	}
	c.JSON(http.StatusAccepted, Response{Success: true, Data: job})
}

func (h *Handlers) respondState(c *gin.Context, state workflow.State, trigger htmx.EventTrigger) {
	if htmx.IsHTMX(c.Request) {
		h.writeHTMX(c, htmx.NewResponse().
			Reswap(htmx.SwapNone).
			AddTrigger(event.TriggerSetErrMessage(""), trigger))
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"payment_status": state}})
}

// fail writes err with the status it maps to. htmx requests get no swap and
// an error-banner event; everything else gets a JSON Response.
func (h *Handlers) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "status", code, "error", err)
	}

	var data any
	var exportErr *service.ExportError
	var validationErr *invoice.ValidationError
	switch {
	case errors.As(err, &exportErr):
		data = ExportFailure{
			Kind:     exportErr.Kind,
			Remedy:   exportErr.Remedy,
			Fallback: exportErr.Fallback,
			PrintURL: "/sessions/" + c.Param("id") + "/print",
		}
	case errors.As(err, &validationErr):
		data = gin.H{"fields": validationErr.Fields}
	}

	if htmx.IsHTMX(c.Request) {
		res := htmx.NewResponse().
			StatusCode(code).
			Reswap(htmx.SwapNone).
			AddTrigger(event.TriggerSetErrMessage(err.Error()))
		if exportErr != nil {
			res = res.AddTrigger(event.TriggerExportFailed(exportErr.Remedy))
		}
		h.writeHTMX(c, res)
		return
	}
	c.JSON(code, Response{Success: false, Data: data, Error: err.Error()})
}

func (h *Handlers) writeHTMX(c *gin.Context, res htmx.Response) {
	if err := res.Write(c.Writer); err != nil {
		h.logger.Error("Failed to write htmx response", "error", err)
	}
}

func (h *Handlers) html(c *gin.Context, code int, comp templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := comp.Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("Failed to render page", "path", c.Request.URL.Path, "error", err)
	}
}

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	var exportErr *service.ExportError
	switch {
	case errors.As(err, &exportErr):
		if exportErr.Kind == service.ExportUnknown {
			return http.StatusInternalServerError
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownQuickService),
		errors.Is(err, template.ErrUnknownTemplate),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExportInProgress),
		errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, entity.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrUnsupportedAttachment):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, invoice.ErrValidation),
		errors.Is(err, invoice.ErrUnknownField),
		errors.Is(err, invoice.ErrInvalidValue),
		errors.Is(err, service.ErrMissingRecipient),
		errors.Is(err, service.ErrInvalidTheme),
		errors.Is(err, entity.ErrEmptyAttachment),
		errors.Is(err, utils.ErrInvalidEmail),
		errors.Is(err, utils.ErrInvalidPhone):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrPathEscapes):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bindRecipient reads an optional recipient override. An empty body is allowed.
func bindRecipient(c *gin.Context) (RecipientRequest, error) {
	var req RecipientRequest
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	return req, nil
}

// formEdits converts posted editor inputs into edits
func formEdits(form map[string][]string) []invoice.FieldEdit {
	edits := make([]invoice.FieldEdit, 0, len(formFields)+1)
	for _, f := range formFields {
		values, ok := form[string(f)]
		if !ok || len(values) == 0 {
			continue
		}
		edits = append(edits, invoice.FieldEdit{Field: f, Value: values[0]})
	}
	_, taxOn := form[string(invoice.FieldTaxEnabled)]
	edits = append(edits, invoice.FieldEdit{Field: invoice.FieldTaxEnabled, Value: fmt.Sprint(taxOn)})
	return edits
}

// colorScheme returns the client's reported color scheme, unquoted
func colorScheme(c *gin.Context) string {
	return strings.Trim(strings.TrimSpace(c.GetHeader(colorSchemeHint)), `"`)
}
