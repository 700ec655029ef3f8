package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/money"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
	"github.com/garyjia/invoice-studio/internal/infrastructure/storage"
	"github.com/garyjia/invoice-studio/internal/render"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

var testNow = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type memoryCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *memoryCounters) Increment(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
	return m.values[key], nil
}

type memoryPreferences struct {
	values map[string]string
}

func (m *memoryPreferences) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryPreferences) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type stubSurface struct {
	mu  sync.Mutex
	doc *render.Document
	p   port.Presentation
}

func (s *stubSurface) Mount(doc *render.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

func (s *stubSurface) Size() (int, int) { return 600, 800 }

func (s *stubSurface) HasContent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil && !s.doc.Empty
}

func (s *stubSurface) Presentation() port.Presentation { return s.p }

func (s *stubSurface) SetPresentation(p port.Presentation) { s.p = p }

func (s *stubSurface) Capture(ctx context.Context, scale float64) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.Black)
	return img, nil
}

type stubSurfaces struct{}

func (stubSurfaces) NewSurface() port.Surface { return &stubSurface{} }

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []entity.Outbound
	err  error
}

func (d *recordingDispatcher) Enqueue(job entity.Outbound) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

type mockExport struct {
	result *service.ExportResult
	err    error
}

func (m *mockExport) Export(ctx context.Context, sessionID string) (*service.ExportResult, error) {
	return m.result, m.err
}

type mockArchive struct {
	entries []storage.Entry
	files   map[string][]byte
}

func (m *mockArchive) List(ctx context.Context) ([]storage.Entry, error) {
	return m.entries, nil
}

func (m *mockArchive) Read(ctx context.Context, path string) ([]byte, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("%w: %s", storage.ErrPathEscapes, path)
	}
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("failed to read file: %w", fs.ErrNotExist)
	}
	return content, nil
}

type testEnv struct {
	router     *gin.Engine
	sessions   service.SessionService
	dispatcher *recordingDispatcher
	export     *mockExport
	prefs      *memoryPreferences
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := &mockLogger{}
	now := func() time.Time { return testNow }
	counters := &memoryCounters{values: map[string]int64{}}
	numberer := invoice.NewNumberer(counters, invoice.DefaultCounterKey, now)
	renderer := render.NewRenderer(money.NewFormatter("KSh", language.English))

	sessions := service.NewSessionService(numberer, template.Builtin(), renderer, stubSurfaces{}, service.SessionConfig{
		TaxRate:            money.StandardTaxRate,
		DueDays:            7,
		PaymentMethod:      entity.PaymentMpesa,
		TTL:                time.Hour,
		MaxAttachmentBytes: 1 << 20,
		Now:                now,
	}, logger)

	dispatcher := &recordingDispatcher{}
	export := &mockExport{}
	prefs := &memoryPreferences{values: map[string]string{}}

	server := NewServer(ServerConfig{Host: "127.0.0.1", Port: 0, MaxUploadBytes: 1 << 20, Mode: gin.TestMode}, Services{
		Sessions:      sessions,
		Export:        export,
		Notifications: service.NewNotificationService(sessions, dispatcher, "https://invoices.example.com", logger),
		Payments:      service.NewPaymentService(sessions, dispatcher, logger),
		Backup:        service.NewBackupService(sessions, now, logger),
		Theme:         service.NewThemeService(prefs, logger),
		Templates:     template.Builtin(),
		Archive: &mockArchive{
			entries: []storage.Entry{{Path: "2025-03-14/invoice-INV-2025-001.pdf", Size: 9}},
			files:   map[string][]byte{"2025-03-14/invoice-INV-2025-001.pdf": []byte("%PDF-1.3\n")},
		},
	}, logger)

	return &testEnv{
		router:     server.Router(),
		sessions:   sessions,
		dispatcher: dispatcher,
		export:     export,
		prefs:      prefs,
	}
}

func (e *testEnv) do(method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// issuable creates a session that passes validation
func (e *testEnv) issuable(t *testing.T) *service.SessionView {
	t.Helper()
	ctx := context.Background()
	view, err := e.sessions.Create(ctx)
	require.NoError(t, err)
	view, err = e.sessions.ApplyEdits(ctx, view.ID,
		invoice.FieldEdit{Field: invoice.FieldBusinessName, Value: "Wanjiku Tailors"},
		invoice.FieldEdit{Field: invoice.FieldBusinessPhone, Value: "0711000000"},
		invoice.FieldEdit{Field: invoice.FieldClientName, Value: "Otieno"},
		invoice.FieldEdit{Field: invoice.FieldClientPhone, Value: "0722 123 456"},
		invoice.FieldEdit{Field: invoice.FieldClientEmail, Value: "otieno@example.com"},
		invoice.FieldEdit{Field: invoice.FieldServiceDescription, Value: "Suit alterations"},
		invoice.FieldEdit{Field: invoice.FieldAmount, Value: "1000"},
	)
	require.NoError(t, err)
	return view
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.True(t, res.Success)
	assert.Contains(t, string(res.Data), `"healthy"`)
}

func TestNewSessionPage_Redirects(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/sessions/"))

	page := env.do(http.MethodGet, w.Header().Get("Location"), "", map[string]string{colorSchemeHint: `"dark"`})
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `class="dark"`, "unset preference follows the client hint")
	assert.Equal(t, colorSchemeHint, page.Header().Get("Accept-CH"))
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created service.SessionView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, "INV-2025-001", created.Snapshot.InvoiceNumber)

	w = env.do(http.MethodPost, "/api/sessions/"+created.ID+"/fields",
		`{"edits":[{"field":"amount","value":"500"},{"field":"clientName","value":"Amina"}]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var edited service.SessionView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &edited))
	assert.Equal(t, "500", edited.Snapshot.Input.Amount)
	assert.Equal(t, "Amina", edited.Snapshot.Input.ClientName)

	w = env.do(http.MethodGet, "/api/sessions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, "/api/sessions/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/sessions/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyFields_Errors(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown field", `{"edits":[{"field":"bogus","value":"x"}]}`, http.StatusUnprocessableEntity},
		{"invalid date", `{"edits":[{"field":"date","value":"yesterday"}]}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"edits":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/sessions/"+view.ID+"/fields", tt.body, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.False(t, decode(t, w).Success)
		})
	}
}

func TestApplyFields_HTMXForm(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	form := url.Values{}
	form.Set(string(invoice.FieldClientName), "Otieno")
	form.Set(string(invoice.FieldAmount), "1000")
	form.Set(string(invoice.FieldTaxEnabled), "on")

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+view.ID+"/fields", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), render.PreviewElementID)
	assert.Contains(t, w.Header().Get("HX-Trigger"), "preview-updated")

	current, err := env.sessions.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, current.Snapshot.Input.TaxEnabled)
	assert.Equal(t, "Otieno", current.Snapshot.Input.ClientName)
}

func TestFormEdits_TaxCheckboxAbsentMeansOff(t *testing.T) {
	edits := formEdits(url.Values{"amount": {"300"}})

	require.Len(t, edits, 2)
	assert.Equal(t, invoice.FieldEdit{Field: invoice.FieldAmount, Value: "300"}, edits[0])
	assert.Equal(t, invoice.FieldEdit{Field: invoice.FieldTaxEnabled, Value: "false"}, edits[1])
}

func TestSelectTemplate(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	w := env.do(http.MethodPut, "/api/sessions/"+view.ID+"/template", `{"template_id":"professional"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/sessions/"+view.ID+"/template", `{"template_id":"neon"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyQuickService(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/sessions/"+view.ID+"/quick-services/haircut", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/sessions/"+view.ID+"/quick-services/plumbing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	view := env.issuable(t)
	target := "/api/sessions/" + view.ID + "/export"

	t.Run("success", func(t *testing.T) {
		env.export.result = &service.ExportResult{FileName: "invoice-INV-2025-001.pdf", Pages: 2, PDF: []byte("%PDF-1.3")}
		env.export.err = nil

		w := env.do(http.MethodGet, target, "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="invoice-INV-2025-001.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get("X-Invoice-Pages"))
		assert.Equal(t, "%PDF-1.3", w.Body.String())
	})

	t.Run("classified failure offers print", func(t *testing.T) {
		env.export.result = nil
		env.export.err = &service.ExportError{Kind: service.ExportEmpty, Message: "nothing to export", Remedy: "Fill in", Fallback: service.FallbackPrint}

		w := env.do(http.MethodGet, target, "", nil)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var failure ExportFailure
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &failure))
		assert.Equal(t, service.ExportEmpty, failure.Kind)
		assert.Equal(t, service.FallbackPrint, failure.Fallback)
		assert.Equal(t, "/sessions/"+view.ID+"/print", failure.PrintURL)
	})

	t.Run("unknown failure over htmx", func(t *testing.T) {
		env.export.err = &service.ExportError{Kind: service.ExportUnknown, Message: "rasterizer crashed", Remedy: "Try again", Fallback: service.FallbackPrint}

		w := env.do(http.MethodPost, target, "", map[string]string{"HX-Request": "true"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
		assert.Contains(t, w.Header().Get("HX-Trigger"), "set-err-message")
		assert.Contains(t, w.Header().Get("HX-Trigger"), "export-failed")
	})

	t.Run("in progress", func(t *testing.T) {
		env.export.err = fmt.Errorf("%w: session %s", service.ErrExportInProgress, view.ID)

		w := env.do(http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPrintAndInvoicePages(t *testing.T) {
	env := newTestEnv(t)
	view := env.issuable(t)

	w := env.do(http.MethodGet, "/sessions/"+view.ID+"/print", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.print()")

	w = env.do(http.MethodGet, "/invoice/"+view.Snapshot.InvoiceNumber, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "window.print()")
	assert.Contains(t, w.Body.String(), "Otieno")

	w = env.do(http.MethodGet, "/invoice/INV-1999-001", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	view := env.issuable(t)
	base := "/api/sessions/" + view.ID

	w := env.do(http.MethodPost, base+"/notifications/sms", "", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Len(t, env.dispatcher.jobs, 1)
	assert.Equal(t, "0722 123 456", env.dispatcher.jobs[0].Payload.(entity.SMSMessage).To)

	w = env.do(http.MethodPost, base+"/notifications/email", `{"email":"accounts@example.com"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "accounts@example.com", env.dispatcher.jobs[1].Payload.(entity.EmailMessage).To)

	w = env.do(http.MethodPost, base+"/notifications/sms", `{"phone":"12"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPost, base+"/notifications/email", `{"email":"not-an-address"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env.dispatcher.err = port.ErrQueueFull
	w = env.do(http.MethodPost, base+"/notifications/sms", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNotifications_HTMXQueued(t *testing.T) {
	env := newTestEnv(t)
	view := env.issuable(t)

	w := env.do(http.MethodPost, "/api/sessions/"+view.ID+"/notifications/sms", "", map[string]string{"HX-Request": "true"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
	assert.Contains(t, w.Header().Get("HX-Trigger"), "outbound-queued")
}

func TestPayments(t *testing.T) {
	env := newTestEnv(t)
	view := env.issuable(t)
	base := "/api/sessions/" + view.ID

	w := env.do(http.MethodPost, base+"/payments/mpesa", `{"phone":"0722123456"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(decode(t, w).Data), string(workflow.StateProcessing))

	w = env.do(http.MethodPost, base+"/payments/mpesa", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "second push while processing")

	w = env.do(http.MethodPost, base+"/payments/status", `{"trigger":"mark_paid"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), string(workflow.StatePaid))

	w = env.do(http.MethodPost, base+"/payments/status", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayments_InvalidInvoice(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.sessions.Create(context.Background())
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/sessions/"+view.ID+"/payments/mpesa", `{"phone":"0722123456"}`, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "fields")
	assert.Empty(t, env.dispatcher.jobs)
}

func TestBackup(t *testing.T) {
	env := newTestEnv(t)
	env.issuable(t)

	w := env.do(http.MethodGet, "/api/backup", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="invoices-backup-2025-03-14.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Invoice Number,Client,Amount,Date,Status\nINV-2025-001,Otieno,1000,"))

	w = env.do(http.MethodGet, "/api/backup?format=xlsx", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="invoices-backup-2025-03-14.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")

	w = env.do(http.MethodGet, "/api/backup?format=json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []entity.BackupRecord
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "INV-2025-001", records[0].InvoiceNumber)

	w = env.do(http.MethodGet, "/api/backup?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTheme(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/theme", "", map[string]string{colorSchemeHint: `"dark"`})
	require.Equal(t, http.StatusOK, w.Code)
	var state service.ThemeState
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &state))
	assert.Equal(t, entity.ThemeSystem, state.Preference)
	assert.Equal(t, entity.ThemeDark, state.Effective)

	w = env.do(http.MethodPut, "/api/theme", `{"theme":"light"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", env.prefs.values[service.ThemeKey])

	w = env.do(http.MethodPut, "/api/theme", `{"theme":"sepia"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "light", env.prefs.values[service.ThemeKey], "stored preference unchanged")
}

func TestArchive(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/archive", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "invoice-INV-2025-001.pdf")

	w = env.do(http.MethodGet, "/api/archive/2025-03-14/invoice-INV-2025-001.pdf", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="invoice-INV-2025-001.pdf"`, w.Header().Get("Content-Disposition"))

	w = env.do(http.MethodGet, "/api/archive/2025-03-15/missing.pdf", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session", fmt.Errorf("get: %w", service.ErrSessionNotFound), http.StatusNotFound},
		{"template", template.ErrUnknownTemplate, http.StatusNotFound},
		{"transition", workflow.ErrInvalidTransition, http.StatusConflict},
		{"too large", entity.ErrAttachmentTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", entity.ErrUnsupportedAttachment, http.StatusUnsupportedMediaType},
		{"empty attachment", entity.ErrEmptyAttachment, http.StatusUnprocessableEntity},
		{"validation", &invoice.ValidationError{}, http.StatusUnprocessableEntity},
		{"recipient", service.ErrMissingRecipient, http.StatusUnprocessableEntity},
		{"phone", utils.ValidatePhone("x"), http.StatusUnprocessableEntity},
		{"security export", &service.ExportError{Kind: service.ExportSecurity}, http.StatusUnprocessableEntity},
		{"unknown export", &service.ExportError{Kind: service.ExportUnknown}, http.StatusInternalServerError},
		{"queue full", fmt.Errorf("queue sms: %w", port.ErrQueueFull), http.StatusServiceUnavailable},
		{"path escapes", storage.ErrPathEscapes, http.StatusBadRequest},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
