package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/money"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/render"
)

var fixedNow = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockSequenceStore struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (m *mockSequenceStore) Increment(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.values[key]++
	return m.values[key], nil
}

type mockPreferenceStore struct {
	values map[string]string
	err    error
}

func (m *mockPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockPreferenceStore) Set(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

// mockSurface records presentation changes and captures through captureFunc.
type mockSurface struct {
	mu           sync.Mutex
	doc          *render.Document
	width        int
	height       int
	presentation port.Presentation
	history      []port.Presentation
	captures     int
	captureFunc  func(ctx context.Context) (image.Image, error)
}

func newMockSurface() *mockSurface {
	return &mockSurface{
		width:        800,
		height:       1100,
		presentation: port.Presentation{Position: "static", Visible: true, Opacity: 1},
	}
}

func (m *mockSurface) Mount(doc *render.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
}

func (m *mockSurface) mounted() *render.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

func (m *mockSurface) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *mockSurface) HasContent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc != nil && !m.doc.Empty
}

func (m *mockSurface) Presentation() port.Presentation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presentation
}

func (m *mockSurface) SetPresentation(p port.Presentation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presentation = p
	m.history = append(m.history, p)
}

func (m *mockSurface) Capture(ctx context.Context, scale float64) (image.Image, error) {
	m.mu.Lock()
	m.captures++
	fn := m.captureFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return drawnImage(100, 140), nil
}

func (m *mockSurface) captureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures
}

type mockSurfaceFactory struct {
	last *mockSurface
}

func (f *mockSurfaceFactory) NewSurface() port.Surface {
	f.last = newMockSurface()
	return f.last
}

type mockPaginator struct {
	paginateFunc func(ctx context.Context, img image.Image, opts port.PageOptions) ([]byte, error)
}

func (m *mockPaginator) Paginate(ctx context.Context, img image.Image, opts port.PageOptions) ([]byte, error) {
	if m.paginateFunc != nil {
		return m.paginateFunc(ctx, img, opts)
	}
	return []byte("%PDF-1.3 fake"), nil
}

type mockInspector struct {
	pages int
	err   error
}

func (m *mockInspector) PageCount(artifact []byte) (int, error) {
	return m.pages, m.err
}

type mockStorage struct {
	saved map[string][]byte
	err   error
}

func (m *mockStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	m.saved[path] = content
	return nil
}

func (m *mockStorage) Read(ctx context.Context, path string) ([]byte, error) {
	content, ok := m.saved[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (m *mockStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.saved[path]
	return ok
}

func (m *mockStorage) GetFullPath(relativePath string) string {
	return "/archive/" + relativePath
}

type mockDispatcher struct {
	mu   sync.Mutex
	jobs []entity.Outbound
	err  error
}

func (m *mockDispatcher) Enqueue(job entity.Outbound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func drawnImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	img.Set(w/2, h/2, color.Black)
	return img
}

func blankImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

type fixture struct {
	store    *mockSequenceStore
	surfaces *mockSurfaceFactory
	sessions SessionService
}

func newFixture(seed int64) *fixture {
	store := &mockSequenceStore{values: map[string]int64{invoice.DefaultCounterKey: seed}}
	surfaces := &mockSurfaceFactory{}
	numberer := invoice.NewNumberer(store, invoice.DefaultCounterKey, func() time.Time { return fixedNow })
	renderer := render.NewRenderer(money.NewFormatter("KSh", language.English))

	sessions := NewSessionService(numberer, template.Builtin(), renderer, surfaces, SessionConfig{
		TaxRate:            money.StandardTaxRate,
		DueDays:            7,
		PaymentMethod:      entity.PaymentMpesa,
		TTL:                time.Hour,
		MaxAttachmentBytes: 1 << 20,
		Now:                func() time.Time { return fixedNow },
	}, &mockLogger{})

	return &fixture{store: store, surfaces: surfaces, sessions: sessions}
}

// filledSession creates a session holding a valid invoice of 1000 - 100 + VAT.
func (f *fixture) filledSession(ctx context.Context) (*SessionView, *mockSurface, error) {
	view, err := f.sessions.Create(ctx)
	if err != nil {
		return nil, nil, err
	}
	surface := f.surfaces.last
	view, err = f.sessions.ApplyEdits(ctx, view.ID,
		invoice.FieldEdit{Field: invoice.FieldBusinessName, Value: "Wanjiku Tailors"},
		invoice.FieldEdit{Field: invoice.FieldBusinessPhone, Value: "0711000000"},
		invoice.FieldEdit{Field: invoice.FieldClientName, Value: "Otieno"},
		invoice.FieldEdit{Field: invoice.FieldClientPhone, Value: "0722 123 456"},
		invoice.FieldEdit{Field: invoice.FieldClientEmail, Value: "otieno@example.com"},
		invoice.FieldEdit{Field: invoice.FieldServiceDescription, Value: "Suit alterations"},
		invoice.FieldEdit{Field: invoice.FieldAmount, Value: "1000"},
		invoice.FieldEdit{Field: invoice.FieldDiscount, Value: "100"},
		invoice.FieldEdit{Field: invoice.FieldTaxEnabled, Value: "true"},
	)
	return view, surface, err
}
