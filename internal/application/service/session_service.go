package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/domain/workflow"
	"github.com/garyjia/invoice-studio/internal/render"
)

// Logger is the logging interface services depend on
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SessionConfig holds the invoice defaults applied to new sessions
type SessionConfig struct {
	TaxRate            decimal.Decimal
	DueDays            int
	PaymentMethod      entity.PaymentMethod
	TTL                time.Duration
	MaxAttachmentBytes int64
	Now                func() time.Time
}

// SessionView is a consistent read of one session.
type SessionView struct {
	ID            string             `json:"id"`
	TemplateID    string             `json:"template_id,omitempty"`
	Snapshot      *invoice.Snapshot  `json:"snapshot"`
	Config        template.Config    `json:"config"`
	Document      *render.Document   `json:"-"`
	PaymentStatus workflow.State     `json:"payment_status"`
	Permitted     []workflow.Trigger `json:"permitted_triggers"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ExportTarget is what the export flow needs from a session.
type ExportTarget struct {
	Snapshot *invoice.Snapshot
	Document *render.Document
	Surface  port.Surface
}

// SessionService manages live invoice editing sessions
type SessionService interface {
	Create(ctx context.Context) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	List(ctx context.Context) ([]*SessionView, error)
	Delete(ctx context.Context, id string) error
	ApplyEdits(ctx context.Context, id string, edits ...invoice.FieldEdit) (*SessionView, error)
	SetAttachment(ctx context.Context, id string, field invoice.Field, fileName string, content []byte) (*SessionView, error)
	SelectTemplate(ctx context.Context, id, templateID string) (*SessionView, error)
	ApplyQuickService(ctx context.Context, id, serviceID string) (*SessionView, error)
	FirePayment(ctx context.Context, id string, trigger workflow.Trigger) (workflow.State, error)
	FirePaymentIf(ctx context.Context, id string, trigger workflow.Trigger, check func(snap *invoice.Snapshot) error) (*invoice.Snapshot, workflow.State, error)
	BeginExport(ctx context.Context, id string) (*ExportTarget, func(), error)
	Reap(ctx context.Context) int
}

type session struct {
	mu         sync.Mutex
	id         string
	number     string
	input      invoice.Input
	templateID string
	version    uint64
	snapshot   *invoice.Snapshot
	config     template.Config
	document   *render.Document
	payment    *workflow.Machine
	surface    port.Surface
	exporting  bool
	updatedAt  time.Time
}

type sessionServiceImpl struct {
	mu       sync.RWMutex
	sessions map[string]*session

	numberer *invoice.Numberer
	catalog  *template.Catalog
	renderer *render.Renderer
	surfaces port.SurfaceFactory
	cfg      SessionConfig
	logger   Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	numberer *invoice.Numberer,
	catalog *template.Catalog,
	renderer *render.Renderer,
	surfaces port.SurfaceFactory,
	cfg SessionConfig,
	logger Logger,
) SessionService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &sessionServiceImpl{
		sessions: make(map[string]*session),
		numberer: numberer,
		catalog:  catalog,
		renderer: renderer,
		surfaces: surfaces,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create starts a session. Each session consumes one invoice number.
func (s *sessionServiceImpl) Create(ctx context.Context) (*SessionView, error) {
	number, err := s.numberer.Next(ctx)
	if err != nil {
		s.logger.Error("Failed to issue invoice number", "error", err)
		return nil, fmt.Errorf("issue invoice number: %w", err)
	}

	now := s.cfg.Now()
	sess := &session{
		id:      uuid.NewString(),
		number:  number,
		input:   invoice.NewInput(now, s.cfg.DueDays, s.cfg.PaymentMethod),
		config:  template.Resolve(nil),
		payment: workflow.NewPaymentMachine(),
		surface: s.surfaces.NewSurface(),
	}
	s.reassemble(sess)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("Session created", "session_id", sess.id, "invoice_number", number)
	return sess.view(), nil
}

func (s *sessionServiceImpl) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// mutate is withSession for changes to the document. While an export holds
// the session, the surface must keep showing the exported document, so the
// change is rejected.
func (s *sessionServiceImpl) mutate(id string, fn func(sess *session) error) (*SessionView, error) {
	return s.withSession(id, func(sess *session) error {
		if sess.exporting {
			return fmt.Errorf("%w: session %s cannot be edited until it finishes", ErrExportInProgress, id)
		}
		return fn(sess)
	})
}

// withSession runs fn while holding the session lock, then returns its view.
func (s *sessionServiceImpl) withSession(id string, fn func(sess *session) error) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.viewLocked(), nil
}

// Get returns the current view of a session
func (s *sessionServiceImpl) Get(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(id, func(*session) error { return nil })
}

// List returns every live session ordered by invoice number
func (s *sessionServiceImpl) List(ctx context.Context) ([]*SessionView, error) {
	s.mu.RLock()
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	views := make([]*SessionView, 0, len(all))
	for _, sess := range all {
		views = append(views, sess.view())
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Snapshot.InvoiceNumber < views[j].Snapshot.InvoiceNumber
	})
	return views, nil
}

// Delete removes a session
func (s *sessionServiceImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// ApplyEdits applies edits in order. Either all edits apply or none do.
func (s *sessionServiceImpl) ApplyEdits(ctx context.Context, id string, edits ...invoice.FieldEdit) (*SessionView, error) {
	return s.mutate(id, func(sess *session) error {
		next := sess.input
		for _, edit := range edits {
			var err error
			if next, err = invoice.Apply(next, edit); err != nil {
				return err
			}
		}
		sess.input = next
		s.reassemble(sess)
		return nil
	})
}

// SetAttachment ingests an uploaded image into the logo or signature field.
// Empty content removes the attachment.
func (s *sessionServiceImpl) SetAttachment(ctx context.Context, id string, field invoice.Field, fileName string, content []byte) (*SessionView, error) {
	if field != invoice.FieldBusinessLogo && field != invoice.FieldClientSignature {
		return nil, fmt.Errorf("%w: %s does not hold an attachment", invoice.ErrInvalidValue, field)
	}

	var att *entity.Attachment
	if len(content) > 0 {
		var err error
		if att, err = entity.NewAttachment(fileName, content, s.cfg.MaxAttachmentBytes); err != nil {
			s.logger.Error("Rejected attachment", "session_id", id, "field", field, "error", err)
			return nil, fmt.Errorf("ingest %s: %w", field, err)
		}
	}

	return s.ApplyEdits(ctx, id, invoice.FieldEdit{Field: field, Attachment: att})
}

// SelectTemplate switches the session's template. An unknown id is reported
// and the active template stays as it was.
func (s *sessionServiceImpl) SelectTemplate(ctx context.Context, id, templateID string) (*SessionView, error) {
	tpl, err := s.catalog.Lookup(templateID)
	if err != nil {
		s.logger.Error("Template lookup failed", "session_id", id, "template_id", templateID, "error", err)
		return nil, err
	}

	return s.mutate(id, func(sess *session) error {
		sess.templateID = tpl.ID
		sess.config = template.Resolve(&tpl)
		s.reassemble(sess)
		return nil
	})
}

// ApplyQuickService fills the service description and amount from a preset
func (s *sessionServiceImpl) ApplyQuickService(ctx context.Context, id, serviceID string) (*SessionView, error) {
	svc, ok := entity.FindQuickService(serviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuickService, serviceID)
	}
	return s.ApplyEdits(ctx, id,
		invoice.FieldEdit{Field: invoice.FieldServiceDescription, Value: svc.Description},
		invoice.FieldEdit{Field: invoice.FieldAmount, Value: svc.Amount},
	)
}

// FirePayment moves the session's payment status
func (s *sessionServiceImpl) FirePayment(ctx context.Context, id string, trigger workflow.Trigger) (workflow.State, error) {
	_, state, err := s.FirePaymentIf(ctx, id, trigger, nil)
	return state, err
}

// FirePaymentIf runs check against the current snapshot and fires trigger
// only if check passes, both under the session lock. It returns the snapshot
// check saw. check may be nil.
func (s *sessionServiceImpl) FirePaymentIf(ctx context.Context, id string, trigger workflow.Trigger, check func(snap *invoice.Snapshot) error) (*invoice.Snapshot, workflow.State, error) {
	var (
		snap  *invoice.Snapshot
		state workflow.State
	)
	_, err := s.withSession(id, func(sess *session) error {
		if check != nil {
			if err := check(sess.snapshot); err != nil {
				return err
			}
		}
		if err := sess.payment.Fire(trigger); err != nil {
			return err
		}
		sess.updatedAt = s.cfg.Now()
		snap, state = sess.snapshot, sess.payment.State()
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("Payment status changed", "session_id", id, "trigger", trigger, "status", state)
	return snap, state, nil
}

// BeginExport hands the session's snapshot, document and surface to an
// export and holds the session until release is called: a second export and
// any edit fail with ErrExportInProgress meanwhile. release is idempotent.
func (s *sessionServiceImpl) BeginExport(ctx context.Context, id string) (*ExportTarget, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.exporting {
		return nil, nil, fmt.Errorf("%w: session %s", ErrExportInProgress, id)
	}
	sess.exporting = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			sess.mu.Lock()
			sess.exporting = false
			sess.mu.Unlock()
		})
	}
	return &ExportTarget{Snapshot: sess.snapshot, Document: sess.document, Surface: sess.surface}, release, nil
}

// Reap removes sessions idle for longer than the configured TTL
func (s *sessionServiceImpl) Reap(ctx context.Context) int {
	if s.cfg.TTL <= 0 {
		return 0
	}
	cutoff := s.cfg.Now().Add(-s.cfg.TTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Reaped idle sessions", "count", removed)
	}
	return removed
}

// reassemble rebuilds the snapshot and document after any change and mounts
// the new document on the session surface. Callers hold sess.mu.
func (s *sessionServiceImpl) reassemble(sess *session) {
	sess.version++
	sess.snapshot = invoice.Assemble(sess.input, sess.number, s.cfg.TaxRate).WithVersion(sess.version)
	sess.document = s.renderer.Render(sess.snapshot, sess.config)
	sess.surface.Mount(sess.document)
	sess.updatedAt = s.cfg.Now()
}

func (sess *session) view() *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked()
}

func (sess *session) viewLocked() *SessionView {
	return &SessionView{
		ID:            sess.id,
		TemplateID:    sess.templateID,
		Snapshot:      sess.snapshot,
		Config:        sess.config,
		Document:      sess.document,
		PaymentStatus: sess.payment.State(),
		Permitted:     workflow.PaymentTable().Permitted(sess.payment.State()),
		UpdatedAt:     sess.updatedAt,
	}
}
