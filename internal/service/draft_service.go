package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/repository"
	"github.com/andy/invoiceflow/internal/webhook"
)

// draftKey is the storage key of the single in-progress draft
const draftKey = "invoice_draft"

// ErrAIUnavailable is returned when no AI API key is configured
var ErrAIUnavailable = errors.New("AI features are not configured")

// Messages shown to the user after draft operations
const (
	MsgDraftSaved     = "Draft saved successfully! You can return to it later."
	MsgInvoiceSent    = "Invoice generated and sent to processing webhook!"
	MsgWebhookWarning = "Note: Could not connect to webhook, but your draft is saved locally."
	MsgExtractFailed  = "Failed to generate invoice from text. Please try again."
)

// Notifier delivers webhook events
type Notifier interface {
	Notify(ctx context.Context, env webhook.Envelope) error
}

// Extractor turns free text into a partial draft
type Extractor interface {
	Extract(ctx context.Context, text string) (*domain.DraftPatch, error)
}

// SendResult reports the outcome of sending a draft.
// Exactly one of Message and Warning is set.
type SendResult struct {
	Sent    bool
	Message string
	Warning string
	// Draft is the form state after the send: blank on success, unchanged otherwise
	Draft *domain.Draft
}

// DraftService manages the single in-progress invoice draft
type DraftService interface {
	// Load returns the stored draft, or a blank one and false if none is usable
	Load(ctx context.Context) (*domain.Draft, bool)

	// Save persists the draft, overwriting any previous one
	Save(ctx context.Context, d *domain.Draft) error

	// SaveExplicit persists the draft and returns the acknowledgment text
	SaveExplicit(ctx context.Context, d *domain.Draft) (string, error)

	// Reset replaces the stored draft with a blank one dated today
	Reset(ctx context.Context) (*domain.Draft, error)

	// Discard removes the stored draft entirely
	Discard(ctx context.Context) error

	// LoadFromInvoice stores an existing invoice as the draft for editing
	LoadFromInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Draft, error)

	// ApplyExtraction merges fields extracted from text into d and stores the result.
	// On failure d and the stored draft are unchanged.
	ApplyExtraction(ctx context.Context, d *domain.Draft, text string) (*domain.Draft, error)

	// Send posts the draft to the webhook. Delivery failure is a warning, not an error.
	Send(ctx context.Context, d *domain.Draft) (SendResult, error)

	// Preview synthesizes the invoice the draft would become
	Preview(ctx context.Context, d *domain.Draft) (*domain.Invoice, error)
}

type draftService struct {
	draftRepo repository.DraftRepository
	catalog   CatalogService
	extractor Extractor
	notifier  Notifier
	currency  string
	now       func() time.Time
}

// NewDraftService creates a new draft service.
// A nil extractor makes ApplyExtraction fail; a nil notifier makes Send warn.
func NewDraftService(
	draftRepo repository.DraftRepository,
	catalog CatalogService,
	extractor Extractor,
	notifier Notifier,
	currency string,
) DraftService {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &draftService{
		draftRepo: draftRepo,
		catalog:   catalog,
		extractor: extractor,
		notifier:  notifier,
		currency:  currency,
		now:       time.Now,
	}
}

func (s *draftService) blank() *domain.Draft {
	return domain.NewDraft(s.now())
}

func (s *draftService) Load(ctx context.Context) (*domain.Draft, bool) {
	data, ok, err := s.draftRepo.Get(ctx, draftKey)
	if err != nil {
		log.Printf("draft: load: %v", err)
		return s.blank(), false
	}
	if !ok {
		return s.blank(), false
	}

	d, err := domain.DecodeDraft(data)
	if err != nil {
		log.Printf("draft: discarding stored draft: %v", err)
		return s.blank(), false
	}
	return d, true
}

func (s *draftService) Save(ctx context.Context, d *domain.Draft) error {
	data, err := domain.EncodeDraft(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return s.draftRepo.Put(ctx, draftKey, data)
}

func (s *draftService) SaveExplicit(ctx context.Context, d *domain.Draft) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	if err := s.Save(ctx, d); err != nil {
		return "", err
	}
	return MsgDraftSaved, nil
}

func (s *draftService) Reset(ctx context.Context) (*domain.Draft, error) {
	d := s.blank()
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *draftService) Discard(ctx context.Context) error {
	return s.draftRepo.Delete(ctx, draftKey)
}

func (s *draftService) LoadFromInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Draft, error) {
	d := domain.DraftFromInvoice(inv)
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *draftService) ApplyExtraction(ctx context.Context, d *domain.Draft, text string) (*domain.Draft, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("extract invoice: %w", ErrAIUnavailable)
	}

	patch, err := s.extractor.Extract(ctx, text)
	if err != nil {
		log.Printf("draft: extraction failed: %v", err)
		return nil, err
	}

	next := d.Clone()
	next.Apply(patch)
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("extracted invoice rejected: %w", err)
	}

	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *draftService) Send(ctx context.Context, d *domain.Draft) (SendResult, error) {
	if err := d.Validate(); err != nil {
		return SendResult{}, err
	}
	if err := s.Save(ctx, d); err != nil {
		return SendResult{}, err
	}

	if err := s.notify(ctx, webhook.CreateInvoice(d, s.currency, s.now())); err != nil {
		log.Printf("draft: failed to send invoice: %v", err)
		return SendResult{Warning: MsgWebhookWarning, Draft: d}, nil
	}

	fresh, err := s.Reset(ctx)
	if err != nil {
		return SendResult{}, fmt.Errorf("invoice sent but draft reset failed: %w", err)
	}
	return SendResult{Sent: true, Message: MsgInvoiceSent, Draft: fresh}, nil
}

func (s *draftService) notify(ctx context.Context, env webhook.Envelope) error {
	if s.notifier == nil {
		return webhook.ErrDisabled
	}
	return s.notifier.Notify(ctx, env)
}

func (s *draftService) Preview(ctx context.Context, d *domain.Draft) (*domain.Invoice, error) {
	date, err := time.Parse(domain.DateLayout, d.Date)
	if err != nil {
		date = s.now()
	}

	number, err := s.catalog.NextNumber(ctx, date.Year())
	if err != nil {
		return nil, err
	}

	inv, err := d.ToInvoice(number, s.currency)
	if err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceStatusDraft
	return inv, nil
}
