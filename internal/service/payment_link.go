package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/webhook"
)

// DefaultPaymentLinkBase is the mock payment page host
const DefaultPaymentLinkBase = "https://pay.invoiceflow.ai/pay"

// PaymentLinkDelay simulates the payment provider's response time
const PaymentLinkDelay = 1500 * time.Millisecond

// PaymentLinkState is the lifecycle of a payment link request
type PaymentLinkState string

const (
	PaymentLinkIdle       PaymentLinkState = "idle"
	PaymentLinkRequesting PaymentLinkState = "requesting"
	PaymentLinkReady      PaymentLinkState = "ready"
)

// PaymentLinkResult is the outcome of a link request.
// Warning is set when the webhook could not be reached; the link is still usable.
type PaymentLinkResult struct {
	State   PaymentLinkState
	Link    string
	Warning string
}

// PaymentLinkService issues mock mobile money / mobile banking payment links
type PaymentLinkService interface {
	// Generate notifies the webhook, waits PaymentLinkDelay, and returns the link.
	// It returns ctx.Err() if ctx ends before the link is ready.
	Generate(ctx context.Context, inv *domain.Invoice) (PaymentLinkResult, error)

	// LinkFor builds the payment link for an invoice without side effects
	LinkFor(inv *domain.Invoice) string
}

type paymentLinkService struct {
	notifier Notifier
	baseURL  string
	currency string
	delay    time.Duration
	now      func() time.Time
}

// NewPaymentLinkService creates a payment link service
func NewPaymentLinkService(notifier Notifier, baseURL, currency string) PaymentLinkService {
	if baseURL == "" {
		baseURL = DefaultPaymentLinkBase
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &paymentLinkService{
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: currency,
		delay:    PaymentLinkDelay,
		now:      time.Now,
	}
}

func (s *paymentLinkService) LinkFor(inv *domain.Invoice) string {
	return fmt.Sprintf("%s/%s?method=mobile_money&banking=true", s.baseURL, url.PathEscape(inv.ID))
}

func (s *paymentLinkService) Generate(ctx context.Context, inv *domain.Invoice) (PaymentLinkResult, error) {
	if inv.PaymentLink != "" {
		return PaymentLinkResult{State: PaymentLinkReady, Link: inv.PaymentLink}, nil
	}

	result := PaymentLinkResult{State: PaymentLinkRequesting}

	var err error
	if s.notifier == nil {
		err = webhook.ErrDisabled
	} else {
		err = s.notifier.Notify(ctx, webhook.GeneratePaymentLink(inv, s.currency, s.now()))
	}
	if err != nil {
		log.Printf("payment link: webhook integration error: %v", err)
		result.Warning = fmt.Sprintf("Webhook not reached (%v); link generated locally.", err)
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return PaymentLinkResult{State: PaymentLinkIdle}, ctx.Err()
	case <-timer.C:
	}

	result.State = PaymentLinkReady
	result.Link = s.LinkFor(inv)
	return result, nil
}
