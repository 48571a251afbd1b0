package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrDisabled = errors.New("webhook URL is not configured")

// Action tags the kind of event posted to the webhook
type Action string

const (
	ActionCreateInvoice       Action = "create_invoice"
	ActionGeneratePaymentLink Action = "generate_payment_link"
)

// PaymentMethods offered with every payment link request
var PaymentMethods = []string{"mobile_money", "mobile_banking"}

// Envelope is the JSON body posted to the webhook.
// Draft events use Data; invoice events use Invoice.
type Envelope struct {
	Action         Action      `json:"action"`
	Data           interface{} `json:"data,omitempty"`
	Invoice        interface{} `json:"invoice,omitempty"`
	Currency       string      `json:"currency"`
	PaymentMethods []string    `json:"payment_methods,omitempty"`
	Timestamp      string      `json:"timestamp"`
}

// CreateInvoice wraps a draft for the create_invoice action
func CreateInvoice(draft interface{}, currency string, now time.Time) Envelope {
	return Envelope{
		Action:    ActionCreateInvoice,
		Data:      draft,
		Currency:  currency,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

// GeneratePaymentLink wraps an invoice for the generate_payment_link action
func GeneratePaymentLink(invoice interface{}, currency string, now time.Time) Envelope {
	return Envelope{
		Action:         ActionGeneratePaymentLink,
		Invoice:        invoice,
		Currency:       currency,
		PaymentMethods: PaymentMethods,
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
	}
}

// StatusError is returned when the endpoint answers outside 2xx
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// Notifier posts events to a single endpoint, at most once each
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a Notifier; an empty url disables delivery
func NewNotifier(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the configured endpoint
func (n *Notifier) URL() string {
	return n.url
}

// Notify posts the envelope once; there is no retry
func (n *Notifier) Notify(ctx context.Context, env Envelope) error {
	if n == nil || n.url == "" {
		return ErrDisabled
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", env.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s event: %w", env.Action, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
