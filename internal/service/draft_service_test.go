package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)

func newTestDraftService(repo *fakeDraftRepo, ext Extractor, n Notifier) *draftService {
	cat := NewCatalogService(&fakeInvoiceRepo{}, &fakeCustomerRepo{}, "INV")
	svc := NewDraftService(repo, cat, ext, n, "UGX").(*draftService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sampleDraft() *domain.Draft {
	return &domain.Draft{
		CustomerName:  "Pearl of Africa Tours",
		CustomerEmail: "bookings@pearltours.co.ug",
		Date:          "2024-06-01",
		Items: []domain.DraftItem{
			{Description: "Safari brochure design", Quantity: 2, UnitPrice: 400000},
		},
	}
}

func TestLoad_AbsentGivesBlank(t *testing.T) {
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)

	d, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "2024-06-03", d.Date)
	assert.Equal(t, []domain.DraftItem{{Quantity: 1}}, d.Items)
}

func TestLoad_CorruptGivesBlank(t *testing.T) {
	repo := newFakeDraftRepo()
	repo.values[draftKey] = []byte(`{"customerName":`)
	svc := newTestDraftService(repo, nil, nil)

	d, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.True(t, d.IsBlank())
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)

	msg, err := svc.SaveExplicit(ctx, sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, MsgDraftSaved, msg)

	d, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, sampleDraft(), d)
}

func TestSave_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)

	first := sampleDraft()
	second := sampleDraft()
	second.CustomerName = "Crane Construction"

	require.NoError(t, svc.Save(ctx, first))
	require.NoError(t, svc.Save(ctx, second))

	d, _ := svc.Load(ctx)
	assert.Equal(t, "Crane Construction", d.CustomerName)
}

func TestSave_NegativeAmountReloads(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)

	d := sampleDraft()
	d.Items[0].UnitPrice = -400000
	require.NoError(t, svc.Save(ctx, d))

	got, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Pearl of Africa Tours", got.CustomerName)
	assert.Equal(t, d.Items, got.Items)
}

func TestSaveExplicit_RejectsNegativeAmount(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)
	require.NoError(t, svc.Save(ctx, sampleDraft()))

	d := sampleDraft()
	d.Items[0].Quantity = -2
	_, err := svc.SaveExplicit(ctx, d)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)

	stored, _ := svc.Load(ctx)
	assert.Equal(t, sampleDraft(), stored)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)
	require.NoError(t, svc.Save(ctx, sampleDraft()))

	fresh, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, fresh.IsBlank())

	d, ok := svc.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, fresh, d)
}

func TestLoadFromInvoice(t *testing.T) {
	ctx := context.Background()
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)
	inv := catalog.Invoices()[0]

	d, err := svc.LoadFromInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, "Nile Coffee Exports Ltd", d.CustomerName)
	assert.Equal(t, "2024-05-01", d.Date)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 2500000.0, d.Items[0].UnitPrice)

	stored, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, d, stored)
}

func TestApplyExtraction_MergesPresentFields(t *testing.T) {
	ctx := context.Background()
	ext := &fakeExtractor{patch: &domain.DraftPatch{
		CustomerName:    strPtr("Crane Construction"),
		CustomerAddress: strPtr(""),
		Items:           []domain.DraftItem{{Description: "Site survey", Quantity: 1, UnitPrice: 900000}},
	}}
	svc := newTestDraftService(newFakeDraftRepo(), ext, nil)
	current := sampleDraft()

	next, err := svc.ApplyExtraction(ctx, current, "survey for Crane")
	require.NoError(t, err)

	assert.Equal(t, "Crane Construction", next.CustomerName)
	assert.Equal(t, "bookings@pearltours.co.ug", next.CustomerEmail)
	assert.Equal(t, "2024-06-01", next.Date)
	assert.Equal(t, []domain.DraftItem{{Description: "Site survey", Quantity: 1, UnitPrice: 900000}}, next.Items)

	// input is not mutated
	assert.Equal(t, sampleDraft(), current)

	stored, _ := svc.Load(ctx)
	assert.Equal(t, next, stored)
}

func TestApplyExtraction_FailureLeavesDraftUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDraftRepo()
	svc := newTestDraftService(repo, &fakeExtractor{err: ai.ErrMalformedResponse}, nil)

	current := sampleDraft()
	require.NoError(t, svc.Save(ctx, current))

	next, err := svc.ApplyExtraction(ctx, current, "garbage")
	assert.ErrorIs(t, err, ai.ErrMalformedResponse)
	assert.Nil(t, next)

	stored, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Pearl of Africa Tours", stored.CustomerName)
	assert.Equal(t, sampleDraft().Items, stored.Items)
	assert.Equal(t, sampleDraft(), current)
}

func TestApplyExtraction_RejectsNegativeAmounts(t *testing.T) {
	ext := &fakeExtractor{patch: &domain.DraftPatch{
		Items: []domain.DraftItem{{Description: "Refund", Quantity: 1, UnitPrice: -5000}},
	}}
	svc := newTestDraftService(newFakeDraftRepo(), ext, nil)

	_, err := svc.ApplyExtraction(context.Background(), sampleDraft(), "refund")
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
}

func TestApplyExtraction_NoAI(t *testing.T) {
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)
	_, err := svc.ApplyExtraction(context.Background(), sampleDraft(), "text")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestSend_Success(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := newTestDraftService(newFakeDraftRepo(), nil, notifier)

	res, err := svc.Send(ctx, sampleDraft())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, MsgInvoiceSent, res.Message)
	assert.Empty(t, res.Warning)
	assert.True(t, res.Draft.IsBlank())

	require.Len(t, notifier.sent, 1)
	env := notifier.sent[0]
	assert.Equal(t, webhook.ActionCreateInvoice, env.Action)
	assert.Equal(t, "UGX", env.Currency)
	assert.Equal(t, sampleDraft(), env.Data)

	stored, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.True(t, stored.IsBlank())
}

func TestSend_NetworkErrorKeepsDraft(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{err: errors.New("dial tcp: connection refused")}
	svc := newTestDraftService(newFakeDraftRepo(), nil, notifier)

	res, err := svc.Send(ctx, sampleDraft())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, MsgWebhookWarning, res.Warning)
	assert.Equal(t, sampleDraft(), res.Draft)

	stored, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, sampleDraft(), stored)
}

func TestSend_InvalidDraftIsNotPosted(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestDraftService(newFakeDraftRepo(), nil, notifier)

	d := sampleDraft()
	d.Items[0].Quantity = -1

	_, err := svc.Send(context.Background(), d)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	assert.Empty(t, notifier.sent)
}

func TestPreview(t *testing.T) {
	svc := newTestDraftService(newFakeDraftRepo(), nil, nil)

	inv, err := svc.Preview(context.Background(), sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", inv.Number)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "944000", inv.Total.String())
	assert.NoError(t, inv.Validate())
}
