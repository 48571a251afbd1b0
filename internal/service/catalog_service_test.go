package service

import (
	"context"
	"testing"

	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededCatalog(t *testing.T) (CatalogService, *fakeInvoiceRepo) {
	t.Helper()
	invoices := &fakeInvoiceRepo{}
	svc := NewCatalogService(invoices, &fakeCustomerRepo{}, "INV")
	require.NoError(t, svc.EnsureSeeded(context.Background()))
	return svc, invoices
}

func ids(invoices []*domain.Invoice) []string {
	out := make([]string, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.ID
	}
	return out
}

func TestEnsureSeeded_Once(t *testing.T) {
	svc, repo := seededCatalog(t)
	require.NoError(t, svc.EnsureSeeded(context.Background()))
	assert.Len(t, repo.invoices, 4)
}

func TestSearch_ByCustomerName(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Query: "Nile", Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"inv_001", "inv_004"}, ids(res.Invoices))
	assert.True(t, res.Searched)
	assert.False(t, res.Empty())
}

func TestSearch_CaseInsensitiveNumber(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Query: "inv-2024-003", Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"inv_003"}, ids(res.Invoices))
}

func TestSearch_EmptyQueryAllReturnsCatalogOrder(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"inv_001", "inv_002", "inv_003", "inv_004"}, ids(res.Invoices))
	assert.False(t, res.Searched)
	assert.False(t, res.Empty())
}

func TestSearch_StatusAndQuery(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Query: "nile", Status: StatusFilter(domain.InvoiceStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, []string{"inv_004"}, ids(res.Invoices))
}

func TestSearch_NoMatchIsEmpty(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Query: "zzz", Status: StatusAll})
	require.NoError(t, err)
	assert.Empty(t, res.Invoices)
	assert.True(t, res.Empty())
}

func TestSearch_WhitespaceQueryIsLiteral(t *testing.T) {
	svc, _ := seededCatalog(t)

	res, err := svc.Search(context.Background(), Filter{Query: "  ", Status: StatusAll})
	require.NoError(t, err)
	assert.True(t, res.Searched)
	assert.True(t, res.Empty())

	res, err = svc.Search(context.Background(), Filter{Query: "Crane ", Status: StatusAll})
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "Crane Construction", res.Invoices[0].CustomerName())
}

func TestFilterInvoices_IdempotentAndStable(t *testing.T) {
	invoices := catalog.Invoices()
	f := Filter{Query: "o", Status: StatusAll}

	once := FilterInvoices(invoices, f)
	twice := FilterInvoices(once, f)
	assert.Equal(t, ids(once), ids(twice))

	// result preserves the relative input order
	pos := map[string]int{}
	for i, inv := range invoices {
		pos[inv.ID] = i
	}
	for i := 1; i < len(once); i++ {
		assert.Less(t, pos[once[i-1].ID], pos[once[i].ID])
	}
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, f)

	f, err = ParseStatusFilter("overdue")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter(domain.InvoiceStatusOverdue), f)

	_, err = ParseStatusFilter("cancelled")
	assert.Error(t, err)
}

func TestGet_ByIDOrNumber(t *testing.T) {
	svc, _ := seededCatalog(t)
	ctx := context.Background()

	byID, err := svc.Get(ctx, "inv_002")
	require.NoError(t, err)
	byNumber, err := svc.Get(ctx, "INV-2024-002")
	require.NoError(t, err)
	assert.Same(t, byID, byNumber)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

func TestReseed(t *testing.T) {
	svc, repo := seededCatalog(t)
	repo.invoices = repo.invoices[:1]

	require.NoError(t, svc.Reseed(context.Background()))
	assert.Len(t, repo.invoices, 4)
}
