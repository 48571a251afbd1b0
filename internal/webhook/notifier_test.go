package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_PostsEnvelope(t *testing.T) {
	var (
		gotBody   map[string]interface{}
		gotType   string
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	now := time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
	env := CreateInvoice(map[string]string{"customerName": "Crane Construction"}, "UGX", now)

	err := NewNotifier(srv.URL, time.Second).Notify(context.Background(), env)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "create_invoice", gotBody["action"])
	assert.Equal(t, "UGX", gotBody["currency"])
	assert.Equal(t, "2024-06-01T09:30:00Z", gotBody["timestamp"])
	assert.Equal(t, map[string]interface{}{"customerName": "Crane Construction"}, gotBody["data"])
	assert.NotContains(t, gotBody, "invoice")
	assert.NotContains(t, gotBody, "payment_methods")
}

func TestGeneratePaymentLinkEnvelope(t *testing.T) {
	env := GeneratePaymentLink(map[string]string{"id": "inv_001"}, "UGX", time.Now())

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "generate_payment_link", decoded["action"])
	assert.Equal(t, []interface{}{"mobile_money", "mobile_banking"}, decoded["payment_methods"])
	assert.Contains(t, decoded, "invoice")
	assert.NotContains(t, decoded, "data")
}

func TestNotify_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewNotifier(srv.URL, time.Second).Notify(context.Background(), CreateInvoice(nil, "UGX", time.Now()))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestNotify_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewNotifier(url, time.Second).Notify(context.Background(), CreateInvoice(nil, "UGX", time.Now()))
	assert.Error(t, err)
}

func TestNotify_Disabled(t *testing.T) {
	err := NewNotifier("", time.Second).Notify(context.Background(), CreateInvoice(nil, "UGX", time.Now()))
	assert.ErrorIs(t, err, ErrDisabled)
}
