package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-portal/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type flowStub struct {
	matriculaID string
	monto       float64
	onlineID    string
	orderID     string
	init        models.WebpayInit
	err         error
}

func (f *flowStub) StartMatricula(_ context.Context, matriculaID string, monto float64) (models.WebpayInit, error) {
	f.matriculaID = matriculaID
	f.monto = monto
	return f.init, f.err
}

func (f *flowStub) StartOnline(_ context.Context, obligacionID string) (models.WebpayInit, error) {
	f.onlineID = obligacionID
	return f.init, f.err
}

func (f *flowStub) StartOrder(_ context.Context, orderID string) (models.WebpayInit, error) {
	f.orderID = orderID
	return f.init, f.err
}

func doRequest(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/checkout", &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCheckout_MatriculaRendersRedirectForm(t *testing.T) {
	flow := &flowStub{init: models.WebpayInit{URL: "https://webpay.cl/init", Token: "tok-123"}}
	handler := New(newNoopLogger(), flow)

	rec := doRequest(t, handler, Request{Kind: KindMatricula, TargetID: "15", Monto: 45000})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "15", flow.matriculaID)
	assert.InDelta(t, 45000, flow.monto, 0.001)
	assert.Contains(t, rec.Body.String(), `name="token_ws"`)
	assert.Contains(t, rec.Body.String(), `value="tok-123"`)
}

func TestCheckout_DispatchByKind(t *testing.T) {
	flow := &flowStub{init: models.WebpayInit{URL: "https://webpay.cl/init", Token: "tok"}}
	handler := New(newNoopLogger(), flow)

	doRequest(t, handler, Request{Kind: KindObligacion, TargetID: "99"})
	assert.Equal(t, "99", flow.onlineID)

	doRequest(t, handler, Request{Kind: KindPedido, TargetID: "41"})
	assert.Equal(t, "41", flow.orderID)
}

func TestCheckout_Validation(t *testing.T) {
	handler := New(newNoopLogger(), &flowStub{})

	t.Run("unknown kind", func(t *testing.T) {
		rec := doRequest(t, handler, Request{Kind: "regalo", TargetID: "1"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("matricula without amount", func(t *testing.T) {
		rec := doRequest(t, handler, Request{Kind: KindMatricula, TargetID: "1"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing target", func(t *testing.T) {
		rec := doRequest(t, handler, Request{Kind: KindPedido})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCheckout_InitFailure(t *testing.T) {
	flow := &flowStub{err: errors.New("gateway down")}
	handler := New(newNoopLogger(), flow)

	rec := doRequest(t, handler, Request{Kind: KindPedido, TargetID: "41"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Error", resp["status"])
}
