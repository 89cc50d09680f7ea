package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type serviceStub struct {
	cards         []models.Card
	created       map[string]any
	updatedID     string
	updated       map[string]any
	deletedID     string
	paidObligacio string
	paidCard      string
	err           *apiclient.APIError
}

func (s *serviceStub) Cards(_ context.Context) apiclient.Response[[]models.Card] {
	if s.err != nil {
		return apiclient.Response[[]models.Card]{Success: false, Error: s.err}
	}
	return apiclient.Response[[]models.Card]{Success: true, Data: s.cards}
}

func (s *serviceStub) CreateCard(_ context.Context, payload map[string]any) apiclient.Response[models.Card] {
	s.created = payload
	return apiclient.Response[models.Card]{Success: true, Data: models.Card{ID: "c1"}}
}

func (s *serviceStub) UpdateCard(_ context.Context, cardID string, payload map[string]any) apiclient.Response[models.Card] {
	s.updatedID = cardID
	s.updated = payload
	return apiclient.Response[models.Card]{Success: true, Data: models.Card{ID: json.Number(cardID)}}
}

func (s *serviceStub) DeleteCard(_ context.Context, cardID string) apiclient.Response[map[string]any] {
	s.deletedID = cardID
	return apiclient.Response[map[string]any]{Success: true}
}

func (s *serviceStub) PayObligationWithCard(_ context.Context, obligacionID, cardID string) apiclient.Response[models.Obligation] {
	if s.err != nil {
		return apiclient.Response[models.Obligation]{Success: false, Error: s.err}
	}
	s.paidObligacio = obligacionID
	s.paidCard = cardID
	return apiclient.Response[models.Obligation]{Success: true, Data: models.Obligation{ID: json.Number(obligacionID), Estado: "pagado"}}
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/tarjetas", h.List)
	r.Post("/tarjetas", h.Create)
	r.Patch("/tarjetas/{id}", h.Update)
	r.Delete("/tarjetas/{id}", h.Delete)
	r.Post("/obligaciones/{id}/pagar-con-tarjeta", h.PayObligation)
	return r
}

func TestCards_List(t *testing.T) {
	svc := &serviceStub{cards: []models.Card{{ID: "c1"}, {ID: "c2"}}}
	router := newRouter(New(newNoopLogger(), svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tarjetas", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string        `json:"status"`
		Data   []models.Card `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Len(t, resp.Data, 2)
}

func TestCards_CreatePassesPayloadThrough(t *testing.T) {
	svc := &serviceStub{}
	router := newRouter(New(newNoopLogger(), svc))

	body := bytes.NewBufferString(`{"numero":"4111111111111111","predeterminada":true}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tarjetas", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "4111111111111111", svc.created["numero"])
	assert.Equal(t, true, svc.created["predeterminada"])
}

func TestCards_CreateRejectsMalformedBody(t *testing.T) {
	router := newRouter(New(newNoopLogger(), &serviceStub{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tarjetas", bytes.NewBufferString("{no es json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCards_UpdateAndDeleteUseURLParam(t *testing.T) {
	svc := &serviceStub{}
	router := newRouter(New(newNoopLogger(), svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/tarjetas/c7", bytes.NewBufferString(`{"predeterminada":true}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c7", svc.updatedID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tarjetas/c7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c7", svc.deletedID)
}

func TestCards_PayObligation(t *testing.T) {
	svc := &serviceStub{}
	router := newRouter(New(newNoopLogger(), svc))

	body := bytes.NewBufferString(`{"card_id":"c7"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/obligaciones/99/pagar-con-tarjeta", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "99", svc.paidObligacio)
	assert.Equal(t, "c7", svc.paidCard)
}

func TestCards_PayObligationRequiresCardID(t *testing.T) {
	svc := &serviceStub{}
	router := newRouter(New(newNoopLogger(), svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/obligaciones/99/pagar-con-tarjeta", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, svc.paidObligacio)
}

func TestCards_UpstreamErrorKeepsStatus(t *testing.T) {
	svc := &serviceStub{err: &apiclient.APIError{Status: 404, Message: "Tarjeta no encontrada"}}
	router := newRouter(New(newNoopLogger(), svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tarjetas", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Tarjeta no encontrada", resp["error"])
}
