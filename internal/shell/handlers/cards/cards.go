// Package cards реализует HTTP-обработчики сохранённых карт: список,
// добавление, обновление, удаление и оплата обязательства картой без
// редиректа на шлюз.
package cards

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Service описывает операции с картами платёжного бэкенда.
type Service interface {
	Cards(ctx context.Context) apiclient.Response[[]models.Card]
	CreateCard(ctx context.Context, payload map[string]any) apiclient.Response[models.Card]
	UpdateCard(ctx context.Context, cardID string, payload map[string]any) apiclient.Response[models.Card]
	DeleteCard(ctx context.Context, cardID string) apiclient.Response[map[string]any]
	PayObligationWithCard(ctx context.Context, obligacionID, cardID string) apiclient.Response[models.Obligation]
}

// PayRequest — оплата обязательства сохранённой картой.
type PayRequest struct {
	CardID string `json:"card_id" validate:"required"`
}

// Handler обрабатывает запросы карт.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// List возвращает сохранённые карты пользователя.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.cards.list", h.service.Cards(r.Context()))
}

// Create сохраняет новую карту. Тело запроса уходит на бэкенд как есть:
// состав полей определяет контракт pagos/tarjetas/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cards.create"

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}
	relay(h, w, r, op, h.service.CreateCard(r.Context(), payload))
}

// Update обновляет карту, например делает её картой по умолчанию.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cards.update"

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}
	relay(h, w, r, op, h.service.UpdateCard(r.Context(), chi.URLParam(r, "id"), payload))
}

// Delete удаляет сохранённую карту.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.cards.delete", h.service.DeleteCard(r.Context(), chi.URLParam(r, "id")))
}

// PayObligation списывает обязательство с выбранной карты.
func (h *Handler) PayObligation(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cards.pay_obligation"

	log := h.requestLog(r, op)

	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	relay(h, w, r, op, h.service.PayObligationWithCard(r.Context(), chi.URLParam(r, "id"), req.CardID))
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, op string) (map[string]any, bool) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.requestLog(r, op).Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return nil, false
	}
	return payload, true
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func relay[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string, res apiclient.Response[T]) {
	if !res.Success {
		status := http.StatusBadGateway
		msg := apiclient.MsgServerError
		if res.Error != nil {
			if res.Error.Status > 0 {
				status = res.Error.Status
			}
			if res.Error.Message != "" {
				msg = res.Error.Message
			}
		}
		h.requestLog(r, op).Error("upstream request failed", slog.Int("status", status), slog.String("message", msg))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	render.JSON(w, r, response.OKWithData(res.Data))
}
