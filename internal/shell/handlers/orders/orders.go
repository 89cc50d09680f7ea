// Package orders реализует HTTP-обработчик оформления заказа магазина.
// Заказ создаётся из текущей корзины на сервере; после него оболочка может
// запустить оплату через checkout с kind=pedido.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Service описывает создание заказов магазина.
type Service interface {
	CreateOrder(ctx context.Context, payload map[string]any) apiclient.Response[models.Order]
}

// CartClearer сбрасывает клиентский кеш корзины после оформления заказа.
type CartClearer interface {
	Clear()
}

// Handler обрабатывает оформление заказов.
type Handler struct {
	log     *slog.Logger
	service Service
	cart    CartClearer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cart CartClearer) *Handler {
	return &Handler{log: log, service: service, cart: cart}
}

// Create оформляет заказ из текущей корзины. Тело запроса необязательно:
// детали доставки и комментарий уходят на бэкенд как есть.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res := h.service.CreateOrder(r.Context(), payload)
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
		log.Error("failed to create order", slog.Int("status", status), slog.String("message", msg))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	// корзина ушла в заказ, кеш больше не актуален
	h.cart.Clear()

	log.Info("order created", slog.String("order_id", res.Data.ID.String()))
	render.JSON(w, r, response.OKWithData(res.Data))
}
