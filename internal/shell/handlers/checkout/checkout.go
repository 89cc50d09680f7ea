// Package checkout реализует HTTP-обработчик запуска оплаты Webpay.
//
// Обработчик создаёт транзакцию нужного вида и отвечает HTML-страницей с
// автосабмит-формой: Transbank принимает только POST с единственным скрытым
// полем token_ws.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/payment"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Виды оплаты, принимаемые обработчиком.
const (
	KindMatricula  = "matricula"
	KindObligacion = "obligacion"
	KindPedido     = "pedido"
)

// Request — структура входных данных запуска оплаты. Monto обязателен
// только для матрикулы: для обязательств и заказов сумму знает бэкенд.
type Request struct {
	Kind     string  `json:"kind" validate:"required,oneof=matricula obligacion pedido"`
	TargetID string  `json:"target_id" validate:"required"`
	Monto    float64 `json:"monto,omitempty"`
}

// Flow описывает создание транзакций Webpay.
type Flow interface {
	StartMatricula(ctx context.Context, matriculaID string, monto float64) (models.WebpayInit, error)
	StartOnline(ctx context.Context, obligacionID string) (models.WebpayInit, error)
	StartOrder(ctx context.Context, orderID string) (models.WebpayInit, error)
}

// Handler обрабатывает запуск оплаты.
type Handler struct {
	log      *slog.Logger
	flow     Flow
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, flow Flow) *Handler {
	return &Handler{
		log:      log,
		flow:     flow,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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
	if req.Kind == KindMatricula && req.Monto <= 0 {
		log.Error("matricula checkout without amount")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field Monto must be greater than zero"))
		return
	}

	var (
		init models.WebpayInit
		err  error
	)
	switch req.Kind {
	case KindObligacion:
		init, err = h.flow.StartOnline(r.Context(), req.TargetID)
	case KindPedido:
		init, err = h.flow.StartOrder(r.Context(), req.TargetID)
	default:
		init, err = h.flow.StartMatricula(r.Context(), req.TargetID, req.Monto)
	}
	if err != nil {
		log.Error("failed to init payment", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo iniciar el pago"))
		return
	}

	log.Info("payment initiated", slog.String("kind", req.Kind), slog.String("target_id", req.TargetID))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := payment.WriteRedirectForm(w, init.URL, init.Token); err != nil {
		log.Error("failed to render redirect form", sl.Err(err))
	}
}
