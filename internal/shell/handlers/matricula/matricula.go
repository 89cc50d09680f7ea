// Package matricula реализует HTTP-обработчик регистрации матрикулы атлета.
// Оплата зарегистрированной матрикулы запускается отдельно через checkout.
package matricula

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/services/payments"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Service описывает регистрацию матрикулы на бэкенде.
type Service interface {
	RegisterMatricula(ctx context.Context, req payments.MatriculaRequest) apiclient.Response[models.Matricula]
}

// Handler обрабатывает HTTP-запросы регистрации матрикулы.
type Handler struct {
	log      *slog.Logger
	payments Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, paymentsSvc Service) *Handler {
	return &Handler{
		log:      log,
		payments: paymentsSvc,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.matricula"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req payments.MatriculaRequest
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

	res := h.payments.RegisterMatricula(r.Context(), req)
	if !res.Success {
		msg := apiclient.MsgServerError
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		log.Error("matricula registration failed", slog.String("message", msg))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("matricula registered", slog.String("matricula_id", res.Data.ID.String()))
	render.JSON(w, r, response.OKWithData(res.Data))
}
