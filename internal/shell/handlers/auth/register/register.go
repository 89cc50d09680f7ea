// Package register реализует HTTP-обработчик регистрации локальной оболочки.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/services/auth"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Service описывает нужную обработчику операцию держателя сессии.
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) bool
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	session  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessionSvc Service) *Handler {
	return &Handler{
		log:      log,
		session:  sessionSvc,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req auth.RegisterRequest
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

	if !h.session.Register(r.Context(), req) {
		log.Warn("registration rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo completar el registro"))
		return
	}

	log.Info("registration success", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
