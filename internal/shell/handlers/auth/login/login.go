// Package login реализует HTTP-обработчик входа локальной оболочки.
//
// Обработчик декодирует JSON с учётными данными, валидирует поля и
// делегирует вход держателю сессии. Серверные тексты отказа уже сведены
// держателем к пользовательским сообщениям.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/session"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает нужную обработчику операцию держателя сессии.
type Service interface {
	Login(ctx context.Context, email, password string) session.LoginResult
}

// Handler обрабатывает HTTP-запросы входа.
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
	const op = "handlers.auth.login"

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

	res := h.session.Login(r.Context(), req.Email, req.Password)
	if !res.Success {
		log.Warn("login rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(res.Message))
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
