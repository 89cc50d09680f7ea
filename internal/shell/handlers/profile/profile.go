// Package profile реализует HTTP-обработчики профиля: частичное обновление
// данных пользователя, смену роли и восстановление пароля.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// RoleRequest — структура входных данных смены роли.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=public apoderado admin entrenador"`
}

// ResetRequest — структура входных данных восстановления пароля. Код и
// новый пароль нужны только на соответствующих шагах.
type ResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// Session описывает нужные обработчику операции держателя сессии.
type Session interface {
	User() *models.User
	UpdateUserProfile(ctx context.Context, update models.ProfileUpdate) bool
	UpdateUserRole(ctx context.Context, userID, newRole string) bool
	RequestPasswordReset(ctx context.Context, email string) bool
	ValidateResetCode(ctx context.Context, email, code string) bool
	ResetPassword(ctx context.Context, email, code, newPassword string) bool
}

// Handler обрабатывает HTTP-запросы профиля.
type Handler struct {
	log      *slog.Logger
	session  Session
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Session) *Handler {
	return &Handler{
		log:      log,
		session:  session,
		validate: validator.New(),
	}
}

// Me возвращает пользователя текущей сессии.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.session.User()
	if user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("no hay sesión activa"))
		return
	}
	render.JSON(w, r, response.OKWithData(user))
}

// Update применяет частичное обновление профиля. Обновление оптимистично:
// локальная копия меняется даже при отказе сервера.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
	log := h.requestLog(r, op)

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if !h.session.UpdateUserProfile(r.Context(), update) {
		log.Warn("profile update without active session")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("no hay sesión activa"))
		return
	}
	render.JSON(w, r, response.OKWithData(h.session.User()))
}

// ChangeRole меняет роль пользователя.
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.change_role"
	log := h.requestLog(r, op)

	var req RoleRequest
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

	h.session.UpdateUserRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	render.JSON(w, r, response.OK())
}

// RequestReset запрашивает код восстановления пароля.
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	h.resetStep(w, r, "handlers.profile.request_reset", func(ctx context.Context, req ResetRequest) bool {
		return h.session.RequestPasswordReset(ctx, req.Email)
	})
}

// ValidateReset проверяет код восстановления.
func (h *Handler) ValidateReset(w http.ResponseWriter, r *http.Request) {
	h.resetStep(w, r, "handlers.profile.validate_reset", func(ctx context.Context, req ResetRequest) bool {
		return h.session.ValidateResetCode(ctx, req.Email, req.Code)
	})
}

// ConfirmReset подтверждает смену пароля по коду.
func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	h.resetStep(w, r, "handlers.profile.confirm_reset", func(ctx context.Context, req ResetRequest) bool {
		return h.session.ResetPassword(ctx, req.Email, req.Code, req.NewPassword)
	})
}

func (h *Handler) resetStep(w http.ResponseWriter, r *http.Request, op string, step func(ctx context.Context, req ResetRequest) bool) {
	log := h.requestLog(r, op)

	var req ResetRequest
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

	if !step(r.Context(), req) {
		log.Warn("password reset step rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo procesar la solicitud"))
		return
	}
	render.JSON(w, r, response.OK())
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
