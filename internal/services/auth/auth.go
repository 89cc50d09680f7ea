// Package auth оборачивает эндпоинты аутентификации REST API. Сервис отвечает
// и за сохранение токенов сессии в локальном хранилище: успешный login/register
// кладёт access, refresh и снимок пользователя, logout их безусловно чистит.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/storage"
)

// Service — обёртка над auth-эндпоинтами.
type Service struct {
	api   *apiclient.Client
	store *storage.Store
	log   *slog.Logger
}

// New создаёт сервис аутентификации.
func New(api *apiclient.Client, store *storage.Store, log *slog.Logger) *Service {
	return &Service{api: api, store: store, log: log}
}

// SessionData — ответ login/register: пара токенов и пользователь.
type SessionData struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

// RegisterRequest — данные регистрации нового публичного пользователя.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// Login выполняет вход и сохраняет токены и снимок пользователя.
func (s *Service) Login(ctx context.Context, email, password string) apiclient.Response[SessionData] {
	res := apiclient.As[SessionData](s.api.Post(ctx, "auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}))
	if res.Success {
		s.persistSession(res.Data)
	}
	return res
}

// Register создаёт пользователя. Если сервер сразу выдал токены, сессия
// сохраняется как при login.
func (s *Service) Register(ctx context.Context, req RegisterRequest) apiclient.Response[SessionData] {
	res := apiclient.As[SessionData](s.api.Post(ctx, "auth/register/", req))
	if res.Success && res.Data.Access != "" && res.Data.Refresh != "" {
		s.persistSession(res.Data)
	}
	return res
}

// Logout отзывает refresh-токен на сервере и чистит локальную сессию.
// Отказ сервера намеренно проглатывается: с точки зрения пользователя
// logout успешен всегда.
func (s *Service) Logout(ctx context.Context) {
	const op = "services.auth.Logout"
	if refresh := s.store.RefreshToken(); refresh != "" {
		res := s.api.Post(ctx, "auth/logout/", map[string]string{"refresh": refresh})
		if !res.Success {
			s.log.Warn("server-side logout failed, clearing local session anyway",
				slog.String("op", op), sl.Err(res.Error))
		}
	}
	if err := s.store.ClearSession(); err != nil {
		s.log.Error("failed to clear local session", slog.String("op", op), sl.Err(err))
	}
}

// Me возвращает профиль текущего пользователя.
func (s *Service) Me(ctx context.Context) apiclient.Response[models.User] {
	return apiclient.As[models.User](s.api.Get(ctx, "auth/me/"))
}

// UpdateProfile отправляет частичное обновление профиля. Успешный ответ
// сервера замещает локальный снимок пользователя.
func (s *Service) UpdateProfile(ctx context.Context, update models.ProfileUpdate) apiclient.Response[models.User] {
	res := apiclient.As[models.User](s.api.Patch(ctx, "auth/me/", update))
	if res.Success {
		s.persistUser(res.Data)
	}
	return res
}

// RequestPasswordReset запрашивает код восстановления пароля.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) apiclient.Response[map[string]any] {
	return apiclient.As[map[string]any](s.api.Post(ctx, "auth/password/reset/", map[string]string{"email": email}))
}

// ValidateResetCode проверяет код восстановления, не меняя пароль.
func (s *Service) ValidateResetCode(ctx context.Context, email, code string) apiclient.Response[map[string]any] {
	return apiclient.As[map[string]any](s.api.Post(ctx, "auth/password/reset/validate/", map[string]string{
		"email": email,
		"code":  code,
	}))
}

// ConfirmPasswordReset подтверждает смену пароля по коду.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) apiclient.Response[map[string]any] {
	return apiclient.As[map[string]any](s.api.Post(ctx, "auth/password/reset/confirm/", map[string]string{
		"email":        email,
		"code":         code,
		"new_password": newPassword,
	}))
}

func (s *Service) persistSession(data SessionData) {
	const op = "services.auth.persistSession"
	if err := s.store.Set(storage.KeyAccessToken, data.Access); err != nil {
		s.log.Error("failed to persist access token", slog.String("op", op), sl.Err(err))
	}
	if err := s.store.Set(storage.KeyRefreshToken, data.Refresh); err != nil {
		s.log.Error("failed to persist refresh token", slog.String("op", op), sl.Err(err))
	}
	s.persistUser(data.User)
}

func (s *Service) persistUser(user models.User) {
	const op = "services.auth.persistUser"
	raw, err := json.Marshal(user)
	if err != nil {
		s.log.Error("failed to encode user snapshot", slog.String("op", op), sl.Err(err))
		return
	}
	if err := s.store.Set(storage.KeyUser, string(raw)); err != nil {
		s.log.Error("failed to persist user snapshot", slog.String("op", op), sl.Err(err))
	}
}
