// Package users оборачивает эндпоинты управления пользователями (usuarios/).
package users

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над usuarios-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт сервис пользователей.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// List возвращает список пользователей (доступно только админу).
func (s *Service) List(ctx context.Context) apiclient.Response[[]models.User] {
	return apiclient.As[[]models.User](s.api.Get(ctx, "usuarios/"))
}

// Get возвращает пользователя по идентификатору.
func (s *Service) Get(ctx context.Context, userID string) apiclient.Response[models.User] {
	return apiclient.As[models.User](s.api.Get(ctx, fmt.Sprintf("usuarios/%s/", userID)))
}

// ChangeRole запрашивает смену роли пользователя на сервере.
func (s *Service) ChangeRole(ctx context.Context, userID, role string) apiclient.Response[models.User] {
	return apiclient.As[models.User](s.api.Patch(ctx,
		fmt.Sprintf("usuarios/%s/cambiar-rol/", userID),
		map[string]string{"role": role},
	))
}
