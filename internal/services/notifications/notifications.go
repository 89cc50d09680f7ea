// Package notifications оборачивает эндпоинты уведомлений (notificaciones/).
package notifications

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над notificaciones-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт сервис уведомлений.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// List возвращает уведомления текущего пользователя.
func (s *Service) List(ctx context.Context) apiclient.Response[[]models.Notification] {
	return apiclient.As[[]models.Notification](s.api.Get(ctx, "notificaciones/"))
}

// MarkRead помечает уведомление прочитанным.
func (s *Service) MarkRead(ctx context.Context, notificationID string) apiclient.Response[models.Notification] {
	return apiclient.As[models.Notification](s.api.Patch(ctx,
		fmt.Sprintf("notificaciones/%s/marcar-leida/", notificationID), nil))
}

// UnreadCount возвращает счётчик непрочитанных уведомлений.
func (s *Service) UnreadCount(ctx context.Context) apiclient.Response[models.UnreadCount] {
	return apiclient.As[models.UnreadCount](s.api.Get(ctx, "notificaciones/no-leidas/count/"))
}
