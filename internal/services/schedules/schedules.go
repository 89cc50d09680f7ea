// Package schedules оборачивает эндпоинты расписаний (horarios/).
package schedules

import (
	"context"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над horarios-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт сервис расписаний.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// MySchedules возвращает расписания атлетов текущего апода.
func (s *Service) MySchedules(ctx context.Context) apiclient.Response[[]models.Schedule] {
	return apiclient.As[[]models.Schedule](s.api.Get(ctx, "horarios/mis-horarios/"))
}
