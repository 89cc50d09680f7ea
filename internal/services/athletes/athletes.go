// Package athletes оборачивает эндпоинты атлетов (atletas/).
package athletes

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над atletas-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт сервис атлетов.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// MyAthletes возвращает атлетов текущего апода.
func (s *Service) MyAthletes(ctx context.Context) apiclient.Response[[]models.Athlete] {
	return apiclient.As[[]models.Athlete](s.api.Get(ctx, "atletas/mis-atletas/"))
}

// Get возвращает карточку атлета.
func (s *Service) Get(ctx context.Context, athleteID string) apiclient.Response[models.Athlete] {
	return apiclient.As[models.Athlete](s.api.Get(ctx, fmt.Sprintf("atletas/%s/", athleteID)))
}

// Certifications возвращает сертификаты атлета.
func (s *Service) Certifications(ctx context.Context, athleteID string) apiclient.Response[[]map[string]any] {
	return apiclient.As[[]map[string]any](s.api.Get(ctx, fmt.Sprintf("atletas/%s/certificaciones/", athleteID)))
}
