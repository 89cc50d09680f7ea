// Package payments оборачивает платёжные эндпоинты (pagos/): матрикулы,
// задолженности, Webpay-операции, сохранённые карты и автосписание.
package payments

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над pagos-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт платёжный сервис.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// MatriculaRequest — регистрация матрикулы перед оплатой. Поля повторяют
// контракт pagos/matriculas/.
type MatriculaRequest struct {
	AtletaNombre          string  `json:"atleta_nombre" validate:"required"`
	AtletaRut             string  `json:"atleta_rut" validate:"required,min=8"`
	AtletaFechaNacimiento string  `json:"atleta_fecha_nacimiento" validate:"required"`
	Division              string  `json:"division" validate:"required"`
	Nivel                 string  `json:"nivel"`
	TelefonoContacto      string  `json:"telefono_contacto,omitempty"`
	Direccion             string  `json:"direccion,omitempty"`
	ApoderadoNombre       string  `json:"apoderado_nombre"`
	ApoderadoEmail        string  `json:"apoderado_email"`
	ApoderadoTelefono     string  `json:"apoderado_telefono,omitempty"`
	Monto                 float64 `json:"monto" validate:"gt=0"`
	Periodo               string  `json:"periodo,omitempty"`
}

// RegisterMatricula создаёт матрикулу на сервере.
func (s *Service) RegisterMatricula(ctx context.Context, req MatriculaRequest) apiclient.Response[models.Matricula] {
	return apiclient.As[models.Matricula](s.api.Post(ctx, "pagos/matriculas/", req))
}

// MyPayments возвращает платежи текущего пользователя.
func (s *Service) MyPayments(ctx context.Context) apiclient.Response[[]models.Matricula] {
	return apiclient.As[[]models.Matricula](s.api.Get(ctx, "pagos/matriculas/mis-pagos/"))
}

// MatriculaPeriods возвращает периоды матрикуляции.
func (s *Service) MatriculaPeriods(ctx context.Context) apiclient.Response[[]models.MatriculaPeriod] {
	return apiclient.As[[]models.MatriculaPeriod](s.api.Get(ctx, "pagos/periodos-matricula/"))
}

// MyDebts возвращает непогашенные задолженности текущего пользователя.
func (s *Service) MyDebts(ctx context.Context) apiclient.Response[[]models.Debt] {
	return apiclient.As[[]models.Debt](s.api.Get(ctx, "pagos/deudas/mis-deudas/"))
}

// InitWebpay начинает Webpay-транзакцию оплаты матрикулы.
func (s *Service) InitWebpay(ctx context.Context, matriculaID string, monto float64, buyOrder, sessionID string) apiclient.Response[models.WebpayInit] {
	return apiclient.As[models.WebpayInit](s.api.Post(ctx, "pagos/webpay/init/", map[string]any{
		"matricula_id": matriculaID,
		"monto":        monto,
		"buy_order":    buyOrder,
		"session_id":   sessionID,
	}))
}

// ConfirmWebpay подтверждает оплату матрикулы по token_ws. Успешный ответ
// несёт обновлённый снимок пользователя (роль может стать apoderado).
func (s *Service) ConfirmWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation] {
	return apiclient.As[models.WebpayConfirmation](s.api.Post(ctx, "pagos/webpay/confirmar/",
		map[string]string{"token": token}))
}

// Obligations возвращает обязательства онлайн-платежей. estado фильтрует по
// состоянию, пустая строка — без фильтра.
func (s *Service) Obligations(ctx context.Context, estado string) apiclient.Response[[]models.Obligation] {
	path := "pagos/online-obligaciones/"
	if estado != "" {
		path += "?estado=" + estado
	}
	return apiclient.As[[]models.Obligation](s.api.Get(ctx, path))
}

// InitOnlineWebpay начинает Webpay-транзакцию оплаты обязательства.
func (s *Service) InitOnlineWebpay(ctx context.Context, obligacionID, buyOrder, sessionID string) apiclient.Response[models.WebpayInit] {
	return apiclient.As[models.WebpayInit](s.api.Post(ctx, "pagos/online/webpay/init/", map[string]string{
		"obligacion_id": obligacionID,
		"buy_order":     buyOrder,
		"session_id":    sessionID,
	}))
}

// ConfirmOnlineWebpay подтверждает оплату обязательства по token_ws.
func (s *Service) ConfirmOnlineWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation] {
	return apiclient.As[models.WebpayConfirmation](s.api.Post(ctx, "pagos/online/webpay/confirmar/",
		map[string]string{"token": token}))
}

// Cards возвращает сохранённые карты пользователя.
func (s *Service) Cards(ctx context.Context) apiclient.Response[[]models.Card] {
	return apiclient.As[[]models.Card](s.api.Get(ctx, "pagos/tarjetas/"))
}

// CreateCard сохраняет новую карту.
func (s *Service) CreateCard(ctx context.Context, payload map[string]any) apiclient.Response[models.Card] {
	return apiclient.As[models.Card](s.api.Post(ctx, "pagos/tarjetas/", payload))
}

// UpdateCard обновляет карту (например, делает её предвыбранной).
func (s *Service) UpdateCard(ctx context.Context, cardID string, payload map[string]any) apiclient.Response[models.Card] {
	return apiclient.As[models.Card](s.api.Patch(ctx, fmt.Sprintf("pagos/tarjetas/%s/", cardID), payload))
}

// DeleteCard удаляет сохранённую карту.
func (s *Service) DeleteCard(ctx context.Context, cardID string) apiclient.Response[map[string]any] {
	return apiclient.As[map[string]any](s.api.Delete(ctx, fmt.Sprintf("pagos/tarjetas/%s/", cardID)))
}

// PayObligationWithCard оплачивает обязательство сохранённой картой, минуя
// редирект на шлюз.
func (s *Service) PayObligationWithCard(ctx context.Context, obligacionID, cardID string) apiclient.Response[models.Obligation] {
	return apiclient.As[models.Obligation](s.api.Post(ctx,
		fmt.Sprintf("pagos/online-obligaciones/%s/pagar-con-tarjeta/", obligacionID),
		map[string]string{"card_id": cardID}))
}

// Autopay батчем списывает все ожидающие обязательства с карты по умолчанию
// и возвращает количество оплаченных.
func (s *Service) Autopay(ctx context.Context) apiclient.Response[models.AutopayResult] {
	return apiclient.As[models.AutopayResult](s.api.Post(ctx, "pagos/online-obligaciones/autopagar/", nil))
}
