// Package metrics объявляет счётчики Prometheus, общие для HTTP-клиента
// и платёжных потоков портала.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics объединяет все коллекторы портала.
type Metrics struct {
	// APIRequests считает исходящие запросы к REST API по методу и исходу
	// (ok, http_error, network_error, setup_error).
	APIRequests *prometheus.CounterVec
	// TokenRefresh считает попытки тихого обновления access-токена по
	// результату (ok, failed).
	TokenRefresh *prometheus.CounterVec
	// PaymentConfirmations считает подтверждения платежей по виду возврата
	// и результату.
	PaymentConfirmations *prometheus.CounterVec
}

// New регистрирует коллекторы в переданном Registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Outgoing club API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		TokenRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_token_refresh_total",
			Help: "Silent access token refresh attempts by result.",
		}, []string{"result"}),
		PaymentConfirmations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_payment_confirmations_total",
			Help: "Webpay confirmations by return kind and result.",
		}, []string{"kind", "result"}),
	}
}
